package model

// ResolutionSource indicates which tier produced a resolution.
type ResolutionSource string

// Resolution sources.
const (
	ResolutionCache     ResolutionSource = "CACHE"
	ResolutionPlatform  ResolutionSource = "PLATFORM"
	ResolutionHeuristic ResolutionSource = "HEURISTIC"
	ResolutionUnknown   ResolutionSource = "UNKNOWN"
)

// Evidence types.
const (
	EvidenceUserConfirmed   = "USER_CONFIRMED"
	EvidenceStored          = "STORED_EVIDENCE"
	EvidenceCacheMatch      = "CACHE_MATCH"
	EvidenceBankFee         = "BANK_FEE"
	EvidencePlatform        = "PLATFORM_DETECTED"
	EvidenceIntermediary    = "INTERMEDIARY"
	EvidencePix             = "PIX_TRANSFER"
	EvidenceDocumentPresent = "DOCUMENT_DETECTED"
)

// EvidenceItem is one human-readable reason behind a resolution.
type EvidenceItem struct {
	Confidence *float64 `json:"confidence,omitempty"`
	Type       string   `json:"type"`
	Detail     string   `json:"detail"`
}

// MerchantResolution is the answer for a single descriptor.
// An empty category means no suggestion.
type MerchantResolution struct {
	MerchantLabel          string           `json:"merchantLabel"`
	LegalName              string           `json:"legalName,omitempty"`
	CNPJ                   string           `json:"cnpj,omitempty"`
	SuggestedCategoryID    string           `json:"suggestedCategoryId,omitempty"`
	SuggestedSubcategoryID string           `json:"suggestedSubcategoryId,omitempty"`
	DetectedPlatform       string           `json:"detectedPlatform,omitempty"`
	NormalizedKey          string           `json:"normalizedKey"`
	Source                 ResolutionSource `json:"source"`
	Evidence               []EvidenceItem   `json:"evidence"`
	Confidence             float64          `json:"confidence"`
	IsIntermediary         bool             `json:"isIntermediary"`
}

// IsUnknown reports whether no tier matched.
func (r MerchantResolution) IsUnknown() bool {
	return r.Source == ResolutionUnknown
}
