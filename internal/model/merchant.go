package model

import (
	"fmt"
	"strings"
	"time"
)

// EntrySource indicates how a merchant directory entry was created.
type EntrySource string

const (
	// SourceUserConfirmed indicates the entry came from a user correction.
	SourceUserConfirmed EntrySource = "USER_CONFIRMED"
	// SourcePlatformDetected indicates the entry was recorded from a knowledge base platform match.
	SourcePlatformDetected EntrySource = "PLATFORM_DETECTED"
	// SourceHeuristic indicates the entry was recorded from a heuristic such as the bank fee rules.
	SourceHeuristic EntrySource = "HEURISTIC"
	// SourceCache indicates a plain historical entry with no stronger provenance.
	SourceCache EntrySource = "CACHE"
)

// Valid reports whether s is a known entry source.
func (s EntrySource) Valid() bool {
	switch s {
	case SourceUserConfirmed, SourcePlatformDetected, SourceHeuristic, SourceCache:
		return true
	}
	return false
}

// ScopeKind is the stored discriminator of a Scope.
type ScopeKind string

// Scope kinds.
const (
	ScopeGlobal ScopeKind = "global"
	ScopeFamily ScopeKind = "family"
)

// Scope says who a directory entry applies to: everyone, or a single family.
// The zero value is the global scope.
type Scope struct {
	familyID string
}

// GlobalScope returns the scope shared by every family.
func GlobalScope() Scope {
	return Scope{}
}

// FamilyScope returns the scope private to familyID.
// An empty familyID yields the global scope.
func FamilyScope(familyID string) Scope {
	return Scope{familyID: familyID}
}

// ScopeFromStorage rebuilds a Scope from its stored columns.
func ScopeFromStorage(kind ScopeKind, familyID string) Scope {
	if kind == ScopeFamily {
		return FamilyScope(familyID)
	}
	return GlobalScope()
}

// Kind returns the scope discriminator.
func (s Scope) Kind() ScopeKind {
	if s.familyID == "" {
		return ScopeGlobal
	}
	return ScopeFamily
}

// IsGlobal reports whether the scope is global.
func (s Scope) IsGlobal() bool {
	return s.familyID == ""
}

// FamilyID returns the owning family, or "" for the global scope.
func (s Scope) FamilyID() string {
	return s.familyID
}

// VisibleTo reports whether an entry with this scope may answer a request
// made on behalf of familyID. Global entries are visible to everyone; family
// entries only to the same family.
func (s Scope) VisibleTo(familyID string) bool {
	return s.IsGlobal() || s.familyID == familyID
}

func (s Scope) String() string {
	if s.IsGlobal() {
		return string(ScopeGlobal)
	}
	return string(ScopeFamily) + ":" + s.familyID
}

// MarshalText encodes the scope as "global" or "family:<id>".
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the form written by MarshalText.
func (s *Scope) UnmarshalText(text []byte) error {
	value := string(text)
	switch {
	case value == "" || value == string(ScopeGlobal):
		*s = GlobalScope()
	case strings.HasPrefix(value, string(ScopeFamily)+":"):
		*s = FamilyScope(strings.TrimPrefix(value, string(ScopeFamily)+":"))
	default:
		return fmt.Errorf("invalid scope %q", value)
	}
	return nil
}

// MerchantEntry is a previously resolved merchant stored in the directory.
// Its natural key is (Scope, NormalizedKey).
type MerchantEntry struct {
	LastMatchedAt     time.Time   `json:"lastMatchedAt"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
	Scope             Scope       `json:"scope"`
	ID                string      `json:"id"`
	NormalizedKey     string      `json:"normalizedKey"`
	DisplayName       string      `json:"displayName"`
	LegalName         string      `json:"legalName,omitempty"`
	CNPJ              string      `json:"cnpj,omitempty"`
	CategoryID        string      `json:"categoryId"`
	SubcategoryID     string      `json:"subcategoryId,omitempty"`
	EvidenceSummary   string      `json:"evidenceSummary,omitempty"`
	Source            EntrySource `json:"source"`
	DetectedPlatform  string      `json:"detectedPlatform,omitempty"`
	SampleDescriptors []string    `json:"sampleDescriptors"`
	MatchCount        int         `json:"matchCount"`
	ConfidenceDefault float64     `json:"confidenceDefault"`
	IsIntermediary    bool        `json:"isIntermediary"`
}
