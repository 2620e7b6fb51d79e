package resolver

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Veraticus/spice-merchant/internal/knowledge"
	"github.com/Veraticus/spice-merchant/internal/model"
	"github.com/Veraticus/spice-merchant/internal/normalize"
)

const intermediaryWarning = "Payment intermediary: the real merchant may differ"

func confidencePtr(c float64) *float64 {
	return &c
}

// cacheEvidence explains a directory hit according to how the entry was learned.
func cacheEvidence(entry *model.MerchantEntry) model.EvidenceItem {
	item := model.EvidenceItem{Confidence: confidencePtr(entry.ConfidenceDefault)}

	switch entry.Source {
	case model.SourceUserConfirmed:
		item.Type = model.EvidenceUserConfirmed
		item.Detail = fmt.Sprintf("You previously categorized this merchant as %s", entry.DisplayName)
	case model.SourcePlatformDetected, model.SourceHeuristic:
		item.Type = model.EvidenceStored
		item.Detail = entry.EvidenceSummary
		if item.Detail == "" {
			item.Detail = "Previously detected merchant"
		}
	default:
		item.Type = model.EvidenceCacheMatch
		item.Detail = "Found in transaction history"
	}
	return item
}

func feeEvidence(rule knowledge.FeeRule) model.EvidenceItem {
	return model.EvidenceItem{
		Type:       model.EvidenceBankFee,
		Detail:     fmt.Sprintf("Bank fee pattern: %s", rule.Label),
		Confidence: confidencePtr(feeConfidence),
	}
}

func platformEvidence(p knowledge.Platform, confidence float64) model.EvidenceItem {
	return model.EvidenceItem{
		Type:       model.EvidencePlatform,
		Detail:     fmt.Sprintf("Known platform: %s", p.DisplayName()),
		Confidence: confidencePtr(confidence),
	}
}

func intermediaryEvidence() model.EvidenceItem {
	return model.EvidenceItem{
		Type:   model.EvidenceIntermediary,
		Detail: intermediaryWarning,
	}
}

// descriptorNotes returns secondary notes derived from the raw descriptor.
func descriptorNotes(d model.NormalizedDescriptor) []model.EvidenceItem {
	var notes []model.EvidenceItem

	if pix := normalize.DetectPix(d.Original); pix.IsPix {
		detail := "PIX transfer"
		if pix.PixKeyType != "" {
			detail = fmt.Sprintf("PIX transfer (%s key)", pix.PixKeyType)
		}
		notes = append(notes, model.EvidenceItem{Type: model.EvidencePix, Detail: detail})
	}

	switch {
	case d.Entities.CNPJ != "":
		notes = append(notes, model.EvidenceItem{
			Type:   model.EvidenceDocumentPresent,
			Detail: "CNPJ " + d.Entities.CNPJ + " found in descriptor",
		})
	case d.Entities.CPF != "":
		notes = append(notes, model.EvidenceItem{
			Type:   model.EvidenceDocumentPresent,
			Detail: "CPF found in descriptor",
		})
	}

	return notes
}

// titleCase renders upper-case descriptor text for display.
// A Caser holds state, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(strings.ToLower(s))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
