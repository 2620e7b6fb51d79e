package normalize

import (
	"regexp"
	"strings"

	"github.com/Veraticus/spice-merchant/internal/model"
)

var (
	cnpjPattern   = regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`)
	cpfPattern    = regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`)
	emailPattern  = regexp.MustCompile(`\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)
	domainPattern = regexp.MustCompile(`\b(?:WWW\.)?[A-Z0-9][A-Z0-9-]*(?:\.[A-Z0-9-]+)*\.(?:COM\.BR|COM|NET|ORG|IO|APP|BR)\b`)
)

// extractEntities scans folded text for document numbers, email and domain.
// A CPF is only looked for when no CNPJ was found, since a punctuated CNPJ
// can also satisfy the shorter CPF shape.
func extractEntities(text string) model.DetectedEntities {
	var e model.DetectedEntities

	if m := cnpjPattern.FindString(text); m != "" {
		e.CNPJ = digitsOnly(m)
	} else if m := cpfPattern.FindString(text); m != "" {
		e.CPF = digitsOnly(m)
	}

	if m := emailPattern.FindString(text); m != "" {
		e.Email = strings.ToLower(m)
	}

	// A domain is only "bare" when it is not the tail of an email address.
	withoutEmails := emailPattern.ReplaceAllString(text, " ")
	if m := domainPattern.FindString(withoutEmails); m != "" {
		e.Domain = strings.ToLower(strings.TrimPrefix(m, "WWW."))
	}

	return e
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
