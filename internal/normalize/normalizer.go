// Package normalize turns raw statement descriptors into stable matching keys.
//
// Normalization is pure and deterministic: the same input always produces the
// same NormalizedDescriptor, and no input causes an error. Entity extraction
// runs before any destructive cleanup so identifiers such as CNPJ numbers
// survive long enough to be recorded.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Veraticus/spice-merchant/internal/knowledge"
	"github.com/Veraticus/spice-merchant/internal/model"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	datePattern = regexp.MustCompile(
		`\b\d{4}-\d{2}-\d{2}\b` + // YYYY-MM-DD
			`|\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b` + // DD/MM/YYYY, DD-MM-YY, DD.MM.YYYY
			`|\b\d{1,2}/\d{4}\b` + // MM/YYYY
			`|\b\d{1,2}/\d{1,2}\b`) // DD/MM
	timePattern     = regexp.MustCompile(`\b\d{1,2}:\d{2}(:\d{2})?\b`)
	longDigitRun    = regexp.MustCompile(`\d{5,}`)
	nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]+`)
)

// Normalizer cleans descriptors using a knowledge base for platform detection.
type Normalizer struct {
	kb *knowledge.Base
}

// New creates a normalizer backed by kb.
func New(kb *knowledge.Base) *Normalizer {
	return &Normalizer{kb: kb}
}

// Default returns a normalizer using the built-in knowledge base.
func Default() *Normalizer {
	return New(knowledge.Default())
}

// Knowledge returns the knowledge base the normalizer consults.
func (n *Normalizer) Knowledge() *knowledge.Base {
	return n.kb
}

// Normalize cleans raw into tokens, a display form and a matching key.
func (n *Normalizer) Normalize(raw string) model.NormalizedDescriptor {
	text := fold(raw)

	entities := extractEntities(text)
	if p, ok := n.kb.MatchPlatform(text); ok {
		entities.Platform = p.Name
		entities.IsIntermediary = p.IsIntermediary
	}

	text = datePattern.ReplaceAllString(text, " ")
	text = timePattern.ReplaceAllString(text, " ")
	text = longDigitRun.ReplaceAllString(text, " ")
	text = nonAlphanumeric.ReplaceAllString(text, " ")

	tokens := filterTokens(strings.Fields(text))

	return model.NormalizedDescriptor{
		Original:      raw,
		Normalized:    strings.Join(tokens, " "),
		NormalizedKey: keyForm(strings.Join(tokens, "")),
		Tokens:        tokens,
		Entities:      entities,
	}
}

// IsBankFee reports whether the descriptor's normalized text names a bank fee.
func (n *Normalizer) IsBankFee(d model.NormalizedDescriptor) bool {
	return n.kb.IsBankFee(d.Normalized)
}

// fold upper-cases, trims and strips diacritics so that "Manutenção" and
// "MANUTENCAO" normalize identically.
func fold(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, raw)
	if err != nil {
		folded = raw
	}
	return strings.ToUpper(strings.TrimSpace(folded))
}

func filterTokens(fields []string) []string {
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if isNoise(tok) {
			continue
		}
		if isNumeric(tok) {
			continue
		}
		if len(tok) <= 2 {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// keyForm lower-cases s and drops everything but letters and digits.
func keyForm(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
