package normalize

import (
	"regexp"
	"strings"

	"github.com/Veraticus/spice-merchant/internal/model"
)

var (
	pixMarker = regexp.MustCompile(`\bPIX\b`)

	// pixKeyPatterns are tried in order; the first structural match wins.
	pixKeyPatterns = []struct {
		re   *regexp.Regexp
		kind model.PixKeyType
	}{
		{regexp.MustCompile(`\+55\s?\(?\d{2}\)?\s?9?\d{4}-?\d{4}|\(\d{2}\)\s?9?\d{4}-?\d{4}`), model.PixKeyPhone},
		{emailPattern, model.PixKeyEmail},
		{regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{3}-\d{2}\b|\b\d{11}\b`), model.PixKeyCPF},
		{regexp.MustCompile(`\b\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\b|\b\d{14}\b`), model.PixKeyCNPJ},
		{regexp.MustCompile(`\b[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}\b`), model.PixKeyRandom},
	}
)

// DetectPix reports whether raw describes a PIX transfer and extracts the key.
// It works on the raw upper-cased text because cleanup would strip the very
// emails and phone numbers that serve as PIX keys.
func DetectPix(raw string) model.PixInfo {
	text := strings.ToUpper(strings.TrimSpace(raw))
	if !pixMarker.MatchString(text) {
		return model.PixInfo{}
	}

	info := model.PixInfo{IsPix: true}
	for _, p := range pixKeyPatterns {
		m := p.re.FindString(text)
		if m == "" {
			continue
		}
		info.PixKeyType = p.kind
		switch p.kind {
		case model.PixKeyEmail, model.PixKeyRandom:
			info.PixKey = strings.ToLower(m)
		case model.PixKeyCPF, model.PixKeyCNPJ:
			info.PixKey = digitsOnly(m)
		default:
			info.PixKey = strings.TrimSpace(m)
		}
		break
	}
	return info
}
