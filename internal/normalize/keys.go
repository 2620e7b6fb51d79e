package normalize

import (
	"strings"

	"github.com/Veraticus/spice-merchant/internal/model"
)

// MatchingKeys returns the candidate directory keys for d, most precise first:
// the full key, the detected platform, the first token, and the first two
// tokens joined. Empty and duplicate keys are skipped.
func MatchingKeys(d model.NormalizedDescriptor) []string {
	keys := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	add := func(k string) {
		if k == "" {
			return
		}
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	add(d.NormalizedKey)
	add(keyForm(d.Entities.Platform))
	if len(d.Tokens) > 0 {
		add(keyForm(d.Tokens[0]))
	}
	if len(d.Tokens) > 1 {
		add(keyForm(strings.Join(d.Tokens[:2], "")))
	}
	return keys
}
