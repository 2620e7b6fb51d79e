// Package knowledge holds the static table of known payment platforms and
// the bank fee rules used during descriptor resolution.
package knowledge

import (
	"fmt"
	"regexp"
	"strings"
)

// Platform is a known payment platform or merchant.
// Table order is significant: the first matching platform wins.
type Platform struct {
	Name            string `yaml:"name"`
	Label           string `yaml:"label"`
	Pattern         string `yaml:"pattern"`
	CategoryHint    string `yaml:"category"`
	SubcategoryHint string `yaml:"subcategory"`
	IsIntermediary  bool   `yaml:"intermediary"`
}

// DisplayName returns the label shown to users, falling back to Name.
func (p Platform) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

type compiledPlatform struct {
	re *regexp.Regexp
	Platform
}

// FeeRule maps a bank fee sub-pattern to a subcategory.
type FeeRule struct {
	Name          string
	Label         string
	Pattern       string
	SubcategoryID string
}

type compiledFeeRule struct {
	re *regexp.Regexp
	FeeRule
}

// Base is the compiled, read-only knowledge base. It is safe for concurrent use.
type Base struct {
	platforms []compiledPlatform
	fees      []compiledFeeRule
	feeAny    *regexp.Regexp
}

// New compiles platforms (in the given order) together with the default fee rules.
func New(platforms []Platform) (*Base, error) {
	compiled := make([]compiledPlatform, 0, len(platforms))
	for _, p := range platforms {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("platform with pattern %q has no name", p.Pattern)
		}
		re, err := compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile platform %s: %w", p.Name, err)
		}
		compiled = append(compiled, compiledPlatform{Platform: p, re: re})
	}

	rules := DefaultFeeRules()
	fees := make([]compiledFeeRule, 0, len(rules))
	for _, r := range rules {
		re, err := compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile fee rule %s: %w", r.Name, err)
		}
		fees = append(fees, compiledFeeRule{FeeRule: r, re: re})
	}

	feeAny, err := compile(feeTermsPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile fee terms: %w", err)
	}

	return &Base{platforms: compiled, fees: fees, feeAny: feeAny}, nil
}

// Default returns the knowledge base built from DefaultPlatforms.
// The built-in table is known to compile.
func Default() *Base {
	b, err := New(DefaultPlatforms())
	if err != nil {
		panic(err)
	}
	return b
}

// MatchPlatform returns the first platform whose pattern matches text.
// Later entries are never consulted once one matches.
func (b *Base) MatchPlatform(text string) (Platform, bool) {
	for _, p := range b.platforms {
		if p.re.MatchString(text) {
			return p.Platform, true
		}
	}
	return Platform{}, false
}

// PlatformByName looks up a platform by its canonical name.
func (b *Base) PlatformByName(name string) (Platform, bool) {
	for _, p := range b.platforms {
		if p.Name == name {
			return p.Platform, true
		}
	}
	return Platform{}, false
}

// StripPlatform removes every match of the named platform's pattern from text.
// Text is returned unchanged when the platform is unknown.
func (b *Base) StripPlatform(name, text string) string {
	for _, p := range b.platforms {
		if p.Name == name {
			return strings.Join(strings.Fields(p.re.ReplaceAllString(text, " ")), " ")
		}
	}
	return text
}

// IsBankFee reports whether normalized text contains any banking fee term.
func (b *Base) IsBankFee(normalized string) bool {
	return b.feeAny.MatchString(normalized)
}

// ClassifyFee returns the first fee rule matching normalized text.
func (b *Base) ClassifyFee(normalized string) (FeeRule, bool) {
	if !b.IsBankFee(normalized) {
		return FeeRule{}, false
	}
	for _, r := range b.fees {
		if r.re.MatchString(normalized) {
			return r.FeeRule, true
		}
	}
	return FeeRule{}, false
}

// PlatformCount returns the number of loaded platforms.
func (b *Base) PlatformCount() int {
	return len(b.platforms)
}

func compile(pattern string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pattern, "(?i)") {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}
