package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		errMsg    string
		platforms []Platform
		wantErr   bool
	}{
		{
			name: "valid platforms",
			platforms: []Platform{
				{Name: "UBER", Pattern: `\bUBER\b`},
				{Name: "NETFLIX", Pattern: `NETFLIX`},
			},
		},
		{
			name:      "invalid regex",
			platforms: []Platform{{Name: "BAD", Pattern: `[invalid regex`}},
			wantErr:   true,
			errMsg:    "failed to compile platform BAD",
		},
		{
			name:      "missing name",
			platforms: []Platform{{Pattern: `X`}},
			wantErr:   true,
			errMsg:    "has no name",
		},
		{
			name:      "empty table",
			platforms: []Platform{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.platforms)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.platforms), b.PlatformCount())
		})
	}
}

func TestBase_MatchPlatform_FirstMatchWins(t *testing.T) {
	// Both patterns match "UBER EATS"; the earlier entry must win even
	// though the later one is listed with a broader pattern.
	b, err := New([]Platform{
		{Name: "UBER EATS", Pattern: `UBER\s*EATS`},
		{Name: "UBER", Pattern: `UBER`},
	})
	require.NoError(t, err)

	p, ok := b.MatchPlatform("UBER EATS PEDIDO")
	require.True(t, ok)
	assert.Equal(t, "UBER EATS", p.Name)

	// Reversed table: the broad pattern is now first and wins.
	b, err = New([]Platform{
		{Name: "UBER", Pattern: `UBER`},
		{Name: "UBER EATS", Pattern: `UBER\s*EATS`},
	})
	require.NoError(t, err)

	p, ok = b.MatchPlatform("UBER EATS PEDIDO")
	require.True(t, ok)
	assert.Equal(t, "UBER", p.Name)
}

func TestDefaultPlatforms(t *testing.T) {
	b := Default()

	tests := []struct {
		text             string
		wantName         string
		wantIntermediary bool
		wantMatch        bool
	}{
		{text: "UBER *TRIP 123456 SP BR", wantName: "UBER", wantMatch: true},
		{text: "UBER *EATS PENDING", wantName: "UBER EATS", wantMatch: true},
		{text: "MERCADOPAGO*LOJA ABC", wantName: "MERCADOPAGO", wantIntermediary: true, wantMatch: true},
		{text: "MERCADO PAGO LOJA", wantName: "MERCADOPAGO", wantIntermediary: true, wantMatch: true},
		{text: "MERCADOLIVRE*VENDEDOR", wantName: "MERCADOLIVRE", wantIntermediary: true, wantMatch: true},
		{text: "PAG*PADARIAREAL", wantName: "PAGSEGURO", wantIntermediary: true, wantMatch: true},
		{text: "AMAZON PRIME BR", wantName: "AMAZON PRIME", wantMatch: true},
		{text: "AMAZON MARKETPLACE", wantName: "AMAZON", wantMatch: true},
		{text: "NETFLIX.COM", wantName: "NETFLIX", wantMatch: true},
		{text: "99 POP 1234", wantName: "99", wantMatch: true},
		{text: "PADARIA DO BAIRRO", wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			p, ok := b.MatchPlatform(tt.text)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantName, p.Name)
				assert.Equal(t, tt.wantIntermediary, p.IsIntermediary)
			}
		})
	}
}

func TestDefaultPlatforms_UniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range DefaultPlatforms() {
		assert.False(t, seen[p.Name], "duplicate platform %s", p.Name)
		seen[p.Name] = true
		assert.NotEmpty(t, p.DisplayName())
	}
}

func TestBase_ClassifyFee(t *testing.T) {
	b := Default()

	tests := []struct {
		normalized string
		wantSub    string
		wantMatch  bool
	}{
		{normalized: "TARIFA MANUTENCAO CONTA CORRENTE", wantSub: SubcategoryMaintenance, wantMatch: true},
		{normalized: "IOF COMPRA INTERNACIONAL", wantSub: SubcategoryIOF, wantMatch: true},
		{normalized: "ANUIDADE DIFERENCIADA", wantSub: SubcategoryAnnuity, wantMatch: true},
		{normalized: "JUROS ROTATIVO", wantSub: SubcategoryInterest, wantMatch: true},
		{normalized: "TARIFA TED OUTRO BANCO", wantSub: SubcategoryTransfer, wantMatch: true},
		// IOF outranks interest when both appear.
		{normalized: "IOF JUROS ROTATIVO", wantSub: SubcategoryIOF, wantMatch: true},
		// Annuity outranks the generic tariff.
		{normalized: "TARIFA ANUIDADE", wantSub: SubcategoryAnnuity, wantMatch: true},
		{normalized: "PADARIA REAL", wantMatch: false},
		{normalized: "JUROS MORA", wantSub: SubcategoryInterest, wantMatch: true},
		{normalized: "CESTA SERVICOS", wantSub: SubcategoryMaintenance, wantMatch: true},
		{normalized: "CESTA DE SERVICOS", wantSub: SubcategoryMaintenance, wantMatch: true},
		// Merchant names sharing a word with a fee term.
		{normalized: "CESTA BASICA SUPERMERCADO", wantMatch: false},
		{normalized: "PADARIA MORA", wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.normalized, func(t *testing.T) {
			rule, ok := b.ClassifyFee(tt.normalized)
			assert.Equal(t, tt.wantMatch, ok)
			assert.Equal(t, tt.wantMatch, b.IsBankFee(tt.normalized))
			if tt.wantMatch {
				assert.Equal(t, tt.wantSub, rule.SubcategoryID)
			}
		})
	}
}

func TestLoadPlatforms(t *testing.T) {
	input := `
platforms:
  - name: PADARIA REAL
    label: Padaria Real
    pattern: '\bPADARIA\s*REAL\b'
    category: alimentacao
    subcategory: alimentacao-padaria
  - name: GATEWAY X
    pattern: 'GATEWAYX'
    intermediary: true
`
	platforms, err := LoadPlatforms(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, platforms, 2)
	assert.Equal(t, "PADARIA REAL", platforms[0].Name)
	assert.Equal(t, "alimentacao", platforms[0].CategoryHint)
	assert.True(t, platforms[1].IsIntermediary)
	assert.Equal(t, "GATEWAY X", platforms[1].DisplayName())

	_, err = LoadPlatforms(strings.NewReader("platforms:\n  - label: nameless\n"))
	require.Error(t, err)

	_, err = LoadPlatforms(strings.NewReader("platforms:\n  - name: X\n    pattern: X\n    unknown: 1\n"))
	require.Error(t, err)
}

func TestNewWithFile_CustomPlatformsTakePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "platforms.yaml")
	content := "platforms:\n  - name: UBER CORPORATE\n    pattern: '\\bUBER\\b'\n    category: trabalho\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	b, err := NewWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultPlatforms())+1, b.PlatformCount())

	p, ok := b.MatchPlatform("UBER *TRIP")
	require.True(t, ok)
	assert.Equal(t, "UBER CORPORATE", p.Name)

	_, err = NewWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestBase_StripPlatform(t *testing.T) {
	b := Default()

	assert.Equal(t, "LOJA ABC", b.StripPlatform("MERCADOPAGO", "MERCADOPAGO LOJA ABC"))
	assert.Equal(t, "LOJA ABC", b.StripPlatform("MERCADOPAGO", "MERCADO PAGO LOJA ABC"))
	assert.Equal(t, "", b.StripPlatform("IFOOD", "IFOOD"))
	assert.Equal(t, "IFOOD LOJA", b.StripPlatform("NOPE", "IFOOD LOJA"))
}
