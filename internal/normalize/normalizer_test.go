package normalize

import (
	"testing"

	"github.com/Veraticus/spice-merchant/internal/knowledge"
	"github.com/Veraticus/spice-merchant/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := Default()

	tests := []struct {
		name         string
		raw          string
		wantNorm     string
		wantKey      string
		wantTokens   []string
		wantPlatform string
	}{
		{
			name:         "pix through gateway",
			raw:          "COMPRA PIX MERCADOPAGO*LOJA X SAO PAULO BR 123456",
			wantNorm:     "MERCADOPAGO LOJA SAO PAULO",
			wantKey:      "mercadopagolojasaopaulo",
			wantTokens:   []string{"MERCADOPAGO", "LOJA", "SAO", "PAULO"},
			wantPlatform: "MERCADOPAGO",
		},
		{
			name:       "bank fee with month reference",
			raw:        "TARIFA MANUTENCAO CONTA CORRENTE 03/2024",
			wantNorm:   "TARIFA MANUTENCAO CONTA CORRENTE",
			wantKey:    "tarifamanutencaocontacorrente",
			wantTokens: []string{"TARIFA", "MANUTENCAO", "CONTA", "CORRENTE"},
		},
		{
			name:       "accents are folded",
			raw:        "Tarifa Manutenção Conta",
			wantNorm:   "TARIFA MANUTENCAO CONTA",
			wantKey:    "tarifamanutencaoconta",
			wantTokens: []string{"TARIFA", "MANUTENCAO", "CONTA"},
		},
		{
			name:         "ride with terminal id and state",
			raw:          "UBER *TRIP 123456 SP BR",
			wantNorm:     "UBER TRIP",
			wantKey:      "ubertrip",
			wantTokens:   []string{"UBER", "TRIP"},
			wantPlatform: "UBER",
		},
		{
			name:       "alphanumeric tokens survive while short words and numbers drop",
			raw:        "PADARIA 24H LOJA3 N 12",
			wantNorm:   "PADARIA 24H LOJA3",
			wantKey:    "padaria24hloja3",
			wantTokens: []string{"PADARIA", "24H", "LOJA3"},
		},
		{
			name:       "empty input",
			raw:        "",
			wantNorm:   "",
			wantKey:    "",
			wantTokens: []string{},
		},
		{
			name:       "only noise",
			raw:        "*** 12/03 10:00 99999999 SP",
			wantNorm:   "",
			wantKey:    "",
			wantTokens: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := n.Normalize(tt.raw)
			assert.Equal(t, tt.raw, d.Original)
			assert.Equal(t, tt.wantNorm, d.Normalized)
			assert.Equal(t, tt.wantKey, d.NormalizedKey)
			assert.Equal(t, tt.wantTokens, d.Tokens)
			assert.Equal(t, tt.wantPlatform, d.Entities.Platform)
		})
	}
}

func TestNormalizer_Deterministic(t *testing.T) {
	n := Default()
	inputs := []string{
		"COMPRA PIX MERCADOPAGO*LOJA X SAO PAULO BR 123456",
		"Pão de Açúcar 12.345.678/0001-90",
		"",
		"   \t  ",
		"NETFLIX.COM 15/03/2024",
	}
	for _, in := range inputs {
		assert.Equal(t, n.Normalize(in), n.Normalize(in), "input %q", in)
	}
}

func TestNormalizer_NoiseInvariance(t *testing.T) {
	n := Default()
	for _, s := range []string{
		"PADARIA REAL",
		"UBER TRIP",
		"MERCADOPAGO*LOJA ABC",
		"DROGARIA CENTRAL",
	} {
		t.Run(s, func(t *testing.T) {
			noisy := n.Normalize("COMPRA " + s + " 15/03/2024 14:32 123456")
			clean := n.Normalize(s)
			assert.Equal(t, clean.NormalizedKey, noisy.NormalizedKey)
			assert.NotEmpty(t, clean.NormalizedKey)
		})
	}
}

func TestNormalizer_DateAndTerminalVariantsShareKey(t *testing.T) {
	n := Default()
	a := n.Normalize("PADARIA REAL 01/02/2024 08:15:22 NSU 998877")
	b := n.Normalize("PADARIA REAL 2024-03-09 19:40 TERMINAL 12345678")
	assert.Equal(t, a.NormalizedKey, b.NormalizedKey)
}

func TestNormalizer_Entities(t *testing.T) {
	n := Default()

	tests := []struct {
		name string
		raw  string
		want model.DetectedEntities
	}{
		{
			name: "cnpj takes precedence over cpf",
			raw:  "LOJA 12.345.678/0001-90 CLIENTE 123.456.789-09",
			want: model.DetectedEntities{CNPJ: "12345678000190"},
		},
		{
			name: "unpunctuated cnpj",
			raw:  "EMPRESA 12345678000190",
			want: model.DetectedEntities{CNPJ: "12345678000190"},
		},
		{
			name: "cpf alone",
			raw:  "TRANSF JOAO 123.456.789-09",
			want: model.DetectedEntities{CPF: "12345678909"},
		},
		{
			name: "email is not reported as a bare domain",
			raw:  "PIX CONTATO@PADARIA.COM.BR",
			want: model.DetectedEntities{Email: "contato@padaria.com.br"},
		},
		{
			name: "bare domain",
			raw:  "WWW.LOJAEXEMPLO.COM.BR COMPRA",
			want: model.DetectedEntities{Domain: "lojaexemplo.com.br"},
		},
		{
			name: "platform with intermediary flag",
			raw:  "MERCADOPAGO*LOJA ABC",
			want: model.DetectedEntities{Platform: "MERCADOPAGO", IsIntermediary: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.raw).Entities)
		})
	}
}

func TestNormalizer_PlatformFirstMatch(t *testing.T) {
	kb, err := knowledge.New([]knowledge.Platform{
		{Name: "GATEWAY", Pattern: `GATEWAY`, IsIntermediary: true},
		{Name: "GATEWAY SHOP", Pattern: `GATEWAY\s*SHOP`},
	})
	require.NoError(t, err)

	d := New(kb).Normalize("GATEWAY SHOP 123")
	assert.Equal(t, "GATEWAY", d.Entities.Platform)
	assert.True(t, d.Entities.IsIntermediary)
}

func TestMatchingKeys(t *testing.T) {
	n := Default()

	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "UBER *TRIP 123456 SP BR", want: []string{"ubertrip", "uber"}},
		{raw: "MERCADOPAGO*LOJA ABC", want: []string{"mercadopagolojaabc", "mercadopago", "mercadopagoloja"}},
		{raw: "PADARIA REAL CENTRO", want: []string{"padariarealcentro", "padaria", "padariareal"}},
		{raw: "PADARIA", want: []string{"padaria"}},
		{raw: "UBER *EATS", want: []string{"ubereats", "uber"}},
		{raw: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchingKeys(n.Normalize(tt.raw)))
		})
	}
}

func TestNormalizer_IsBankFee(t *testing.T) {
	n := Default()
	assert.True(t, n.IsBankFee(n.Normalize("TARIFA MANUTENCAO CONTA CORRENTE 03/2024")))
	assert.True(t, n.IsBankFee(n.Normalize("IOF COMPRA INTERNACIONAL 15/03")))
	assert.True(t, n.IsBankFee(n.Normalize("Cobrança juros 12:00")))
	assert.False(t, n.IsBankFee(n.Normalize("PADARIA REAL")))
	assert.False(t, n.IsBankFee(n.Normalize("")))
}
