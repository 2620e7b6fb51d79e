package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-merchant/internal/model"
	"github.com/Veraticus/spice-merchant/internal/service"
)

func sampleResults() map[string]model.MerchantResolution {
	return map[string]model.MerchantResolution{
		"MERCADOPAGO*LOJA ABC": {
			MerchantLabel:    "Mercado Pago (Loja Abc)",
			Confidence:       0.5,
			Source:           model.ResolutionPlatform,
			DetectedPlatform: "MERCADOPAGO",
			IsIntermediary:   true,
			NormalizedKey:    "mercadopagolojaabc",
			Evidence: []model.EvidenceItem{
				{Type: model.EvidencePlatform, Detail: "Known platform: Mercado Pago"},
				{Type: model.EvidenceIntermediary, Detail: "Payment intermediary: the real merchant may differ"},
			},
		},
		"TARIFA MANUTENCAO": {
			MerchantLabel:          "Tarifa bancária",
			SuggestedCategoryID:    "despesas-financeiras",
			SuggestedSubcategoryID: "despesas-financeiras-manutencao-de-conta",
			Confidence:             0.9,
			Source:                 model.ResolutionHeuristic,
			NormalizedKey:          "tarifamanutencao",
		},
	}
}

func TestFormatCategory(t *testing.T) {
	assert.Equal(t, "casa", FormatCategory("casa", ""))
	assert.Equal(t, "casa / casa-decoracao", FormatCategory("casa", "casa-decoracao"))
	assert.Contains(t, FormatCategory("", ""), "(none)")
}

func TestRenderResolution(t *testing.T) {
	var buf bytes.Buffer
	res := sampleResults()["MERCADOPAGO*LOJA ABC"]

	require.NoError(t, RenderResolution(&buf, "MERCADOPAGO*LOJA ABC", res))

	out := buf.String()
	assert.Contains(t, out, "Mercado Pago (Loja Abc)")
	assert.Contains(t, out, "intermediary")
	assert.Contains(t, out, "real merchant may differ")
	assert.Contains(t, out, "mercadopagolojaabc")
}

func TestRenderResolutionTable(t *testing.T) {
	var buf bytes.Buffer
	descriptors := []string{"TARIFA MANUTENCAO", "MERCADOPAGO*LOJA ABC", "TARIFA MANUTENCAO", "MISSING"}

	require.NoError(t, RenderResolutionTable(&buf, descriptors, sampleResults()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, buf.String(), "DESCRIPTOR")
	assert.Equal(t, 1, strings.Count(buf.String(), "Tarifa bancária"))
	assert.NotContains(t, buf.String(), "MISSING")
}

func TestRenderEntries(t *testing.T) {
	var buf bytes.Buffer
	entries := []model.MerchantEntry{{
		Scope:             model.FamilyScope("fam-a"),
		NormalizedKey:     "padaria",
		DisplayName:       "Padaria",
		CategoryID:        "alimentacao",
		ConfidenceDefault: 0.95,
		Source:            model.SourceUserConfirmed,
		MatchCount:        3,
	}}

	require.NoError(t, RenderEntries(&buf, entries))
	assert.Contains(t, buf.String(), "family:fam-a")
	assert.Contains(t, buf.String(), "USER_CONFIRMED")
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	summary := service.BatchSummary{
		BySource: map[model.ResolutionSource]int{model.ResolutionCache: 2, model.ResolutionUnknown: 1},
		Total:    4,
		Unique:   3,
		Duration: 1500 * time.Millisecond,
	}

	require.NoError(t, RenderSummary(&buf, summary))
	assert.Contains(t, buf.String(), "Distinct descriptors: 3")
	assert.Contains(t, buf.String(), "1.5s")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

type fakeRecorder struct {
	calls []string
	fail  bool
}

func (f *fakeRecorder) RecordCorrection(_ context.Context, familyID, raw, label, categoryID, subcategoryID string) bool {
	f.calls = append(f.calls, strings.Join([]string{familyID, raw, label, categoryID, subcategoryID}, "|"))
	return !f.fail
}

func TestReviewer_Review(t *testing.T) {
	recorder := &fakeRecorder{}
	input := strings.NewReader(strings.Join([]string{
		"a",        // accept the fee
		"c",        // correct the gateway
		"Loja ABC", // label
		"casa",     // category
		"",         // no subcategory
		"s",        // skip
	}, "\n") + "\n")
	var out bytes.Buffer

	results := sampleResults()
	results["PADARIA"] = model.MerchantResolution{MerchantLabel: "Padaria", Source: model.ResolutionUnknown}

	reviewer := NewReviewer(recorder, "fam-a", input, &out)
	stats, err := reviewer.Review(context.Background(),
		[]string{"TARIFA MANUTENCAO", "MERCADOPAGO*LOJA ABC", "PADARIA"}, results)
	require.NoError(t, err)

	assert.Equal(t, ReviewStats{Accepted: 1, Corrected: 1, Skipped: 1}, stats)
	assert.Equal(t, []string{
		"fam-a|TARIFA MANUTENCAO|Tarifa bancária|despesas-financeiras|despesas-financeiras-manutencao-de-conta",
		"fam-a|MERCADOPAGO*LOJA ABC|Loja ABC|casa|",
	}, recorder.calls)
}

func TestReviewer_QuitAndFailures(t *testing.T) {
	recorder := &fakeRecorder{fail: true}
	input := strings.NewReader("a\nq\n")
	var out bytes.Buffer

	reviewer := NewReviewer(recorder, "fam-a", input, &out)
	stats, err := reviewer.Review(context.Background(),
		[]string{"TARIFA MANUTENCAO", "MERCADOPAGO*LOJA ABC"}, sampleResults())
	require.NoError(t, err)

	assert.Equal(t, ReviewStats{Failed: 1}, stats)
	assert.Contains(t, out.String(), "Could not save correction")
}
