package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-merchant/internal/common"
	"github.com/Veraticus/spice-merchant/internal/model"
)

// testEnv points the CLI at a config file and database in a temp dir.
type testEnv struct {
	configPath string
	dir        string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`database:
  driver: sqlite
  path: %s
logging:
  level: error
`, filepath.Join(dir, "merchants.db"))
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	return &testEnv{configPath: configPath, dir: dir}
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", e.configPath}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "spice-merchant dev\n", out)
}

func TestNormalizeCommand_JSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "normalize", "--json", "TARIFA MANUTENCAO CONTA")
	require.NoError(t, err)

	var got normalizeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "TARIFA MANUTENCAO CONTA", got.Descriptor.Original)
	assert.NotEmpty(t, got.Descriptor.NormalizedKey)
	assert.NotEmpty(t, got.MatchingKeys)
	assert.True(t, got.IsBankFee)
	assert.False(t, got.Pix.IsPix)
}

func TestNormalizeCommand_Text(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "normalize", "MERCADOPAGO*LOJA ABC")
	require.NoError(t, err)
	assert.Contains(t, out, "MERCADOPAGO*LOJA ABC")
	assert.Contains(t, out, "intermediary")
}

func TestCorrectThenResolve(t *testing.T) {
	env := newTestEnv(t)
	raw := "PADARIA DOZE IRMAOS 10/03"

	before, err := env.run(t, "", "resolve", "--json", "--family", "silva", raw)
	require.NoError(t, err)
	var first model.MerchantResolution
	require.NoError(t, json.Unmarshal([]byte(before), &first))
	assert.Equal(t, model.ResolutionUnknown, first.Source)

	out, err := env.run(t, "", "correct", raw, "--family", "silva", "--label", "Padaria Doze", "--category", "alimentacao")
	require.NoError(t, err)
	assert.Contains(t, out, "Padaria Doze")

	after, err := env.run(t, "", "resolve", "--json", "--family", "silva", "PADARIA DOZE IRMAOS 11/03")
	require.NoError(t, err)
	var second model.MerchantResolution
	require.NoError(t, json.Unmarshal([]byte(after), &second))
	assert.Equal(t, model.ResolutionCache, second.Source)
	assert.Equal(t, "Padaria Doze", second.MerchantLabel)
	assert.Equal(t, "alimentacao", second.SuggestedCategoryID)

	other, err := env.run(t, "", "resolve", "--json", "--family", "souza", raw)
	require.NoError(t, err)
	var third model.MerchantResolution
	require.NoError(t, json.Unmarshal([]byte(other), &third))
	assert.Equal(t, model.ResolutionUnknown, third.Source)
}

func TestCorrectCommand_RequiresFamily(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("SPICE_MERCHANT_FAMILY", "")

	_, err := env.run(t, "", "correct", "PADARIA REAL", "--label", "Padaria", "--category", "alimentacao")
	require.Error(t, err)

	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr))
	assert.ErrorIs(t, err, common.ErrMissingFamily)
}

func TestResolveCommand_Stdin(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "UBER *TRIP 123456 SP BR\n\nIOF COMPRA INTERNACIONAL\n", "resolve", "--json")
	require.NoError(t, err)

	var got map[string]model.MerchantResolution
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, model.ResolutionPlatform, got["UBER *TRIP 123456 SP BR"].Source)
	assert.Equal(t, model.ResolutionHeuristic, got["IOF COMPRA INTERNACIONAL"].Source)
}

func TestImportCommand_PlainText(t *testing.T) {
	env := newTestEnv(t)
	file := filepath.Join(env.dir, "descriptors.txt")
	require.NoError(t, os.WriteFile(file, []byte("UBER *TRIP 123456 SP BR\nUBER *TRIP 123456 SP BR\nPADARIA DOZE IRMAOS\n"), 0o600))

	out, err := env.run(t, "", "import", "--json", file)
	require.NoError(t, err)

	var got importOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 3, got.Lines)
	assert.Len(t, got.Results, 2)
	assert.Equal(t, []string{"PADARIA DOZE IRMAOS"}, got.Unresolved)
}

func TestImportCommand_Review(t *testing.T) {
	env := newTestEnv(t)
	file := filepath.Join(env.dir, "descriptors.txt")
	require.NoError(t, os.WriteFile(file, []byte("PADARIA DOZE IRMAOS\n"), 0o600))

	out, err := env.run(t, "c\nPadaria Doze\nalimentacao\n\n",
		"import", "--family", "silva", "--review", "--no-progress", file)
	require.NoError(t, err)
	assert.Contains(t, out, "corrected 1")

	list, err := env.run(t, "", "directory", "list", "--json", "--family", "silva")
	require.NoError(t, err)

	var entries []model.MerchantEntry
	require.NoError(t, json.Unmarshal([]byte(list), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Padaria Doze", entries[0].DisplayName)
	assert.Equal(t, model.FamilyScope("silva"), entries[0].Scope)
	assert.Equal(t, model.SourceUserConfirmed, entries[0].Source)
}

func TestImportCommand_NoFiles(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "import", filepath.Join(env.dir, "missing-*.ofx"))
	assert.Error(t, err)
}

func TestDirectoryCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "directory", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No merchant entries yet")

	_, err = env.run(t, "", "correct", "PADARIA REAL", "--family", "silva", "--label", "Padaria Real", "--category", "alimentacao")
	require.NoError(t, err)

	out, err = env.run(t, "", "directory", "list", "--family", "silva", "--json")
	require.NoError(t, err)
	var entries []model.MerchantEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	key := entries[0].NormalizedKey

	_, err = env.run(t, "", "directory", "delete", key)
	require.Error(t, err, "no global entry exists for the key")
	assert.ErrorIs(t, err, common.ErrNotFound)

	out, err = env.run(t, "", "directory", "delete", key, "--family", "silva")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	out, err = env.run(t, "", "directory", "list", "--global")
	require.NoError(t, err)
	assert.Contains(t, out, "No merchant entries yet")
}

func TestMigrateCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations completed")
	assert.FileExists(t, filepath.Join(env.dir, "merchants.db"))
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.configPath, []byte("database:\n  driver: oracle\n"), 0o600))

	_, err := env.run(t, "", "version")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedDB)
}

func TestWeakDescriptors(t *testing.T) {
	results := map[string]model.MerchantResolution{
		"A": {Confidence: 0.95},
		"B": {Confidence: 0.5},
		"C": {Confidence: 0},
	}

	got := weakDescriptors([]string{"C", "A", "B", "C", "D"}, results, 0.95)
	assert.Equal(t, []string{"C", "B"}, got)
}

func TestCountUnique(t *testing.T) {
	input := []string{"b", "a", "b", "c"}
	assert.Equal(t, 3, countUnique(input))
	assert.Equal(t, []string{"b", "a", "b", "c"}, input)
	assert.Equal(t, 0, countUnique(nil))
}
