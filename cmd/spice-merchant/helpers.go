package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/spice-merchant/internal/config"
	"github.com/Veraticus/spice-merchant/internal/knowledge"
	"github.com/Veraticus/spice-merchant/internal/normalize"
	"github.com/Veraticus/spice-merchant/internal/resolver"
	"github.com/Veraticus/spice-merchant/internal/service"
	"github.com/Veraticus/spice-merchant/internal/storage"
)

// initStorage opens the configured merchant directory and migrates it.
func (a *app) initStorage(ctx context.Context) (service.DirectoryAdmin, error) {
	var (
		store service.DirectoryAdmin
		err   error
	)

	switch a.cfg.Database.Driver {
	case config.DriverPostgres:
		store, err = storage.OpenPostgres(a.cfg.Database.URL)
	default:
		store, err = storage.NewSQLiteStorage(a.cfg.Database.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open merchant directory: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initNormalizer builds a normalizer over the built-in knowledge base plus
// any configured platforms file.
func (a *app) initNormalizer() (*normalize.Normalizer, error) {
	if a.cfg.Knowledge.PlatformsFile == "" {
		return normalize.Default(), nil
	}

	kb, err := knowledge.NewWithFile(a.cfg.Knowledge.PlatformsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load platforms file: %w", err)
	}
	slog.Debug("Loaded knowledge base",
		"file", a.cfg.Knowledge.PlatformsFile,
		"platforms", kb.PlatformCount())

	return normalize.New(kb), nil
}

// buildResolver wires a resolver over dir. onChunk may be nil.
func (a *app) buildResolver(dir service.Directory, onChunk func(done, total int)) (*resolver.Resolver, error) {
	norm, err := a.initNormalizer()
	if err != nil {
		return nil, err
	}

	opts := a.cfg.ResolverOptions()
	opts.OnChunk = onChunk

	return resolver.New(dir, norm, opts), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
