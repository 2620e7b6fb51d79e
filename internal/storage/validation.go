// Package storage provides the persistence layer for the merchant directory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/spice-merchant/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidEntry = errors.New("invalid merchant entry")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateEntry validates a merchant entry before it is written.
func validateEntry(entry *model.MerchantEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if strings.TrimSpace(entry.NormalizedKey) == "" {
		return fmt.Errorf("%w: missing normalized key", ErrInvalidEntry)
	}
	if strings.TrimSpace(entry.DisplayName) == "" {
		return fmt.Errorf("%w: missing display name", ErrInvalidEntry)
	}
	if !entry.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidEntry, entry.Source)
	}
	if entry.ConfidenceDefault < 0 || entry.ConfidenceDefault > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidEntry)
	}
	return nil
}
