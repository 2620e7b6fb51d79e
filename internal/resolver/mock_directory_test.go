package resolver

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Veraticus/spice-merchant/internal/common"
	"github.com/Veraticus/spice-merchant/internal/model"
)

type recordedMatch struct {
	at         time.Time
	scope      model.Scope
	key        string
	descriptor string
}

// mockDirectory is an in-memory service.Directory for resolver tests.
// FindByKeys deliberately ignores scope so the resolver's own filtering is exercised.
type mockDirectory struct {
	findErr   error
	upsertErr error
	panicKey  string

	entries []model.MerchantEntry
	upserts []model.MerchantEntry
	matches []recordedMatch

	findDelay   time.Duration
	findCalls   atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	mu sync.Mutex
}

func (m *mockDirectory) FindByKeys(_ context.Context, keys []string, _ string) ([]model.MerchantEntry, error) {
	m.findCalls.Add(1)
	current := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.maxInFlight.Load()
		if current <= peak || m.maxInFlight.CompareAndSwap(peak, current) {
			break
		}
	}

	if m.panicKey != "" && slices.Contains(keys, m.panicKey) {
		panic("directory exploded")
	}
	if m.findDelay > 0 {
		time.Sleep(m.findDelay)
	}
	if m.findErr != nil {
		return nil, m.findErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.MerchantEntry
	for _, e := range m.entries {
		if slices.Contains(keys, e.NormalizedKey) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockDirectory) UpsertByNaturalKey(_ context.Context, entry *model.MerchantEntry) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.upserts = append(m.upserts, *entry)
	for i, e := range m.entries {
		if e.Scope == entry.Scope && e.NormalizedKey == entry.NormalizedKey {
			if e.Source == model.SourceUserConfirmed && entry.Source != model.SourceUserConfirmed {
				return nil
			}
			m.entries[i] = *entry
			return nil
		}
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockDirectory) RecordMatch(_ context.Context, scope model.Scope, key, descriptor string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		if e.Scope == scope && e.NormalizedKey == key {
			m.entries[i].MatchCount++
			m.matches = append(m.matches, recordedMatch{scope: scope, key: key, descriptor: descriptor, at: at})
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *mockDirectory) add(entries ...model.MerchantEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
}
