// internal/console/draftcache/store.go
package draftcache

import (
	"context"
	"sync"

	"partner-console/internal/common/metrics"
)

// StorageKey is the fixed key the serialized draft blob lives under.
const StorageKey = "console_draft_options"

// Record mirrors one draft option's preview images, keyed by its provisional
// (or server-assigned) ID. Images are ordered; the first is the primary
// preview.
type Record struct {
	ID     string   `json:"id"`
	Images []string `json:"images"`
}

// Store is the local draft image cache. It is a display-continuity aid, not a
// source of truth: losing it costs a blank placeholder, nothing more. Upsert
// is idempotent by ID and replaces the whole image list; there is no merge.
// The store is injected into the composer so tests can swap backends.
type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Upsert(ctx context.Context, id string, images []string) error
	All(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps records in memory, preserving insertion order. Used in
// tests and as the fallback backend.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if rec.ID == id {
			copied := rec
			copied.Images = append([]string(nil), rec.Images...)
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) Upsert(_ context.Context, id string, images []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = upsertRecord(s.records, id, images)
	metrics.DraftCacheEntries.Set(float64(len(s.records)))
	return nil
}

func (s *MemoryStore) All(_ context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, len(s.records))
	for i, rec := range s.records {
		out[i] = Record{ID: rec.ID, Images: append([]string(nil), rec.Images...)}
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	metrics.DraftCacheEntries.Set(float64(len(s.records)))
	return nil
}

// upsertRecord replaces the entry with the same id, else appends. Last write
// wins with a full replace of that id's image list.
func upsertRecord(records []Record, id string, images []string) []Record {
	rec := Record{ID: id, Images: append([]string(nil), images...)}
	for i := range records {
		if records[i].ID == id {
			records[i] = rec
			return records
		}
	}
	return append(records, rec)
}
