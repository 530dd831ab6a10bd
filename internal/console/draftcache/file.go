// internal/console/draftcache/file.go
package draftcache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"partner-console/internal/common/logger"
	"partner-console/internal/common/metrics"

	"github.com/xeipuuv/gojsonschema"
)

// blobSchema guards the persisted blob: the file sits in user-writable
// storage, so its shape is validated before being trusted on load.
const blobSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "images"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"images": {"type": "array", "items": {"type": "string"}}
		}
	}
}`

// FileStore persists every record as one serialized JSON blob, read and
// written whole. A single composer panel is open at a time, so whole-blob
// read-modify-write under one process-local lock is sufficient; concurrent
// processes sharing a blob file are not supported.
type FileStore struct {
	path   string
	schema *gojsonschema.Schema
	logger logger.Logger
	mu     sync.Mutex
}

func NewFileStore(path string, log logger.Logger) (*FileStore, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(blobSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile draft blob schema: %w", err)
	}
	return &FileStore{path: path, schema: schema, logger: log}, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			copied := rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *FileStore) Upsert(ctx context.Context, id string, images []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	return s.save(upsertRecord(records, id, images))
}

func (s *FileStore) All(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	for i, rec := range records {
		if rec.ID == id {
			records = append(records[:i], records[i+1:]...)
			break
		}
	}
	return s.save(records)
}

// load reads and validates the whole blob. A corrupt blob is discarded with a
// warning rather than failing the screen; the cache is safe to lose.
func (s *FileStore) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read draft blob: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil || !result.Valid() {
		s.logger.Warn("Discarding corrupt draft blob", map[string]interface{}{
			"path": s.path,
		})
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("Discarding undecodable draft blob", map[string]interface{}{
			"path": s.path,
		})
		return nil, nil
	}
	return records, nil
}

func (s *FileStore) save(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode draft blob: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create draft blob dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write draft blob: %w", err)
	}
	metrics.DraftCacheEntries.Set(float64(len(records)))
	return nil
}
