// Package knowledge persists the shared observation log read by the knowledge sharing analyzer.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/huangsam/teampulse/schema"
)

// document is the on-disk layout of the log.
type document struct {
	Observations []schema.Observation `json:"observations" yaml:"observations"`
}

// FileStore is a KnowledgeStore backed by one YAML or JSON file.
// Files ending in .json are read and written as JSON, anything else as YAML.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store for the given path. The file does not need to exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Observations returns every entry in file order. A missing file is an empty log.
func (s *FileStore) Observations(ctx context.Context) ([]schema.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Observations, nil
}

// Append adds one entry to the end of the log and rewrites the file atomically.
func (s *FileStore) Append(ctx context.Context, obs schema.Observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(obs.Author) == "" {
		return errors.New("observation author is required")
	}
	if strings.TrimSpace(obs.Content) == "" {
		return errors.New("observation content is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Observations = append(doc.Observations, obs)
	return s.save(doc)
}

func (s *FileStore) isJSON() bool {
	return strings.EqualFold(filepath.Ext(s.path), ".json")
}

func (s *FileStore) load() (document, error) {
	var doc document
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("reading knowledge log: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}
	if s.isJSON() {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return doc, fmt.Errorf("parsing knowledge log %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) save(doc document) error {
	var (
		data []byte
		err  error
	)
	if s.isJSON() {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("serializing knowledge log: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating knowledge directory: %w", err)
		}
	}

	// Write atomically using temp file + rename
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing knowledge log: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing knowledge log: %w", err)
	}
	return nil
}
