package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// File is the on-disk layout of a JSONStore. Values are kept as the raw
// serialized strings, the way a browser's local storage holds them.
type File struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

type JSONStore struct {
	path string
	file *File
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.file = &File{
		Version: 1,
		Entries: make(map[string]string),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'focusblocks init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.file = &File{}
	if err := json.Unmarshal(data, s.file); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.file.Entries == nil {
		s.file.Entries = make(map[string]string)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temporary file and renames it over the store so a crash
// never leaves a half-written file behind.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) Get(key string) ([]byte, error) {
	if s.file == nil {
		return nil, ErrNotLoaded
	}

	v, ok := s.file.Entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (s *JSONStore) Put(key string, value []byte) error {
	if s.file == nil {
		return ErrNotLoaded
	}

	s.file.Entries[key] = string(value)
	return s.save()
}

func (s *JSONStore) Keys() ([]string, error) {
	if s.file == nil {
		return nil, ErrNotLoaded
	}

	keys := make([]string, 0, len(s.file.Entries))
	for k := range s.file.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// GetConfigPath returns the path to the underlying storage file.
//
// JSONStore is not safe for concurrent use, and two processes sharing the
// same file will overwrite each other's writes.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
