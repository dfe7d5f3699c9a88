package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONStore persists the schema mapping as a JSON array of schema objects.
//
// The file layout is a plain list:
//
//	[
//	  {"symbols": ["bark", "dog"], "count": 4, "cumulative_strength": 3.1, "last_seen": 1735600000.5},
//	  ...
//	]
type JSONStore struct {
	path string
}

// NewJSONStore creates a JSON-file backed store. The file is created on the
// first Save; a missing file loads as an empty mapping.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads the schema mapping. A missing file yields an empty map and no error.
func (s *JSONStore) Load(_ context.Context) (map[PairKey]*Schema, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[PairKey]*Schema{}, nil
		}
		return nil, wrapError("load", err)
	}

	var items []*Schema
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, wrapError("load", fmt.Errorf("parse %s: %w", s.path, err))
	}

	mapping := make(map[PairKey]*Schema, len(items))
	for _, item := range items {
		mapping[item.Symbols] = item
	}
	return mapping, nil
}

// Save overwrites the file with the full mapping. The write goes through a
// temp file plus rename so a crash mid-save cannot truncate existing data.
func (s *JSONStore) Save(_ context.Context, mapping map[PairKey]*Schema) error {
	items := make([]*Schema, 0, len(mapping))
	for _, sc := range mapping {
		items = append(items, sc)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return wrapError("save", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".schemas-*.json")
	if err != nil {
		return wrapError("save", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return wrapError("save", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return wrapError("save", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return wrapError("save", err)
	}
	return nil
}

// Close is a no-op for the JSON backend.
func (s *JSONStore) Close() error {
	return nil
}
