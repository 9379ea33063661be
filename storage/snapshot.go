package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"search-analysis/models"
	"search-analysis/platform"
)

type snapshotFile struct {
	Key             string         `json:"key"`
	RegistryVersion int            `json:"registryVersion"`
	SavedAt         time.Time      `json:"savedAt"`
	Dataset         models.Dataset `json:"dataset"`
}

// SnapshotStore persists the unified dataset between runs so an unchanged
// file set does not have to be parsed again.
type SnapshotStore struct {
	path  string
	codec *Codec
}

func NewSnapshotStore(path string, codec *Codec) *SnapshotStore {
	return &SnapshotStore{path: path, codec: codec}
}

// Save writes the dataset atomically: a temp file is written, synced and renamed.
func (s *SnapshotStore) Save(key string, dataset models.Dataset) error {
	data, err := s.codec.Encode(snapshotFile{
		Key:             key,
		RegistryVersion: platform.RegistryVersion,
		SavedAt:         time.Now().UTC(),
		Dataset:         dataset,
	})
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("snapshot: create dir: %w", err)
	}

	tmpFile := s.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("snapshot: create %q: %w", tmpFile, err)
	}
	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("snapshot: write: %w", err)
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("snapshot: sync: %w", err)
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("snapshot: close: %w", err)
	}
	return os.Rename(tmpFile, s.path)
}

// Load returns the stored dataset when it was saved under key by the current
// registry version. A missing file is a miss, not an error.
func (s *SnapshotStore) Load(key string) (models.Dataset, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("snapshot: read %q: %w", s.path, err)
	}

	var snap snapshotFile
	if err := s.codec.Decode(data, &snap); err != nil {
		return nil, false, fmt.Errorf("snapshot: %w", err)
	}
	if snap.Key != key || snap.RegistryVersion != platform.RegistryVersion {
		return nil, false, nil
	}
	return snap.Dataset, true, nil
}
