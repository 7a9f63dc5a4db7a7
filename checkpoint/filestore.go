package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists snapshots as pretty-printed JSON files named by
// experiment id. Writes go to a temp file first and are renamed into
// place, so a failed save leaves the previous best intact.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("checkpoint: create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(id string) string {
	return filepath.Join(fs.dir, id+".json")
}

// Save writes the snapshot for id, replacing any prior one.
func (fs *FileStore) Save(s *Snapshot, id string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("checkpoint: encode snapshot %s: %w", id, err)
	}
	tmp, err := os.CreateTemp(fs.dir, id+".tmp-*")
	if err != nil {
		return fmt.Errorf("checkpoint: temp file for %s: %w", id, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint: write snapshot %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint: close snapshot %s: %w", id, err)
	}
	if err := os.Rename(tmpName, fs.path(id)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint: replace snapshot %s: %w", id, err)
	}
	return nil
}

// Load reads the snapshot saved for id.
func (fs *FileStore) Load(id string) (*Snapshot, error) {
	data, err := os.ReadFile(fs.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("checkpoint: %w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("checkpoint: read snapshot %s: %w", id, err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("checkpoint: decode snapshot %s: %w", id, err)
	}
	return &s, nil
}
