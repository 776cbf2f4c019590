package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tavolo/tavolo/config"
	"github.com/tavolo/tavolo/pkg/logger"
)

// fileStore keeps one <key>.json file per key under a root directory.
type fileStore struct {
	root string
}

// NewFileStore returns a file-backed store rooted at root. An empty root
// uses STORE_ROOT, resolved against the user's home directory when the
// configured path is relative.
func NewFileStore(root string) Store {
	if root == "" {
		root = config.StoreRoot()
		if !filepath.IsAbs(root) {
			if home, err := os.UserHomeDir(); err == nil {
				root = filepath.Join(home, root)
			}
		}
	}
	return &fileStore{root: root}
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.root, key+".json")
}

func (s *fileStore) Get(key string, dest interface{}) bool {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// Corrupt state is indistinguishable from absence to callers.
		logger.Warn("store: discarding corrupt entry", "key", key, "error", err)
		return false
	}
	return true
}

func (s *fileStore) Set(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.root, 0o700); err != nil {
		return err
	}
	// Write-then-rename so a crash never leaves a half-written entry.
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}

func (s *fileStore) Remove(key string) {
	_ = os.Remove(s.path(key))
}
