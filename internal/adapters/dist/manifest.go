package dist

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/zerr"
)

type manifest struct {
	Dist  string   `json:"dist"`
	Files []string `json:"files"`
}

// ManifestStore implements ports.ManifestStore using a file per dist directory.
type ManifestStore struct{}

// NewManifestStore creates a new ManifestStore.
func NewManifestStore() *ManifestStore {
	return &ManifestStore{}
}

// Get retrieves the files recorded for dist.
func (s *ManifestStore) Get(root, dist string) ([]string, error) {
	filename := s.filename(root, dist)
	//nolint:gosec // Path is constructed from the project root and a hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrManifestReadFailed.Error())
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestUnmarshalFailed.Error())
	}
	return m.Files, nil
}

// Put stores the files written to dist.
func (s *ManifestStore) Put(root, dist string, files []string) error {
	data, err := json.MarshalIndent(manifest{Dist: dist, Files: files}, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
	}

	filename := s.filename(root, dist)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
	}

	//nolint:gosec // Path is constructed from the project root and a hashed filename
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
	}
	return nil
}

func (s *ManifestStore) filename(root, dist string) string {
	hash := sha256.Sum256([]byte(dist))
	return filepath.Join(root, domain.DefaultManifestPath(), hex.EncodeToString(hash[:])+".json")
}
