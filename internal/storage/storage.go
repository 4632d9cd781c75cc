// Package storage owns the on-disk representation of the tool's state:
// two JSON documents (config, instances) and a flat directory of photo
// blobs named by their 8-character id. Every save is an atomic full
// overwrite; nothing is persisted implicitly.
package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/config"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/instance"
)

const (
	configFile    = "config.json"
	instancesFile = "instances.json"
	photosDir     = "photos"

	// blobIDLen matches the historical 8-character photo id scheme.
	blobIDLen = 8

	dirPerm  = 0o750
	filePerm = 0o600
)

// Store persists config, registry and photo blobs under a base directory.
type Store struct {
	baseDir string
}

// New creates a Store rooted at dir, creating the layout if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, photosDir), dirPerm); err != nil {
		return nil, errors.Wrap(err, "failed to create storage layout")
	}

	return &Store{baseDir: dir}, nil
}

// Dir returns the storage base directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// LoadConfig reads the configuration document. A missing file yields an
// empty config, which the caller treats as a first run.
func (s *Store) LoadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if err := s.loadJSON(configFile, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig writes the full configuration document atomically.
func (s *Store) SaveConfig(cfg *config.Config) error {
	return s.saveJSON(configFile, cfg)
}

// LoadRegistry reads the instance registry. A missing file yields an
// empty registry, not an error.
func (s *Store) LoadRegistry() (instance.Registry, error) {
	reg := instance.Registry{}
	if err := s.loadJSON(instancesFile, &reg); err != nil {
		return nil, err
	}

	return reg, nil
}

// SaveRegistry writes the full registry atomically.
func (s *Store) SaveRegistry(reg instance.Registry) error {
	return s.saveJSON(instancesFile, reg)
}

// BlobPath returns the path a photo blob lives at.
func (s *Store) BlobPath(id string) string {
	return filepath.Join(s.baseDir, photosDir, id+".jpg")
}

// NewBlobID generates a fresh short blob id.
func (s *Store) NewBlobID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:blobIDLen]
}

// PutBlob copies the source file into the blob directory under id.
// The source is left untouched.
func (s *Store) PutBlob(sourcePath, id string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return "", errors.Wrap(err, "failed to open blob source")
	}
	defer src.Close()

	dest := s.BlobPath(id)

	dst, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return "", errors.Wrap(err, "failed to create blob")
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, "failed to copy blob")
	}

	return dest, nil
}

// DeleteBlob removes the blob for id. Missing blobs are not an error.
func (s *Store) DeleteBlob(id string) error {
	err := os.Remove(s.BlobPath(id))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete blob")
	}

	return nil
}

func (s *Store) loadJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.baseDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return errors.Wrapf(err, "failed to read %s", name)
	}

	if err = json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "failed to parse %s", name)
	}

	return nil
}

// saveJSON writes v to name via a temp file and rename, so an
// interrupted write can never leave a truncated document behind.
func (s *Store) saveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", name)
	}

	target := filepath.Join(s.baseDir, name)

	tmp, err := os.CreateTemp(s.baseDir, name+".*")
	if err != nil {
		return errors.Wrapf(err, "failed to stage %s", name)
	}

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return errors.Wrapf(err, "failed to write %s", name)
	}

	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return errors.Wrapf(err, "failed to close %s", name)
	}

	if err = os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())

		return errors.Wrapf(err, "failed to replace %s", name)
	}

	return nil
}
