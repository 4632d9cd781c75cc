package persona

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/instance"
)

var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// listPhotos returns the usable photo files in the asset directory.
func listPhotos(assetDir string) ([]string, error) {
	entries, err := os.ReadDir(assetDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read asset directory")
	}

	var photos []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if photoExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			photos = append(photos, filepath.Join(assetDir, entry.Name()))
		}
	}

	return photos, nil
}

// pickPhoto selects a random photo that is not already backing a
// connected instance. Blob ids are random, so "already in use" has to
// be established by content: a candidate is excluded when its digest
// matches the blob of any connected record. Photos used only by
// disconnected instances stay eligible.
func pickPhoto(assetDir string, reg instance.Registry, blobPath func(string) string) (string, error) {
	photos, err := listPhotos(assetDir)
	if err != nil {
		return "", err
	}

	if len(photos) == 0 {
		return "", ErrNoPhotos
	}

	used := usedBlobDigests(reg, blobPath)

	var eligible []string

	for _, photo := range photos {
		digest, err := fileDigest(photo)
		if err != nil {
			continue
		}

		if !used[digest] {
			eligible = append(eligible, photo)
		}
	}

	if len(eligible) == 0 {
		return "", ErrNoPhotos
	}

	return eligible[rand.IntN(len(eligible))], nil
}

func usedBlobDigests(reg instance.Registry, blobPath func(string) string) map[string]bool {
	used := map[string]bool{}

	for _, rec := range reg {
		if !rec.Connected || rec.PhotoID == "" {
			continue
		}

		digest, err := fileDigest(blobPath(rec.PhotoID))
		if err != nil {
			continue
		}

		used[digest] = true
	}

	return used
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to open photo")
	}
	defer f.Close()

	h := sha256.New()
	if _, err = io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "failed to hash photo")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
