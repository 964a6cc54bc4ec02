// Package cache remembers content hashes per item so repeat runs against the
// same host can skip scanning unchanged issues and pages.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/issuehound/issuehound/internal/types"
)

type DB struct {
	// Item key (collection/id) -> content hash.
	Entries map[string]string `json:"entries"`
}

// DefaultDir is where cache files live unless the config overrides it.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "issuehound"), nil
}

// filePath derives one cache file per scanned host so separate instances
// never mix entries.
func filePath(dir, host string) string {
	return filepath.Join(dir, fmt.Sprintf("%x.json", xxhash.Sum64String(host)))
}

// Key names one item within a host's cache file.
func Key(ref types.ItemRef) string {
	return ref.CollectionKey + "/" + ref.ID
}

// Hash fingerprints an item's normalized content. Block order is already
// deterministic, so hashing the concatenation is stable.
func Hash(blocks []types.ContentBlock) string {
	h := xxhash.New()
	for _, b := range blocks {
		_, _ = h.WriteString(string(b.Source))
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(b.Text)
		_, _ = h.WriteString("\x00")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func Load(dir, host string) (DB, error) {
	db := DB{Entries: map[string]string{}}
	f, err := os.ReadFile(filePath(dir, host))
	if err != nil {
		return db, err
	}
	if err := json.Unmarshal(f, &db); err != nil {
		return DB{Entries: map[string]string{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]string{}
	}
	return db, nil
}

func Save(dir, host string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, _ := json.MarshalIndent(db, "", "  ")
	return os.WriteFile(filePath(dir, host), b, 0o644)
}
