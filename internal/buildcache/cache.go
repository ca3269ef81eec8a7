// Package buildcache records what an input looked like when its TypeScript
// files were last generated, so an unchanged input can be skipped.
//
// A cache entry is trusted only when the input content, the effective
// configuration and the schema version all match and every recorded output
// still exists. Any mismatch regenerates the input from scratch.
package buildcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// SchemaVersion is bumped when the cache format or the generated output
// changes shape. A mismatch forces regeneration.
const SchemaVersion = 1

// FileName is the cache file kept in each output directory.
const FileName = ".swagts-cache"

// Cache represents the on-disk generation cache of one input.
type Cache struct {
	V          int      `json:"v"`
	InputHash  string   `json:"inputHash"`  // SHA-256 of the input document
	ConfigHash string   `json:"configHash"` // SHA-256 of the effective config
	Outputs    []string `json:"outputs"`    // files that must still exist
}

// CachePath returns the cache file path inside outDir. Deleting the output
// directory also removes the cache.
func CachePath(outDir string) string {
	return filepath.Join(outDir, FileName)
}

// Load reads a cache file. It returns nil if the file is missing, unreadable
// or malformed; callers treat nil as a miss.
func Load(path string) *Cache {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}
	return &c
}

// Save writes the cache atomically (write to temp, rename).
func Save(path string, cache *Cache) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing cache temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

// Delete removes the cache file. A missing file is not an error.
func Delete(path string) {
	os.Remove(path)
}

// IsValid reports whether the cache still describes the current input and
// config and all recorded outputs exist.
func (c *Cache) IsValid(inputHash, configHash string) bool {
	if c == nil || c.V != SchemaVersion {
		return false
	}
	if inputHash == "" || c.InputHash != inputHash || c.ConfigHash != configHash {
		return false
	}
	for _, path := range c.Outputs {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

// HashFile computes the SHA-256 hex digest of a file's contents. It returns
// "" if the file can't be read.
func HashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return HashBytes(data)
}

// HashBytes computes the SHA-256 hex digest of data.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// HashValue hashes the JSON encoding of v. Struct fields encode in
// declaration order and map keys sorted, so equal values hash equally.
func HashValue(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hashing value: %w", err)
	}
	return HashBytes(data), nil
}

// New creates a new Cache with the current schema version.
func New(inputHash, configHash string, outputs []string) *Cache {
	return &Cache{
		V:          SchemaVersion,
		InputHash:  inputHash,
		ConfigHash: configHash,
		Outputs:    outputs,
	}
}
