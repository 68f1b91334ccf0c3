package adapter

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// RecursiveSuffix marks a path pattern that descends into subdirectories, as in "./...".
const RecursiveSuffix = "/..."

// ConfigFSAdapter abstracts the filesystem operations used to locate and load
// fixture configuration files.
type ConfigFSAdapter interface {
	// Walk traverses the provided root path. When recursive is false the
	// implementation limits itself to the root directory.
	Walk(root string, recursive bool, fn FilepathWalkFunc) error

	// Expand turns files, directories and "dir/..." patterns into the sorted
	// list of configuration files they denote.
	Expand(patterns ...string) ([]string, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path string) ([]byte, error)

	// HashFile returns the SHA-256 fingerprint of the file at path.
	HashFile(path string) (string, error)

	// FileInfo returns metadata for a path.
	FileInfo(path string) (os.FileInfo, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path string, content []byte, perm os.FileMode) error
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalConfigFSAdapter is the os backed ConfigFSAdapter.
type LocalConfigFSAdapter struct{}

// NewLocalConfigFSAdapter constructs a LocalConfigFSAdapter.
func NewLocalConfigFSAdapter() *LocalConfigFSAdapter {
	return &LocalConfigFSAdapter{}
}

// IsConfigFile reports whether path has a YAML extension.
func IsConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalConfigFSAdapter) Walk(root string, recursive bool, fn FilepathWalkFunc) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && path != root {
			base := filepath.Base(path)
			if !recursive || base == ".git" || base == "vendor" || base == "node_modules" {
				return filepath.SkipDir
			}
		}

		return fn(path, info, nil)
	})
}

// Expand implements ConfigFSAdapter. Explicitly named files are kept whatever
// their extension; directories contribute their YAML files only.
func (a *LocalConfigFSAdapter) Expand(patterns ...string) ([]string, error) {
	var files []string

	for _, pattern := range patterns {
		root := pattern
		recursive := false

		if pattern == "..." || strings.HasSuffix(pattern, RecursiveSuffix) {
			root = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
			if root == "" {
				root = "."
			}

			recursive = true
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}

		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		err = a.Walk(root, recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !info.IsDir() && IsConfigFile(path) {
				files = append(files, path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

// ReadFile loads file contents from disk.
func (a *LocalConfigFSAdapter) ReadFile(path string) ([]byte, error) {
	// #nosec G304 - configuration paths are supplied by the user on purpose
	return os.ReadFile(path)
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalConfigFSAdapter) HashFile(path string) (string, error) {
	// #nosec G304 - configuration paths are supplied by the user on purpose
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalConfigFSAdapter) FileInfo(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalConfigFSAdapter) WriteFile(path string, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	return os.WriteFile(path, content, perm)
}
