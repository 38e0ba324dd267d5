// Package store persists checklist files as JSON documents inside a
// .preflight workspace directory and keeps small UI state in a SQLite
// sidecar next to them.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"preflight-cli/internal/model"
)

const fileExt = ".json"

type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for an existing .preflight
// directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".preflight")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir returns the discovered workspace dir, or cwd/.preflight when
// none exists yet.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".preflight"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func normalizeFileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("empty file name")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name: %q", name)
	}
	return name, nil
}

func (s Store) filePath(name string) string {
	return filepath.Join(s.Dir, name+fileExt)
}

// LoadFile reads one checklist file by name. The name is the document name,
// not a path; "N123AB" loads <dir>/N123AB.json.
func (s Store) LoadFile(name string) (model.File, error) {
	name, err := normalizeFileName(name)
	if err != nil {
		return model.File{}, err
	}
	b, err := os.ReadFile(s.filePath(name))
	if err != nil {
		return model.File{}, err
	}
	var f model.File
	if err := json.Unmarshal(b, &f); err != nil {
		return model.File{}, fmt.Errorf("parse %s%s: %w", name, fileExt, err)
	}
	if f.Name == "" {
		f.Name = name
	}
	return f, nil
}

// SaveFile writes the document atomically: marshal, write to a temp file in
// the same directory, rename over the target. A crash mid-write never leaves
// a truncated document behind.
func (s Store) SaveFile(f model.File) error {
	name, err := normalizeFileName(f.Name)
	if err != nil {
		return err
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	path := s.filePath(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ListFiles returns the names of all documents in the workspace, sorted.
func (s Store) ListFiles() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	out := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(out)
	return out, nil
}

func (s Store) DeleteFile(name string) error {
	name, err := normalizeFileName(name)
	if err != nil {
		return err
	}
	return os.Remove(s.filePath(name))
}
