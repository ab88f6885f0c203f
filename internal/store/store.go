// Package store persists the task collection as a single file.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/amirbrooks/todo/internal/task"
)

// DefaultPath is relative to the working directory.
const DefaultPath = "todo.json"

var ErrInvalid = errors.New("invalid")

type Store struct {
	Path string
}

// New returns a store for path. It does not touch the filesystem.
func New(path string) *Store {
	return &Store{Path: expandHome(path)}
}

func (s *Store) isYAML() bool {
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads the whole collection. A missing, unreadable or undecodable file
// yields an empty collection.
func (s *Store) Load() task.Collection {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return task.Collection{}
	}
	c, err := s.decode(b)
	if err != nil {
		return task.Collection{}
	}
	return c
}

func (s *Store) decode(b []byte) (task.Collection, error) {
	var c task.Collection
	if len(bytes.TrimSpace(b)) == 0 {
		return task.Collection{}, nil
	}
	if s.isYAML() {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	} else if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	if c == nil {
		c = task.Collection{}
	}
	return c, nil
}

func (s *Store) encode(c task.Collection) ([]byte, error) {
	if c == nil {
		c = task.Collection{}
	}
	if s.isYAML() {
		return yaml.Marshal(c)
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Save overwrites the file with the full collection. The file is truncated
// before writing, so a crash mid-write leaves it partial.
func (s *Store) Save(c task.Collection) error {
	if strings.TrimSpace(s.Path) == "" {
		return fmt.Errorf("%w: empty store path", ErrInvalid)
	}
	data, err := s.encode(c)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	f, err := os.OpenFile(s.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.Path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
