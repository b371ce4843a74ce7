package file

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/lama/pkg/domain"
	"github.com/aretw0/lama/pkg/material"
	"gopkg.in/yaml.v3"
)

const recordExt = ".yaml"

// Store implements ports.MaterialStore using the local filesystem.
// Each material is a YAML record named after the escaped material name.
type Store struct {
	BasePath  string
	validator *material.Validator
}

// NewStore creates a new Store with the given base path.
// If basePath is empty, it defaults to ".lama/materials".
func NewStore(basePath string, v *material.Validator) *Store {
	if basePath == "" {
		basePath = filepath.Join(".lama", "materials")
	}
	if v == nil {
		v = material.NewValidator()
	}
	return &Store{BasePath: basePath, validator: v}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.BasePath, url.PathEscape(name)+recordExt)
}

// Save writes the material record atomically.
func (s *Store) Save(ctx context.Context, m domain.Material) error {
	name := m.Common().Name
	if name == "" {
		return fmt.Errorf("material name cannot be empty")
	}
	data, err := yaml.Marshal(material.Encode(m))
	if err != nil {
		return fmt.Errorf("failed to marshal material %q: %w", name, err)
	}
	return writeAtomic(s.path(name), data)
}

// Load reads and re-validates the material record.
func (s *Store) Load(ctx context.Context, name string) (domain.Material, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to read material file: %w", err)
	}

	var rec material.Fields
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal material %q: %w", name, err)
	}
	m, err := s.validator.Decode(rec)
	if err != nil {
		return nil, fmt.Errorf("stored material %q is invalid: %w", name, err)
	}
	return m, nil
}

// Delete removes the material file.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete material file: %w", err)
	}
	return nil
}

// List returns the stored names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}

	names := make([]string, 0, len(entries))
	// Temp files from writeAtomic end in a random suffix, never recordExt.
	for _, e := range entries {
		file := e.Name()
		if e.IsDir() || !strings.HasSuffix(file, recordExt) {
			continue
		}
		name, err := url.PathUnescape(strings.TrimSuffix(file, recordExt))
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
