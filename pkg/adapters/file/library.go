// Package file persists materials on the local filesystem: whole libraries
// in a single YAML/JSON document, or one record per file via Store.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/lama/pkg/domain"
	"github.com/aretw0/lama/pkg/material"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of a material library.
type Document struct {
	Materials []material.Fields `yaml:"materials" json:"materials"`
}

// Entry is one record of a library after validation.
type Entry struct {
	// Index is the record position in the file, starting at 0.
	Index    int
	Name     string
	Material domain.Material
	Err      error
}

// Report is the result of validating a library file.
type Report struct {
	Path    string
	Entries []Entry
}

// Valid returns the materials that passed validation, in file order.
func (r Report) Valid() []domain.Material {
	out := make([]domain.Material, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Err == nil {
			out = append(out, e.Material)
		}
	}
	return out
}

// Err joins every record error, labelled with the record position and name.
func (r Report) Err() error {
	var errs []error
	for _, e := range r.Entries {
		if e.Err != nil {
			errs = append(errs, fmt.Errorf("materials[%d] %q: %w", e.Index, e.Name, e.Err))
		}
	}
	return errors.Join(errs...)
}

// Find returns the entry with the given name.
func (r Report) Find(name string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// ReadLibrary parses the library at path and validates every record. Record
// failures are reported per entry; the returned error covers only I/O and
// syntax problems.
func ReadLibrary(path string, v *material.Validator) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read library: %w", err)
	}

	doc, err := parse(data, isJSON(path))
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", path, err)
	}

	if v == nil {
		v = material.NewValidator()
	}
	names := make(map[string]int, len(doc.Materials))
	report := Report{Path: path, Entries: make([]Entry, 0, len(doc.Materials))}
	for i, rec := range doc.Materials {
		name, _ := rec[material.FieldName].(string)
		e := Entry{Index: i, Name: strings.TrimSpace(name)}
		e.Material, e.Err = v.Decode(rec)
		if e.Err == nil {
			if prev, dup := names[e.Name]; dup {
				e.Material, e.Err = nil, fmt.Errorf("duplicate name, first defined at materials[%d]", prev)
			} else {
				names[e.Name] = i
			}
		}
		report.Entries = append(report.Entries, e)
	}
	return report, nil
}

// WriteLibrary encodes materials into a library document at path, YAML or
// JSON by extension, replacing any existing file atomically.
func WriteLibrary(path string, materials []domain.Material) error {
	doc := Document{Materials: make([]material.Fields, 0, len(materials))}
	for _, m := range materials {
		doc.Materials = append(doc.Materials, material.Encode(m))
	}

	data, err := marshal(doc, isJSON(path))
	if err != nil {
		return fmt.Errorf("failed to encode library: %w", err)
	}
	return writeAtomic(path, data)
}

func parse(data []byte, asJSON bool) (Document, error) {
	var doc Document
	if asJSON {
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("failed to parse json library: %w", err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse yaml library: %w", err)
	}
	return doc, nil
}

func marshal(v any, asJSON bool) ([]byte, error) {
	if asJSON {
		return json.MarshalIndent(v, "", "  ")
	}
	return yaml.Marshal(v)
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// writeAtomic writes to a temp file in the destination directory, syncs it
// and renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Windows rename fails if the destination exists.
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
