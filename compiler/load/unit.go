// Package load discovers migration sources and recovers the field
// descriptors they declare.
package load

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrSourceDirMissing is returned by Discover when the migration directory
// does not exist.
var ErrSourceDirMissing = errors.New("scaffold: migration directory does not exist")

// Unit is one discovered migration source.
type Unit struct {
	// Table is the name passed to Schema.Create, empty if the source
	// creates no table.
	Table string
	// Source is the raw file content.
	Source string
	// Path is the file path.
	Path string
	// OrderKey is the file base name. Generated names start with a
	// sortable timestamp, so OrderKey order is authoring order.
	OrderKey string
}

// Discover reads the migration sources of dir in lexical file name order.
// Test files and non Go files are skipped.
func Discover(dir string) ([]Unit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceDirMissing, dir)
		}
		return nil, fmt.Errorf("scaffold: reading migration directory: %w", err)
	}
	var units []Unit
	for _, e := range entries {
		if !isSource(e) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("scaffold: reading %s: %w", path, err)
		}
		src := string(buf)
		units = append(units, Unit{
			Table:    TableName(src),
			Source:   src,
			Path:     path,
			OrderKey: e.Name(),
		})
	}
	return units, nil
}

// Basenames returns the base names of the migration sources of dir, in
// lexical order. A missing directory yields no names.
func Basenames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if isSource(e) {
			names = append(names, e.Name())
		}
	}
	return names
}

func isSource(e os.DirEntry) bool {
	name := e.Name()
	return !e.IsDir() && strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}
