package gen

import (
	"os"
	"path/filepath"
)

var (
	// FeatureGraphQL generates a GraphQL schema file per record type. It is
	// enabled by the graphql stack.
	FeatureGraphQL = Feature{
		Name:        "graphql",
		Stage:       Beta,
		Default:     false,
		Description: "Generates a GraphQL SDL file with the object type, input types, queries and mutations of the record",
		cleanup: func(c *Config, record string) error {
			return remove(c.path(c.Dirs.GraphQL), graphqlFile(record))
		},
	}

	// FeatureTypeScript generates a TypeScript interface per record type.
	FeatureTypeScript = Feature{
		Name:        "typescript",
		Stage:       Stable,
		Default:     false,
		Description: "Generates a TypeScript interface and input type for the record",
		cleanup: func(c *Config, record string) error {
			return remove(c.path(c.Dirs.TypeScript), typescriptFile(record))
		},
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureGraphQL,
		FeatureTypeScript,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Beta features are documented and their output is not expected to
	// change.
	Beta

	// Stable features are Beta features that have been in use for a while.
	Stable
)

// String implements the fmt.Stringer interface.
func (s FeatureStage) String() string {
	switch s {
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the generator.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// cleanup removes the artifacts of the feature for a record when the
	// feature-flag is disabled.
	cleanup func(*Config, string) error
}

// DefaultFeatures returns the features enabled by default.
func DefaultFeatures() []Feature {
	var fs []Feature
	for _, f := range AllFeatures {
		if f.Default {
			fs = append(fs, f)
		}
	}
	return fs
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// Cleanup removes the artifacts of record generated by features that are
// no longer enabled.
func (c *Config) Cleanup(record string) error {
	for _, f := range AllFeatures {
		if f.cleanup == nil || c.FeatureEnabled(f.Name) {
			continue
		}
		if err := f.cleanup(c, record); err != nil {
			return err
		}
	}
	return nil
}

// remove file (if exists) and its dir if it's empty.
func remove(dir, file string) error {
	if err := os.Remove(filepath.Join(dir, file)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}
