// Package manifest is the controller-side half of the system: it loads
// a list of desired-state items from a YAML or TOML file, merges
// task-level defaults under per-item overrides, and drives the
// reconciler once per item. Each item remains an independent
// invocation; the manifest layer does no scheduling beyond iterating
// in file order.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/linsomniac/fsbuilder/pkg/fsbuilder"
)

const (
	// OnErrorFail stops the run at the first failing item.
	OnErrorFail = "fail"
	// OnErrorContinue records the failure and moves to the next item.
	OnErrorContinue = "continue"
)

// Entry is a single manifest item: the engine parameter set plus the
// orchestration fields the engine itself never sees.
type Entry struct {
	// Name labels the item in output. Optional.
	Name string `yaml:"name"`

	// When is a pre-evaluated conditional: false skips the item. The
	// manifest layer never evaluates expressions; template-language
	// semantics live with the caller.
	When *bool `yaml:"when"`

	// OnError selects the failure policy for this item.
	OnError string `yaml:"on_error"`

	Params fsbuilder.Params `yaml:",inline"`
}

// Manifest is a parsed manifest file.
type Manifest struct {
	Path    string
	Entries []Entry
}

// fileSchema is the on-disk shape: task-level defaults applied under
// every item's own keys.
type fileSchema struct {
	Defaults map[string]any   `yaml:"defaults" toml:"defaults"`
	Items    []map[string]any `yaml:"items" toml:"items"`
}

// Load reads and parses a manifest file. The format is chosen by
// extension: .yaml/.yml or .toml.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var schema fileSchema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q (expected .yaml, .yml, or .toml)", filepath.Ext(path))
	}

	if len(schema.Items) == 0 {
		return nil, fmt.Errorf("manifest %s has no items", path)
	}

	m := &Manifest{Path: path}
	for i, item := range schema.Items {
		entry, err := decodeEntry(mergeKeys(schema.Defaults, item))
		if err != nil {
			return nil, fmt.Errorf("manifest %s item %d: %w", path, i+1, err)
		}
		m.Entries = append(m.Entries, entry)
	}
	return m, nil
}

// mergeKeys overlays item keys on top of the defaults, the loop-merge
// behavior: item values always win.
func mergeKeys(defaults, item map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(item))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range item {
		merged[k] = v
	}
	return merged
}

// decodeEntry decodes a merged key set into an Entry seeded with the
// engine defaults. Round-tripping through YAML gives both manifest
// formats identical decoding behavior.
func decodeEntry(merged map[string]any) (Entry, error) {
	raw, err := yaml.Marshal(merged)
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{
		OnError: OnErrorFail,
		Params:  fsbuilder.DefaultParams(),
	}
	if err := yaml.Unmarshal(raw, &entry); err != nil {
		return Entry{}, err
	}
	if entry.OnError != OnErrorFail && entry.OnError != OnErrorContinue {
		return Entry{}, fmt.Errorf("invalid on_error %q (expected %q or %q)", entry.OnError, OnErrorFail, OnErrorContinue)
	}
	return entry, nil
}

// Validate checks every entry's parameter set without touching the
// filesystem. Returned errors are annotated with the item position.
func (m *Manifest) Validate() []error {
	var errs []error
	for i, entry := range m.Entries {
		if err := entry.Params.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("item %d (%s): %w", i+1, entry.label(), err))
		}
	}
	return errs
}

// label names an entry for output.
func (e *Entry) label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Params.Dest
}
