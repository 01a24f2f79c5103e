package combine

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PresetsFile is the on-disk shape of a preset bundle. Each entry overrides
// the combiner constants of a named built-in variant; heuristic sets always
// come from the variant registry.
type PresetsFile struct {
	Presets map[string]Config `yaml:"presets"`
}

// PresetLoader handles loading and validation of combiner presets.
type PresetLoader struct {
	file *PresetsFile
}

// NewPresetLoader creates an empty loader.
func NewPresetLoader() *PresetLoader {
	return &PresetLoader{}
}

// LoadFromFile loads presets from a YAML file.
func (pl *PresetLoader) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read preset file %s: %w", path, err)
	}

	var file PresetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse preset YAML: %w", err)
	}

	if err := validatePresets(&file); err != nil {
		return fmt.Errorf("preset validation failed: %w", err)
	}

	pl.file = &file
	return nil
}

// Get returns a combiner built from the named preset. The preset must target
// a registered variant so its heuristic set can be attached.
func (pl *PresetLoader) Get(name string) (*Combiner, error) {
	if pl.file == nil {
		return nil, fmt.Errorf("presets not loaded - call LoadFromFile first")
	}
	cfg, ok := pl.file.Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	base, err := NewVariant(name)
	if err != nil {
		return nil, err
	}
	c := New(cfg, base.heuristics)
	c.softVeto = base.softVeto
	c.fallback = base.fallback
	return c, nil
}

// Available returns the loaded preset names.
func (pl *PresetLoader) Available() []string {
	if pl.file == nil {
		return nil
	}
	names := make([]string, 0, len(pl.file.Presets))
	for name := range pl.file.Presets {
		names = append(names, name)
	}
	return names
}

func validatePresets(file *PresetsFile) error {
	if len(file.Presets) == 0 {
		return fmt.Errorf("no presets defined")
	}
	for name, cfg := range file.Presets {
		if cfg.Name == "" {
			cfg.Name = name
			file.Presets[name] = cfg
		}
		if cfg.Name != name {
			return fmt.Errorf("preset %s declares mismatched name %q", name, cfg.Name)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
	}
	return nil
}

// DefaultPresetsPath returns the default preset file path.
func DefaultPresetsPath() string {
	return filepath.Join("config", "presets.yaml")
}
