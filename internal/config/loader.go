package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	RulesFile      = "tempoross.yaml"
	StrategiesFile = "strategies.yaml"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadRules overlays the file at path onto DefaultRules. A missing file
// yields the defaults.
func LoadRules(path string) (*Rules, error) {
	r := DefaultRules()
	if err := loadYAML(path, r); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return r, nil
}

// LoadStrategies returns an empty config when the file does not exist.
func LoadStrategies(path string) (*StrategiesConfig, error) {
	var sc StrategiesConfig
	if err := loadYAML(path, &sc); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &sc, nil
}

func LoadAll(dir string) (*Rules, *StrategiesConfig, error) {
	rules, err := LoadRules(filepath.Join(dir, RulesFile))
	if err != nil {
		return nil, nil, err
	}
	sc, err := LoadStrategies(filepath.Join(dir, StrategiesFile))
	if err != nil {
		return nil, nil, err
	}
	return rules, sc, nil
}
