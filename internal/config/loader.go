package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".tabreport"

// XDGConfigFile is the configuration file name inside XDGConfigDir.
const XDGConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .tabreport configuration file.
// Pointer fields distinguish keys that are absent from keys set to
// their zero value.
type File struct {
	Input            *string  `yaml:"input,omitempty"`
	Output           *string  `yaml:"output,omitempty"`
	AgeColumn        *string  `yaml:"ageColumn,omitempty"`
	SalaryColumn     *string  `yaml:"salaryColumn,omitempty"`
	AgeThreshold     *float64 `yaml:"ageThreshold,omitempty"`
	PreviewRows      *int     `yaml:"previewRows,omitempty"`
	NAValues         []string `yaml:"naValues,omitempty"`
	Delimiter        *string  `yaml:"delimiter,omitempty"`
	StrictMean       *bool    `yaml:"strictMean,omitempty"`
	History          *bool    `yaml:"history,omitempty"`
	SensitiveColumns []string `yaml:"sensitiveColumns,omitempty"`
}

// Apply copies every key present in the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	if cf.Input != nil {
		cfg.Input = *cf.Input
	}
	if cf.Output != nil {
		cfg.Output = *cf.Output
	}
	if cf.AgeColumn != nil {
		cfg.AgeColumn = *cf.AgeColumn
	}
	if cf.SalaryColumn != nil {
		cfg.SalaryColumn = *cf.SalaryColumn
	}
	if cf.AgeThreshold != nil {
		cfg.AgeThreshold = *cf.AgeThreshold
	}
	if cf.PreviewRows != nil {
		cfg.PreviewRows = *cf.PreviewRows
	}
	if cf.NAValues != nil {
		cfg.NAValues = cf.NAValues
	}
	if cf.Delimiter != nil {
		cfg.Delimiter = *cf.Delimiter
	}
	if cf.StrictMean != nil {
		cfg.StrictMean = *cf.StrictMean
	}
	if cf.History != nil {
		cfg.History = *cf.History
	}
	if cf.SensitiveColumns != nil {
		cfg.SensitiveColumns = cf.SensitiveColumns
	}
}

// LoadConfigFile loads a configuration file from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .tabreport in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .tabreport in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// Load resolves the configuration file for cfg.ConfigFilePath and applies it
// to cfg. An explicit path that does not exist yields ErrConfigNotFound; a
// missing file in the default locations leaves cfg unchanged.
// It returns the path of the file applied, or an empty string.
func Load(cfg *Config) (string, error) {
	path := FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return "", ErrConfigNotFound
		}
		return "", nil
	}

	cf, err := LoadConfigFile(path)
	if err != nil {
		return "", err
	}
	cf.Apply(cfg)
	return path, nil
}
