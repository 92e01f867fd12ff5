// Package config provides configuration structures and utilities for tabreport.
// It defines the input and output paths, the columns the report is computed
// over, CSV parsing options and report format preferences, and loads
// overrides from a YAML configuration file.
package config
