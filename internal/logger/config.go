package logger

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled *bool  `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
	FileCompress   bool   `yaml:"file_compress"`
}

type loggingFile struct {
	Logging Config `yaml:"logging"`
}

func DefaultConfig() Config {
	on := true
	return Config{
		Level:          "INFO",
		ConsoleEnabled: &on,
		ConsoleFormat:  "text",
		FilePath:       "logs/simsvc.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// LoadConfig merges the `logging:` block of a YAML file over the defaults and
// applies LOG_* environment overrides. A missing file is not an error; a
// malformed one is.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var lf loggingFile
			if err := yaml.Unmarshal(data, &lf); err != nil {
				return config, fmt.Errorf("parse %s: %w", path, err)
			}
			config = merge(config, lf.Logging)
		case !os.IsNotExist(err):
			return config, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Level = v
	}
	if v := os.Getenv("LOG_CONSOLE_FORMAT"); v != "" {
		config.ConsoleFormat = v
	}
	if v := os.Getenv("LOG_FILE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			config.FileEnabled = enabled
		}
	}
	if v := os.Getenv("LOG_FILE_PATH"); v != "" {
		config.FilePath = v
	}
	return config, nil
}

func merge(base, over Config) Config {
	if over.Level != "" {
		base.Level = over.Level
	}
	if over.ConsoleEnabled != nil {
		base.ConsoleEnabled = over.ConsoleEnabled
	}
	if over.ConsoleFormat != "" {
		base.ConsoleFormat = over.ConsoleFormat
	}
	base.FileEnabled = over.FileEnabled
	if over.FilePath != "" {
		base.FilePath = over.FilePath
	}
	if over.FileFormat != "" {
		base.FileFormat = over.FileFormat
	}
	if over.FileMaxSizeMB > 0 {
		base.FileMaxSizeMB = over.FileMaxSizeMB
	}
	if over.FileMaxBackups > 0 {
		base.FileMaxBackups = over.FileMaxBackups
	}
	if over.FileMaxAgeDays > 0 {
		base.FileMaxAgeDays = over.FileMaxAgeDays
	}
	base.FileCompress = over.FileCompress
	return base
}

func (c Config) consoleOn() bool {
	return c.ConsoleEnabled == nil || *c.ConsoleEnabled
}
