package models

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Provenance defaults stamped on every output file.
const (
	DefaultSourceSystem      = "מערכת תוכניות תב״ע"
	DefaultExtractionDate    = "2025-08-03"
	DefaultProcessingVersion = "1.0"
	DefaultProcessorVersion  = "1.0"
	ProcessedStatus          = "processed"
)

// Config holds optional overrides loaded from a YAML file.
// Zero values fall back to the defaults above.
type Config struct {
	SourceSystem      string `yaml:"source_system"`
	ExtractionDate    string `yaml:"extraction_date"`
	ProcessingVersion string `yaml:"processing_version"`
	ProcessorVersion  string `yaml:"processor_version"`

	// CityTranslations extends the built-in Hebrew to English city names.
	CityTranslations map[string]string `yaml:"city_translations"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		SourceSystem:      DefaultSourceSystem,
		ExtractionDate:    DefaultExtractionDate,
		ProcessingVersion: DefaultProcessingVersion,
		ProcessorVersion:  DefaultProcessorVersion,
	}
}

// LoadConfig reads a YAML config file. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if fileCfg.SourceSystem != "" {
		cfg.SourceSystem = fileCfg.SourceSystem
	}
	if fileCfg.ExtractionDate != "" {
		cfg.ExtractionDate = fileCfg.ExtractionDate
	}
	if fileCfg.ProcessingVersion != "" {
		cfg.ProcessingVersion = fileCfg.ProcessingVersion
	}
	if fileCfg.ProcessorVersion != "" {
		cfg.ProcessorVersion = fileCfg.ProcessorVersion
	}
	cfg.CityTranslations = fileCfg.CityTranslations

	return cfg, nil
}

// ProcessingMetadata returns the provenance block for plan metadata.
func (c *Config) ProcessingMetadata() ProcessingMetadata {
	return ProcessingMetadata{
		SourceSystem:      c.SourceSystem,
		ExtractionDate:    c.ExtractionDate,
		ProcessingVersion: c.ProcessingVersion,
		Status:            ProcessedStatus,
	}
}

// CityProcessingInfo returns the provenance block for city metadata.
func (c *Config) CityProcessingInfo() CityProcessingInfo {
	return CityProcessingInfo{
		Source:           c.SourceSystem,
		ProcessorVersion: c.ProcessorVersion,
		ExtractionDate:   c.ExtractionDate,
	}
}
