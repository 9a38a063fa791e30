// Package config loads trusttree defaults from YAML configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/trusttree/internal/types"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds defaults read from configuration files.
// Nil pointers and empty strings mean the file leaves the value unset.
type ApplicationConfiguration struct {
	Format         string `mapstructure:"format"`
	ASCII          *bool  `mapstructure:"ascii"`
	MinCount       *int   `mapstructure:"min_count"`
	MaxDepth       *int   `mapstructure:"max_depth"`
	Top            *int   `mapstructure:"top"`
	Prefix         string `mapstructure:"prefix"`
	IncludeRegex   string `mapstructure:"include_regex"`
	ExcludeRegex   string `mapstructure:"exclude_regex"`
	ExtensionMode  string `mapstructure:"ext_mode"`
	Counts         *bool  `mapstructure:"counts"`
	Compact        *bool  `mapstructure:"compact"`
	EmitFilter     *bool  `mapstructure:"emit_filter"`
	EmitFilterMode string `mapstructure:"emit_filter_mode"`
}

// LoadApplicationConfiguration loads configuration from the global file and then the local one.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if globalPath, err := GlobalConfigPath(); err == nil {
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	return merged.Merge(localConfig), nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return LocalConfigPath(workingDirectory)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.ASCII != nil {
		result.ASCII = cloneBool(override.ASCII)
	}
	if override.MinCount != nil {
		result.MinCount = cloneInt(override.MinCount)
	}
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.Top != nil {
		result.Top = cloneInt(override.Top)
	}
	if override.Prefix != "" {
		result.Prefix = override.Prefix
	}
	if override.IncludeRegex != "" {
		result.IncludeRegex = override.IncludeRegex
	}
	if override.ExcludeRegex != "" {
		result.ExcludeRegex = override.ExcludeRegex
	}
	if override.ExtensionMode != "" {
		result.ExtensionMode = override.ExtensionMode
	}
	if override.Counts != nil {
		result.Counts = cloneBool(override.Counts)
	}
	if override.Compact != nil {
		result.Compact = cloneBool(override.Compact)
	}
	if override.EmitFilter != nil {
		result.EmitFilter = cloneBool(override.EmitFilter)
	}
	if override.EmitFilterMode != "" {
		result.EmitFilterMode = override.EmitFilterMode
	}
	return result
}

// ApplyTo returns base with every value set in the configuration applied.
func (config ApplicationConfiguration) ApplyTo(base types.ShapingConfig) types.ShapingConfig {
	result := base
	if config.Format != "" {
		result.Format = config.Format
	}
	if config.ASCII != nil {
		result.ASCII = *config.ASCII
	}
	if config.MinCount != nil {
		result.MinCount = *config.MinCount
	}
	if config.MaxDepth != nil {
		result.MaxDepth = *config.MaxDepth
	}
	if config.Top != nil {
		result.Top = *config.Top
	}
	if config.Prefix != "" {
		result.Prefix = config.Prefix
	}
	if config.IncludeRegex != "" {
		result.IncludeRegex = config.IncludeRegex
	}
	if config.ExcludeRegex != "" {
		result.ExcludeRegex = config.ExcludeRegex
	}
	if config.ExtensionMode != "" {
		result.ExtensionMode = types.ExtensionMode(config.ExtensionMode)
	}
	if config.Counts != nil {
		result.ShowCounts = *config.Counts
	}
	if config.Compact != nil {
		result.Compact = *config.Compact
	}
	if config.EmitFilter != nil {
		result.EmitFilter = *config.EmitFilter
	}
	if config.EmitFilterMode != "" {
		result.EmitFilterMode = types.FilterMode(config.EmitFilterMode)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
