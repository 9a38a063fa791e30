package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/trusttree/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	// DefaultConfigurationTemplate mirrors the built-in defaults.
	DefaultConfigurationTemplate = `format: raw
ascii: false
min_count: 1
max_depth: 0
top: 0
prefix: /
include_regex: ""
exclude_regex: ""
ext_mode: last
counts: true
compact: false
emit_filter: false
emit_filter_mode: ext
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// LocalConfigPath returns the local configuration path inside workingDirectory.
func LocalConfigPath(workingDirectory string) string {
	if workingDirectory == "" {
		return ""
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName)
}

// GlobalConfigPath returns the configuration path inside the user's home directory.
func GlobalConfigPath() (string, error) {
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory for configuration: %w", err)
	}
	if homeDirectory == "" {
		return "", fmt.Errorf("resolve home directory for configuration: empty home directory")
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName), nil
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = LocalConfigPath(workingDirectory)
	case InitTargetGlobal:
		globalPath, err := GlobalConfigPath()
		if err != nil {
			return "", err
		}
		configurationDirectory := filepath.Dir(globalPath)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		destinationPath = globalPath
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(DefaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
