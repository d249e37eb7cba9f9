package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/altuslabsxyz/deployer/internal/output"
	"github.com/pelletier/go-toml/v2"
)

// File names searched by the loader.
const (
	ProjectConfigFile = "deployer.toml"
	HomeConfigFile    = "config.toml"
)

// ConfigLoader is responsible for loading and merging configuration files.
type ConfigLoader struct {
	homeDir    string
	workDir    string
	configPath string // Explicit --config path
	logger     output.LoggerInterface
}

// NewConfigLoader creates a new ConfigLoader rooted at the current directory.
func NewConfigLoader(homeDir, configPath string, logger output.LoggerInterface) *ConfigLoader {
	return &ConfigLoader{
		homeDir:    homeDir,
		workDir:    ".",
		configPath: configPath,
		logger:     logger,
	}
}

// WithWorkDir returns a copy of the loader that looks for deployer.toml in dir.
func (l *ConfigLoader) WithWorkDir(dir string) *ConfigLoader {
	cp := *l
	cp.workDir = dir
	return &cp
}

// candidateFiles lists config files in increasing priority:
// <home>/config.toml, <workdir>/deployer.toml, explicit --config path.
func (l *ConfigLoader) candidateFiles() ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		files = append(files, path)
	}

	if l.homeDir != "" {
		homePath := filepath.Join(l.homeDir, HomeConfigFile)
		if _, err := os.Stat(homePath); err == nil {
			add(homePath)
		}
	}

	projectPath := filepath.Join(l.workDir, ProjectConfigFile)
	if _, err := os.Stat(projectPath); err == nil {
		add(projectPath)
	}

	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); err != nil {
			return nil, fmt.Errorf("config file not found: %s", l.configPath)
		}
		add(l.configPath)
	}

	return files, nil
}

// LoadFileConfig loads and parses config files, merging them in priority order.
// Later files override earlier ones. Returns the merged FileConfig and the
// primary (highest priority) config file path, empty when none was found.
func (l *ConfigLoader) LoadFileConfig() (*FileConfig, string, error) {
	files, err := l.candidateFiles()
	if err != nil {
		return nil, "", err
	}

	var merged FileConfig
	var primaryFile string
	for _, configFile := range files {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}

		var cfg FileConfig
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}

		if err := ValidateFileConfig(&cfg); err != nil {
			return nil, "", fmt.Errorf("invalid config file %s: %w", configFile, err)
		}

		mergeFileConfig(&merged, &cfg)
		primaryFile = configFile

		l.warnUnknownKeys(configFile, data)

		if l.logger != nil {
			l.logger.Debug("Loaded config file: %s", configFile)
		}
	}

	return &merged, primaryFile, nil
}

// Load loads the config files and builds the resolved Config.
func (l *ConfigLoader) Load(overrides Overrides) (*Config, error) {
	fileCfg, primary, err := l.LoadFileConfig()
	if err != nil {
		return nil, err
	}

	cfg, err := Build(fileCfg, overrides, os.LookupEnv)
	if err != nil {
		return nil, err
	}
	return cfg.WithSourceFile(primary), nil
}

var (
	knownKeys = map[string]bool{
		"solidity":        true,
		"default_network": true,
		"artifacts":       true,
		"no_color":        true,
		"verbose":         true,
		"networks":        true,
	}
	knownNetworkKeys = map[string]bool{
		"url":      true,
		"accounts": true,
		"chain_id": true,
	}
)

// warnUnknownKeys checks for unknown keys in the config file and logs warnings.
func (l *ConfigLoader) warnUnknownKeys(file string, data []byte) {
	if l.logger == nil {
		return
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return // main parsing reports syntax errors
	}

	for key := range raw {
		if !knownKeys[key] {
			l.logger.Warn("Unknown config key in %s: %s", file, key)
		}
	}

	networks, _ := raw["networks"].(map[string]interface{})
	for name, v := range networks {
		table, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		for key := range table {
			if !knownNetworkKeys[key] {
				l.logger.Warn("Unknown config key in %s: networks.%s.%s", file, name, key)
			}
		}
	}
}
