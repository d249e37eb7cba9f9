// Package config builds the immutable deployer configuration from built-in
// defaults, deployer.toml files, environment and flags.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Built-in defaults. The sepolia network resolves without any config file;
// its signing key is read from DEPLOYER_PRIVATE_KEY.
const (
	DefaultSolidity       = "0.8.0"
	DefaultNetworkName    = "sepolia"
	DefaultArtifactsDir   = "artifacts"
	DefaultSepoliaURL     = "https://ethereum-sepolia-rpc.publicnode.com"
	DefaultAccountRef     = "env:DEPLOYER_PRIVATE_KEY"

	// EnvNetwork overrides default_network.
	EnvNetwork = "DEPLOYER_NETWORK"
)

// SepoliaChainID is the chain id of the Sepolia testnet.
const SepoliaChainID uint64 = 11155111

// ErrUnknownNetwork is returned when a network name is not configured.
var ErrUnknownNetwork = errors.New("unknown network")

// NetworkConfig binds a network name to an RPC endpoint and signing credentials.
type NetworkConfig struct {
	Name string
	// URL is the expanded endpoint; URLTemplate keeps ${VAR} references for display.
	URL         string
	URLTemplate string
	// Accounts are credential references; the first one signs deployments.
	Accounts []string
	// ChainID is zero when the node's chain id is not checked.
	ChainID uint64
}

// Config is the resolved deployer configuration. It is never mutated after Build.
type Config struct {
	solidity       string
	defaultNetwork string
	artifacts      string
	noColor        bool
	verbose        bool
	networks       map[string]NetworkConfig
	sourceFile     string
}

// Overrides carries values that take precedence over config files.
type Overrides struct {
	Network   string // --network
	Artifacts string // --artifacts
}

// Defaults returns the built-in configuration as a FileConfig layer.
func Defaults() *FileConfig {
	solidity := DefaultSolidity
	network := DefaultNetworkName
	artifacts := DefaultArtifactsDir
	url := DefaultSepoliaURL
	chainID := SepoliaChainID

	return &FileConfig{
		Solidity:       &solidity,
		DefaultNetwork: &network,
		Artifacts:      &artifacts,
		Networks: map[string]*FileNetwork{
			DefaultNetworkName: {
				URL:      &url,
				Accounts: []string{DefaultAccountRef},
				ChainID:  &chainID,
			},
		},
	}
}

// Build resolves file config on top of the defaults, applies the environment
// and overrides, expands ${VAR} references and validates the result.
// lookup is normally os.LookupEnv.
func Build(file *FileConfig, overrides Overrides, lookup func(string) (string, bool)) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	merged := Defaults()
	if file != nil {
		mergeFileConfig(merged, file)
	}

	cfg := &Config{
		solidity:       deref(merged.Solidity),
		defaultNetwork: deref(merged.DefaultNetwork),
		artifacts:      deref(merged.Artifacts),
		noColor:        merged.NoColor != nil && *merged.NoColor,
		verbose:        merged.Verbose != nil && *merged.Verbose,
		networks:       make(map[string]NetworkConfig, len(merged.Networks)),
	}

	// Priority: default < config file < env < flag
	if v, ok := lookup(EnvNetwork); ok && v != "" {
		cfg.defaultNetwork = v
	}
	if overrides.Network != "" {
		cfg.defaultNetwork = overrides.Network
	}
	if overrides.Artifacts != "" {
		cfg.artifacts = overrides.Artifacts
	}

	for name, fn := range merged.Networks {
		template := deref(fn.URL)
		url, err := expandEnv(template, lookup)
		if err != nil {
			return nil, fmt.Errorf("network %s: %w", name, err)
		}
		nc := NetworkConfig{
			Name:        name,
			URL:         url,
			URLTemplate: template,
			Accounts:    append([]string(nil), fn.Accounts...),
		}
		if fn.ChainID != nil {
			nc.ChainID = *fn.ChainID
		}
		cfg.networks[name] = nc
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Solidity returns the configured compiler version.
func (c *Config) Solidity() string { return c.solidity }

// DefaultNetwork returns the name of the network used when none is selected.
func (c *Config) DefaultNetwork() string { return c.defaultNetwork }

// ArtifactsDir returns the Hardhat artifacts directory.
func (c *Config) ArtifactsDir() string { return c.artifacts }

// NoColor reports whether the config file disables colored output.
func (c *Config) NoColor() bool { return c.noColor }

// Verbose reports whether the config file enables verbose output.
func (c *Config) Verbose() bool { return c.verbose }

// SourceFile returns the highest priority config file that was loaded, if any.
func (c *Config) SourceFile() string { return c.sourceFile }

// WithSourceFile returns a copy of c recording the config file it came from.
func (c *Config) WithSourceFile(path string) *Config {
	cp := *c
	cp.sourceFile = path
	return &cp
}

// Network returns the named network. An empty name selects the default network.
func (c *Config) Network(name string) (NetworkConfig, error) {
	if name == "" {
		name = c.defaultNetwork
	}
	nc, ok := c.networks[name]
	if !ok {
		return NetworkConfig{}, fmt.Errorf("%w: %q (configured: %s)", ErrUnknownNetwork, name, strings.Join(c.NetworkNames(), ", "))
	}
	nc.Accounts = append([]string(nil), nc.Accounts...)
	return nc, nil
}

// NetworkNames returns the configured network names in sorted order.
func (c *Config) NetworkNames() []string {
	names := make([]string, 0, len(c.networks))
	for name := range c.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type configKey struct{}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config stored by WithConfig, or nil.
func FromContext(ctx context.Context) *Config {
	if ctx == nil {
		return nil
	}
	cfg, _ := ctx.Value(configKey{}).(*Config)
	return cfg
}

// expandEnv replaces ${VAR} and $VAR references. Unset variables are an error
// so a missing API key does not silently produce a broken endpoint.
func expandEnv(s string, lookup func(string) (string, bool)) (string, error) {
	var missing []string
	out := os.Expand(s, func(name string) string {
		v, ok := lookup(name)
		if !ok {
			missing = append(missing, name)
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("url references unset environment variable(s): %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
