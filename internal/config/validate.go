package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/altuslabsxyz/deployer/internal/domain/credential"
	"github.com/hashicorp/go-version"
)

var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ws":    true,
	"wss":   true,
}

// Validate validates the resolved Config.
func (c *Config) Validate() error {
	if _, err := version.NewVersion(c.solidity); err != nil {
		return fmt.Errorf("invalid solidity version: %q", c.solidity)
	}

	if c.artifacts == "" {
		return fmt.Errorf("artifacts directory must not be empty")
	}

	if _, ok := c.networks[c.defaultNetwork]; !ok {
		return fmt.Errorf("%w: default network %q is not configured (configured: %s)", ErrUnknownNetwork, c.defaultNetwork, strings.Join(c.NetworkNames(), ", "))
	}

	for _, name := range c.NetworkNames() {
		nc := c.networks[name]
		if nc.URL == "" {
			return fmt.Errorf("network %s: url is required", name)
		}
		if err := validateURL(nc.URL); err != nil {
			return fmt.Errorf("network %s: %w", name, err)
		}
		if len(nc.Accounts) == 0 {
			return fmt.Errorf("network %s: at least one account is required", name)
		}
	}

	return nil
}

// ValidateFileConfig validates a single FileConfig before merging.
// This is called when loading each config file to provide early error messages.
func ValidateFileConfig(cfg *FileConfig) error {
	if cfg == nil {
		return nil
	}

	if cfg.Solidity != nil {
		if _, err := version.NewVersion(*cfg.Solidity); err != nil {
			return fmt.Errorf("invalid solidity version: %q", *cfg.Solidity)
		}
	}

	for name, nc := range cfg.Networks {
		if nc == nil {
			continue
		}
		for i, account := range nc.Accounts {
			if _, err := credential.ParseReference(account); err != nil {
				return fmt.Errorf("network %s: accounts[%d]: %w", name, i, err)
			}
		}
		if nc.ChainID != nil && *nc.ChainID == 0 {
			return fmt.Errorf("network %s: chain_id must be positive", name)
		}
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		// url.Parse errors echo the input, which may carry an API key.
		return fmt.Errorf("invalid url")
	}
	if !allowedSchemes[u.Scheme] {
		return fmt.Errorf("unsupported url scheme %q (use http, https, ws or wss)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url has no host")
	}
	return nil
}
