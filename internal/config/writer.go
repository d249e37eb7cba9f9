package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ConfigWriter writes a starter deployer.toml into a project directory.
type ConfigWriter struct {
	dir string
}

// NewConfigWriter creates a new ConfigWriter for the given project directory.
func NewConfigWriter(dir string) *ConfigWriter {
	return &ConfigWriter{
		dir: dir,
	}
}

// Path returns the full path to deployer.toml in the project directory.
func (w *ConfigWriter) Path() string {
	return filepath.Join(w.dir, ProjectConfigFile)
}

// Exists returns true if deployer.toml already exists.
func (w *ConfigWriter) Exists() bool {
	_, err := os.Stat(w.Path())
	return err == nil
}

// Write saves a commented deployer.toml for network. The file only ever holds
// credential references, never key material.
func (w *ConfigWriter) Write(network NetworkConfig, solidity string) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", w.dir, err)
	}

	content := generateTOML(network, solidity)
	if err := os.WriteFile(w.Path(), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func generateTOML(network NetworkConfig, solidity string) string {
	var b strings.Builder

	b.WriteString("# deployer configuration file\n")
	b.WriteString("# Priority: default < ~/.deployer/config.toml < ./deployer.toml < --config < environment < flag\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "solidity = %s\n", tomlString(solidity))
	fmt.Fprintf(&b, "default_network = %s\n", tomlString(network.Name))
	fmt.Fprintf(&b, "artifacts = %s\n", tomlString(DefaultArtifactsDir))
	b.WriteString("\n")
	b.WriteString("# url may reference environment variables: \"https://host/v2/${API_KEY}\"\n")
	b.WriteString("# accounts are references: \"env:NAME\" or \"keychain:NAME\" (deployer credential set NAME)\n")
	fmt.Fprintf(&b, "[networks.%s]\n", tomlKey(network.Name))
	fmt.Fprintf(&b, "url = %s\n", tomlString(network.URLTemplate))

	refs := make([]string, len(network.Accounts))
	for i, account := range network.Accounts {
		refs[i] = tomlString(account)
	}
	fmt.Fprintf(&b, "accounts = [%s]\n", strings.Join(refs, ", "))

	if network.ChainID != 0 {
		fmt.Fprintf(&b, "chain_id = %d\n", network.ChainID)
	} else {
		b.WriteString("# chain_id = 1\n")
	}

	return b.String()
}

// tomlKey returns name as a TOML key, quoted unless it is a bare key.
// A dotted name like "base.sepolia" would otherwise open a nested table.
func tomlKey(name string) string {
	if name == "" {
		return `""`
	}
	for _, r := range name {
		bare := r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '-'
		if !bare {
			return tomlString(name)
		}
	}
	return name
}

// tomlString returns s as a TOML basic string.
func tomlString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, "\\u%04X", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// DisplayURL returns an endpoint safe to print. Templates with ${VAR}
// references are shown as written; literal URLs lose their path and query,
// where providers put API keys.
func DisplayURL(network NetworkConfig) string {
	if strings.Contains(network.URLTemplate, "$") {
		return network.URLTemplate
	}
	u, err := url.Parse(network.URLTemplate)
	if err != nil || u.Host == "" {
		return "<invalid url>"
	}
	if u.Path == "" || u.Path == "/" {
		if u.RawQuery == "" {
			return u.Scheme + "://" + u.Host
		}
	}
	return u.Scheme + "://" + u.Host + "/…"
}
