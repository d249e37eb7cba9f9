package config

import (
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestConfigWriter_WriteLoadsBack(t *testing.T) {
	dir := t.TempDir()
	w := NewConfigWriter(dir)
	if w.Exists() {
		t.Fatal("expected no config before Write")
	}

	network := NetworkConfig{
		Name:        "sepolia",
		URLTemplate: "https://eth-sepolia.g.alchemy.com/v2/${ALCHEMY_API_KEY}",
		Accounts:    []string{"keychain:sepolia"},
		ChainID:     SepoliaChainID,
	}
	if err := w.Write(network, "0.8.0"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !w.Exists() {
		t.Fatal("expected config after Write")
	}

	fileCfg, _, err := NewConfigLoader("", w.Path(), nil).LoadFileConfig()
	if err != nil {
		t.Fatalf("LoadFileConfig failed: %v", err)
	}
	got := fileCfg.Networks["sepolia"]
	if got == nil || *got.URL != network.URLTemplate || got.Accounts[0] != "keychain:sepolia" || *got.ChainID != SepoliaChainID {
		t.Errorf("unexpected network after round trip: %+v", got)
	}
}

func TestGenerateTOML_IsValid(t *testing.T) {
	content := generateTOML(NetworkConfig{Name: "local", URLTemplate: "http://127.0.0.1:8545", Accounts: []string{"env:A", "env:B"}}, "0.8.24")

	var raw map[string]interface{}
	if err := toml.Unmarshal([]byte(content), &raw); err != nil {
		t.Fatalf("generated TOML does not parse: %v\n%s", err, content)
	}
	if !strings.Contains(content, `accounts = ["env:A", "env:B"]`) {
		t.Errorf("unexpected accounts line:\n%s", content)
	}
}

func TestDisplayURL(t *testing.T) {
	tests := []struct {
		template string
		want     string
	}{
		{"https://eth-sepolia.g.alchemy.com/v2/${ALCHEMY_API_KEY}", "https://eth-sepolia.g.alchemy.com/v2/${ALCHEMY_API_KEY}"},
		{"https://eth-sepolia.g.alchemy.com/v2/secretkey", "https://eth-sepolia.g.alchemy.com/…"},
		{"https://rpc.example.org?key=secret", "https://rpc.example.org/…"},
		{"http://127.0.0.1:8545", "http://127.0.0.1:8545"},
	}
	for _, tt := range tests {
		if got := DisplayURL(NetworkConfig{URLTemplate: tt.template}); got != tt.want {
			t.Errorf("DisplayURL(%q) = %q, want %q", tt.template, got, tt.want)
		}
	}
}

func TestConfigWriter_DottedNetworkName(t *testing.T) {
	dir := t.TempDir()
	w := NewConfigWriter(dir)

	network := NetworkConfig{
		Name:        "base.sepolia",
		URLTemplate: "https://sepolia.base.org",
		Accounts:    []string{"env:BASE_KEY"},
		ChainID:     84532,
	}
	if err := w.Write(network, "0.8.0"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	cfg, err := NewConfigLoader(t.TempDir(), w.Path(), nil).WithWorkDir(t.TempDir()).Load(Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultNetwork() != "base.sepolia" {
		t.Fatalf("expected default network base.sepolia, got %q", cfg.DefaultNetwork())
	}
	got, err := cfg.Network("")
	if err != nil {
		t.Fatalf("Network failed: %v", err)
	}
	if got.URL != "https://sepolia.base.org" || got.ChainID != 84532 {
		t.Errorf("unexpected network after round trip: %+v", got)
	}
}

func TestTOMLKey(t *testing.T) {
	tests := map[string]string{
		"sepolia":      "sepolia",
		"base-sepolia": "base-sepolia",
		"base.sepolia": `"base.sepolia"`,
		`odd"name`:     `"odd\"name"`,
		"":             `""`,
	}
	for in, want := range tests {
		if got := tomlKey(in); got != want {
			t.Errorf("tomlKey(%q) = %s, want %s", in, got, want)
		}
	}
}
