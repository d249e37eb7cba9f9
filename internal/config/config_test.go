package config

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func strPtr(s string) *string { return &s }

func TestBuild_DefaultsResolveSepolia(t *testing.T) {
	cfg, err := Build(nil, Overrides{}, envMap(nil))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if cfg.Solidity() != "0.8.0" {
		t.Errorf("expected solidity 0.8.0, got %s", cfg.Solidity())
	}
	if cfg.DefaultNetwork() != "sepolia" {
		t.Errorf("expected default network sepolia, got %s", cfg.DefaultNetwork())
	}

	nc, err := cfg.Network("sepolia")
	if err != nil {
		t.Fatalf("Network(sepolia) failed: %v", err)
	}
	if nc.URL == "" {
		t.Error("expected non-empty sepolia url")
	}
	if len(nc.Accounts) == 0 {
		t.Error("expected non-empty sepolia accounts")
	}
	if nc.ChainID != SepoliaChainID {
		t.Errorf("expected chain id %d, got %d", SepoliaChainID, nc.ChainID)
	}
}

func TestBuild_EmptyNameSelectsDefault(t *testing.T) {
	cfg, err := Build(nil, Overrides{}, envMap(nil))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	nc, err := cfg.Network("")
	if err != nil {
		t.Fatalf("Network(\"\") failed: %v", err)
	}
	if nc.Name != "sepolia" {
		t.Errorf("expected sepolia, got %s", nc.Name)
	}
}

func TestBuild_ExpandsURLVariables(t *testing.T) {
	file := &FileConfig{
		Networks: map[string]*FileNetwork{
			"sepolia": {URL: strPtr("https://eth-sepolia.g.alchemy.com/v2/${ALCHEMY_API_KEY}")},
		},
	}

	cfg, err := Build(file, Overrides{}, envMap(map[string]string{"ALCHEMY_API_KEY": "abc"}))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	nc, _ := cfg.Network("sepolia")
	if nc.URL != "https://eth-sepolia.g.alchemy.com/v2/abc" {
		t.Errorf("unexpected url %s", nc.URL)
	}
	if !strings.Contains(nc.URLTemplate, "${ALCHEMY_API_KEY}") {
		t.Errorf("template lost variable reference: %s", nc.URLTemplate)
	}
	// Accounts come from the defaults layer when the file does not set them.
	if len(nc.Accounts) != 1 || nc.Accounts[0] != DefaultAccountRef {
		t.Errorf("unexpected accounts %v", nc.Accounts)
	}
}

func TestBuild_UnsetURLVariable(t *testing.T) {
	file := &FileConfig{
		Networks: map[string]*FileNetwork{
			"sepolia": {URL: strPtr("https://host/v2/${ALCHEMY_API_KEY}")},
		},
	}
	_, err := Build(file, Overrides{}, envMap(nil))
	if err == nil || !strings.Contains(err.Error(), "ALCHEMY_API_KEY") {
		t.Fatalf("expected unset variable error, got %v", err)
	}
}

func TestBuild_NetworkPriority(t *testing.T) {
	file := &FileConfig{
		DefaultNetwork: strPtr("sepolia"),
		Networks: map[string]*FileNetwork{
			"local":   {URL: strPtr("http://127.0.0.1:8545"), Accounts: []string{"env:LOCAL_KEY"}},
			"holesky": {URL: strPtr("https://holesky.example.org"), Accounts: []string{"keychain:holesky"}},
		},
	}

	cfg, err := Build(file, Overrides{}, envMap(map[string]string{EnvNetwork: "local"}))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.DefaultNetwork() != "local" {
		t.Errorf("env should override file: got %s", cfg.DefaultNetwork())
	}

	cfg, err = Build(file, Overrides{Network: "holesky"}, envMap(map[string]string{EnvNetwork: "local"}))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.DefaultNetwork() != "holesky" {
		t.Errorf("flag should override env: got %s", cfg.DefaultNetwork())
	}

	names := strings.Join(cfg.NetworkNames(), ",")
	if names != "holesky,local,sepolia" {
		t.Errorf("unexpected network names %s", names)
	}
}

func TestBuild_UnknownDefaultNetwork(t *testing.T) {
	_, err := Build(nil, Overrides{Network: "mainnet"}, envMap(nil))
	if err == nil || !strings.Contains(err.Error(), `"mainnet"`) {
		t.Fatalf("expected unknown default network error, got %v", err)
	}
	if !errors.Is(err, ErrUnknownNetwork) {
		t.Errorf("expected ErrUnknownNetwork, got %v", err)
	}
}

func TestBuild_RejectsInvalidNetwork(t *testing.T) {
	tests := []struct {
		name string
		net  *FileNetwork
		want string
	}{
		{"no url", &FileNetwork{Accounts: []string{"env:K"}}, "url is required"},
		{"bad scheme", &FileNetwork{URL: strPtr("ftp://host"), Accounts: []string{"env:K"}}, "unsupported url scheme"},
		{"no accounts", &FileNetwork{URL: strPtr("http://host"), Accounts: []string{}}, "at least one account"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := &FileConfig{Networks: map[string]*FileNetwork{"extra": tt.net}}
			_, err := Build(file, Overrides{}, envMap(nil))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q error, got %v", tt.want, err)
			}
		})
	}
}

func TestConfig_NetworkUnknown(t *testing.T) {
	cfg, err := Build(nil, Overrides{}, envMap(nil))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	_, err = cfg.Network("goerli")
	if !errors.Is(err, ErrUnknownNetwork) {
		t.Fatalf("expected ErrUnknownNetwork, got %v", err)
	}
}

func TestConfig_NetworkReturnsCopy(t *testing.T) {
	cfg, err := Build(nil, Overrides{}, envMap(nil))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	nc, _ := cfg.Network("sepolia")
	nc.Accounts[0] = "env:TAMPERED"

	again, _ := cfg.Network("sepolia")
	if again.Accounts[0] != DefaultAccountRef {
		t.Errorf("config was mutated through returned network: %v", again.Accounts)
	}
}

func TestContextRoundTrip(t *testing.T) {
	cfg, err := Build(nil, Overrides{}, envMap(nil))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	ctx := WithConfig(context.Background(), cfg)
	if FromContext(ctx) != cfg {
		t.Error("expected config from context")
	}
	if FromContext(context.Background()) != nil {
		t.Error("expected nil config from empty context")
	}
}
