// Package paths provides centralized path management for deployer.
package paths

import (
	"os"
	"path/filepath"
)

// DefaultHomeDirName is the per-user directory holding the global config.toml.
const DefaultHomeDirName = ".deployer"

// Hardhat artifact file extensions.
const (
	ArtifactExt      = ".json"
	DebugArtifactExt = ".dbg.json"
)

// DefaultHomeDir returns $HOME/.deployer or falls back to the current directory.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultHomeDirName
	}
	return filepath.Join(home, DefaultHomeDirName)
}

// ArtifactPath returns <artifacts>/<source>/<Contract>.json, the Hardhat
// location for a contract compiled from source (e.g. "contracts/SocialMedia.sol").
func ArtifactPath(artifactsDir, source, contract string) string {
	return filepath.Join(artifactsDir, filepath.FromSlash(source), contract+ArtifactExt)
}

// DebugArtifactPath returns the .dbg.json file next to an artifact.
func DebugArtifactPath(artifactPath string) string {
	return artifactPath[:len(artifactPath)-len(ArtifactExt)] + DebugArtifactExt
}
