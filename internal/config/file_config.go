package config

// FileConfig represents the raw deployer.toml file contents.
// All scalar fields are pointers to distinguish "not set" from "set to zero/false".
type FileConfig struct {
	// Toolchain settings
	Solidity       *string `toml:"solidity"`        // Compiler version the artifacts were built with
	DefaultNetwork *string `toml:"default_network"` // Network used when --network is not given
	Artifacts      *string `toml:"artifacts"`       // Hardhat artifacts directory

	// Output settings
	NoColor *bool `toml:"no_color"`
	Verbose *bool `toml:"verbose"`

	Networks map[string]*FileNetwork `toml:"networks"`
}

// FileNetwork is one [networks.<name>] table.
type FileNetwork struct {
	URL      *string  `toml:"url"`      // RPC endpoint, ${VAR} references are expanded
	Accounts []string `toml:"accounts"` // Credential references, nil means unset
	ChainID  *uint64  `toml:"chain_id"` // Expected chain id, verified against the node
}

// mergeFileConfig merges src into dst. Non-nil values in src overwrite dst.
// Networks merge per name and per field.
func mergeFileConfig(dst, src *FileConfig) {
	if src.Solidity != nil {
		dst.Solidity = src.Solidity
	}
	if src.DefaultNetwork != nil {
		dst.DefaultNetwork = src.DefaultNetwork
	}
	if src.Artifacts != nil {
		dst.Artifacts = src.Artifacts
	}
	if src.NoColor != nil {
		dst.NoColor = src.NoColor
	}
	if src.Verbose != nil {
		dst.Verbose = src.Verbose
	}

	for name, srcNet := range src.Networks {
		if srcNet == nil {
			continue
		}
		if dst.Networks == nil {
			dst.Networks = make(map[string]*FileNetwork)
		}
		dstNet, ok := dst.Networks[name]
		if !ok {
			dstNet = &FileNetwork{}
			dst.Networks[name] = dstNet
		}
		if srcNet.URL != nil {
			dstNet.URL = srcNet.URL
		}
		if srcNet.Accounts != nil {
			dstNet.Accounts = append([]string(nil), srcNet.Accounts...)
		}
		if srcNet.ChainID != nil {
			dstNet.ChainID = srcNet.ChainID
		}
	}
}
