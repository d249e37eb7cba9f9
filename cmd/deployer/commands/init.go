package commands

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/deployer/internal/config"
	"github.com/altuslabsxyz/deployer/internal/domain/common"
	"github.com/altuslabsxyz/deployer/internal/domain/credential"
	"github.com/altuslabsxyz/deployer/internal/output"
)

// initOptions holds options for the init command.
type initOptions struct {
	dir      string
	network  string
	url      string
	account  string
	chainID  uint64
	solidity string
	force    bool
}

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a deployer.toml in the project directory",
		Long: `Create a starter deployer.toml. Accounts must be references; plaintext
keys are refused.

Examples:
  # Sepolia through the public endpoint, key from DEPLOYER_PRIVATE_KEY
  deployer init

  # A provider endpoint with the API key kept in the environment
  deployer init --url 'https://eth-sepolia.g.alchemy.com/v2/${ALCHEMY_API_KEY}' \
    --account keychain:sepolia

  # A local node
  deployer init --network local --url http://127.0.0.1:8545 --chain-id 31337`,
		Args: cobra.NoArgs,
		// init must work even when an existing config does not load.
		PersistentPreRunE: configureOutput,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.network = networkName
			if opts.network == "" {
				opts.network = config.DefaultNetworkName
			}
			if opts.network != config.DefaultNetworkName {
				if !cmd.Flags().Changed("url") {
					return fmt.Errorf("--url is required for network %q", opts.network)
				}
				if !cmd.Flags().Changed("chain-id") {
					opts.chainID = 0
				}
			}
			return runInit(opts)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", ".", "Project directory")
	cmd.Flags().StringVar(&opts.url, "url", config.DefaultSepoliaURL, "RPC endpoint; may reference ${VARS}")
	cmd.Flags().StringVar(&opts.account, "account", config.DefaultAccountRef, "Signing account reference (env:NAME or keychain:NAME)")
	cmd.Flags().Uint64Var(&opts.chainID, "chain-id", config.SepoliaChainID, "Expected chain id (0 disables the check)")
	cmd.Flags().StringVar(&opts.solidity, "solidity", config.DefaultSolidity, "Solidity compiler version")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing deployer.toml")

	return cmd
}

// configureOutput applies the global output flags without loading config.
func configureOutput(cmd *cobra.Command, args []string) error {
	applyEnvironmentOverrides(cmd)
	logger := output.DefaultLogger
	logger.SetNoColor(noColor)
	logger.SetVerbose(verbose)
	logger.SetJSONMode(jsonMode)
	return nil
}

func runInit(opts *initOptions) error {
	ref, err := credential.ParseReference(opts.account)
	if err != nil {
		return err
	}
	if ref.Source == credential.SourceConfigFile {
		return common.WithHint(
			fmt.Errorf("%w: refusing to write a plaintext key", credential.ErrInvalidReference),
			"store the key with 'deployer credential set <name>' and pass --account keychain:<name>",
		)
	}

	if u, err := url.Parse(opts.url); err != nil || u.Scheme == "" {
		return fmt.Errorf("invalid url: must look like https://host/path")
	}

	writer := config.NewConfigWriter(opts.dir)
	if writer.Exists() && !opts.force {
		return common.WithHint(
			fmt.Errorf("%s already exists", writer.Path()),
			"use --force to overwrite it",
		)
	}

	network := config.NetworkConfig{
		Name:        opts.network,
		URLTemplate: opts.url,
		Accounts:    []string{ref.String()},
		ChainID:     opts.chainID,
	}
	if err := writer.Write(network, opts.solidity); err != nil {
		return err
	}

	output.Success("Created %s", writer.Path())
	output.Info("Deploy with: deployer deploy --network %s", opts.network)
	return nil
}
