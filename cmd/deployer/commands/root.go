// Package commands provides the CLI command implementations for deployer.
// This file defines the root command and registers all subcommands.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/deployer/internal/config"
	"github.com/altuslabsxyz/deployer/internal/output"
	"github.com/altuslabsxyz/deployer/internal/paths"
)

// Command group IDs for organized help output.
const (
	GroupMain  = "main"
	GroupSetup = "setup"
)

// Local variables for flag binding (Cobra requires pointers to local vars)
var (
	homeDir      string
	configPath   string
	networkName  string
	artifactsDir string
	jsonMode     bool
	noColor      bool
	verbose      bool
)

// DefaultHomeDir returns the default home directory for the global config.
func DefaultHomeDir() string {
	return paths.DefaultHomeDir()
}

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deployer",
		Short: "Deploy compiled contracts to EVM networks",
		Long: `deployer publishes compiled Hardhat artifacts to an EVM network and
prints the deployed address.

Networks are declared in deployer.toml. Signing keys never live in that file;
accounts reference the environment or the system keychain:

  [networks.sepolia]
  url = "https://eth-sepolia.g.alchemy.com/v2/${ALCHEMY_API_KEY}"
  accounts = ["keychain:sepolia"]

Examples:
  # Deploy SocialMedia to the default network (sepolia)
  deployer deploy

  # Deploy another contract to a local node
  deployer deploy Feed --network local

  # Store a signing key in the system keychain
  deployer credential set sepolia`,
		PersistentPreRunE: persistentPreRunE,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Global flags available on all commands
	cmd.PersistentFlags().StringVarP(&homeDir, "home", "H", DefaultHomeDir(),
		"Directory holding the global config.toml")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a deployer.toml file")
	cmd.PersistentFlags().StringVarP(&networkName, "network", "n", "",
		"Network to use (default: default_network from config)")
	cmd.PersistentFlags().StringVar(&artifactsDir, "artifacts", "",
		"Hardhat artifacts directory (default: artifacts from config)")
	cmd.PersistentFlags().BoolVar(&jsonMode, "json", false,
		"Output in JSON format")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging")

	cmd.AddGroup(&cobra.Group{ID: GroupMain, Title: "Main Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupSetup, Title: "Setup Commands:"})

	registerCommands(cmd)

	return cmd
}

// persistentPreRunE loads configuration and sets up global output state.
func persistentPreRunE(cmd *cobra.Command, args []string) error {
	applyEnvironmentOverrides(cmd)

	// Configure output before loading so loader warnings honour the flags.
	logger := output.DefaultLogger
	logger.SetNoColor(noColor)
	logger.SetVerbose(verbose)
	logger.SetJSONMode(jsonMode)

	loader := config.NewConfigLoader(homeDir, configPath, logger)
	cfg, err := loader.Load(config.Overrides{
		Network:   networkName,
		Artifacts: artifactsDir,
	})
	if err != nil {
		return err
	}

	applyConfigDefaults(cmd, cfg)
	logger.SetNoColor(noColor)
	logger.SetVerbose(verbose)

	if cfg.SourceFile() != "" {
		logger.Debug("Using config file: %s", cfg.SourceFile())
	}

	cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
	return nil
}

// applyConfigDefaults applies config file values to global flags if not explicitly set.
func applyConfigDefaults(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("verbose") && cfg.Verbose() {
		verbose = true
	}
	if !cmd.Flags().Changed("no-color") && cfg.NoColor() {
		noColor = true
	}
}

// applyEnvironmentOverrides applies environment variable overrides.
func applyEnvironmentOverrides(cmd *cobra.Command) {
	if envHome := os.Getenv("DEPLOYER_HOME"); envHome != "" && !cmd.Flags().Changed("home") {
		homeDir = envHome
	}
	if os.Getenv("NO_COLOR") != "" && !cmd.Flags().Changed("no-color") {
		noColor = true
	}
}

// registerCommands registers all subcommands with appropriate group assignments.
func registerCommands(rootCmd *cobra.Command) {
	deployCmd := NewDeployCmd()
	deployCmd.GroupID = GroupMain
	accountsCmd := NewAccountsCmd()
	accountsCmd.GroupID = GroupMain
	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = GroupMain
	contractsCmd := NewContractsCmd()
	contractsCmd.GroupID = GroupMain

	initCmd := NewInitCmd()
	initCmd.GroupID = GroupSetup
	credentialCmd := NewCredentialCmd()
	credentialCmd.GroupID = GroupSetup

	rootCmd.AddCommand(
		deployCmd,
		accountsCmd,
		networksCmd,
		contractsCmd,
		initCmd,
		credentialCmd,
		NewVersionCmd(),
	)
}
