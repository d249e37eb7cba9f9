package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/deployer/internal/config"
	"github.com/altuslabsxyz/deployer/internal/deploy"
	"github.com/altuslabsxyz/deployer/internal/output"
)

// deployOptions holds options for the deploy command.
type deployOptions struct {
	timeout time.Duration
}

// NewDeployCmd creates the deploy command.
func NewDeployCmd() *cobra.Command {
	opts := &deployOptions{}

	cmd := &cobra.Command{
		Use:   "deploy [contract]",
		Short: "Deploy a compiled contract",
		Long: `Deploy a compiled contract to the selected network and wait for it to be
confirmed on chain.

The contract is looked up by name in the Hardhat artifacts directory. A
fully-qualified name such as "contracts/Social.sol:SocialMedia" selects one
artifact when several sources define the same contract. The first account of
the network signs the deployment.

On success exactly one line is printed to stdout:

  SocialMedia deployed to: 0x...

Examples:
  # Deploy SocialMedia to the default network
  deployer deploy

  # Deploy to a local node and give up after two minutes
  deployer deploy SocialMedia --network local --timeout 2m

  # Machine-readable result
  deployer deploy --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contract := deploy.DefaultContract
			if len(args) == 1 {
				contract = args[0]
			}
			return runDeploy(cmd, opts, contract)
		},
	}

	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0,
		"Give up if the deployment is not confirmed in time (0 waits indefinitely)")

	return cmd
}

func runDeploy(cmd *cobra.Command, opts *deployOptions, contract string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	logger := output.DefaultLogger
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	network, err := cfg.Network("")
	if err != nil {
		return err
	}

	logger.Info("Deploying %s to %s...", contract, network.Name)

	var outcome deploy.Outcome
	facility, cleanup, err := newFacility(ctx, cfg, network, logger)
	if err != nil {
		outcome = deploy.Fail(contract, network.Name, err)
	} else {
		defer cleanup()
		outcome = deploy.Run(ctx, facility, contract, network.Name)
	}

	if code := deploy.NewReporter(logger).Report(outcome); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
