package commands

import (
	"context"

	"cosmossdk.io/log"

	"github.com/altuslabsxyz/deployer/internal/artifact"
	"github.com/altuslabsxyz/deployer/internal/config"
	"github.com/altuslabsxyz/deployer/internal/deploy"
	"github.com/altuslabsxyz/deployer/internal/infrastructure/evm"
	"github.com/altuslabsxyz/deployer/internal/output"
)

// facilityFactory builds the deployment facility for a network. The returned
// cleanup releases its connection.
type facilityFactory func(ctx context.Context, cfg *config.Config, network config.NetworkConfig, logger output.LoggerInterface) (deploy.Facility, func(), error)

// newFacility is the factory used by the deploy command. Tests replace it.
var newFacility facilityFactory = newEVMFacility

func newEVMFacility(ctx context.Context, cfg *config.Config, network config.NetworkConfig, logger output.LoggerInterface) (deploy.Facility, func(), error) {
	key, err := resolveSigningKey(network, logger)
	if err != nil {
		return nil, nil, err
	}

	client := evm.NewClient(network.URL)
	if err := client.Connect(ctx); err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = client.Close() }
	logger.Debug("Connected to %s (chain id %s)", network.Name, client.ChainID())

	backend, err := client.Backend()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	deployer, err := evm.NewDeployer(ctx, evm.DeployerConfig{
		Backend: backend,
		Artifacts: &checkedArtifacts{
			store:    artifact.NewStore(cfg.ArtifactsDir()),
			solidity: cfg.Solidity(),
			logger:   logger,
		},
		Key:             key,
		ExpectedChainID: network.ChainID,
		Logger:          traceLogger(logger),
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	logger.Debug("Signing with %s", output.ShortAddress(deployer.From()))
	return deployer, cleanup, nil
}

// traceLogger returns a structured logger on stderr in verbose mode.
func traceLogger(logger output.LoggerInterface) log.Logger {
	if !logger.IsVerbose() || logger.IsJSONMode() {
		return log.NewNopLogger()
	}
	return log.NewLogger(logger.ErrWriter(), log.ColorOption(!noColor))
}

// checkedArtifacts warns when an artifact was compiled by another solc than
// the configured one.
type checkedArtifacts struct {
	store    *artifact.Store
	solidity string
	logger   output.LoggerInterface
}

func (c *checkedArtifacts) Load(name string) (*artifact.Artifact, error) {
	a, err := c.store.Load(name)
	if err != nil {
		return nil, err
	}
	if err := artifact.CheckCompilerVersion(a, c.solidity); err != nil {
		c.logger.Warn("%v", err)
	}
	return a, nil
}
