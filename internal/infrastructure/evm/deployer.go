package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/altuslabsxyz/deployer/internal/artifact"
	"github.com/altuslabsxyz/deployer/internal/deploy"
	"github.com/altuslabsxyz/deployer/internal/domain/common"
)

// Errors reported while confirming a deployment.
var (
	ErrChainIDMismatch = errors.New("chain id mismatch")
	ErrReverted        = errors.New("deployment transaction reverted")
	ErrNoCode          = errors.New("no contract code at deployed address")
)

// Backend is what the deployer needs from a node connection. Both
// *ethclient.Client and the simulated backend client satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// ArtifactSource loads compiled contracts by name.
type ArtifactSource interface {
	Load(name string) (*artifact.Artifact, error)
}

// DeployerConfig holds the dependencies of a Deployer.
type DeployerConfig struct {
	Backend   Backend
	Artifacts ArtifactSource
	Key       *ecdsa.PrivateKey
	// ExpectedChainID is checked against the node when non-zero.
	ExpectedChainID uint64
	Logger          log.Logger
}

// Deployer implements deploy.Facility on an EVM chain.
type Deployer struct {
	backend   Backend
	artifacts ArtifactSource
	key       *ecdsa.PrivateKey
	chainID   *big.Int
	logger    log.Logger
}

// Ensure Deployer implements deploy.Facility.
var _ deploy.Facility = (*Deployer)(nil)

// NewDeployer queries the node's chain id and validates it against the config.
func NewDeployer(ctx context.Context, cfg DeployerConfig) (*Deployer, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if cfg.Artifacts == nil {
		return nil, fmt.Errorf("artifact source is required")
	}
	if cfg.Key == nil {
		return nil, fmt.Errorf("signing key is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	chainID, err := cfg.Backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", redactErr(err))
	}
	if cfg.ExpectedChainID != 0 && chainID.Uint64() != cfg.ExpectedChainID {
		return nil, common.WithHint(
			fmt.Errorf("%w: node reports %s, config declares %d", ErrChainIDMismatch, chainID, cfg.ExpectedChainID),
			"check the network url or the chain_id in deployer.toml",
		)
	}

	return &Deployer{
		backend:   cfg.Backend,
		artifacts: cfg.Artifacts,
		key:       cfg.Key,
		chainID:   chainID,
		logger:    logger.With("module", "evm"),
	}, nil
}

// From returns the address that signs deployments.
func (d *Deployer) From() string {
	return crypto.PubkeyToAddress(d.key.PublicKey).Hex()
}

// DeployContract signs and broadcasts the creation transaction for name.
func (d *Deployer) DeployContract(ctx context.Context, name string) (*deploy.Pending, error) {
	a, err := d.artifacts.Load(name)
	if err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(d.key, d.chainID)
	if err != nil {
		return nil, fmt.Errorf("create transactor: %w", err)
	}
	opts.Context = ctx

	address, tx, _, err := bind.DeployContract(opts, a.ABI, a.Bytecode, d.backend)
	if err != nil {
		return nil, fmt.Errorf("send deployment transaction: %w", redactErr(err))
	}

	d.logger.Info("deployment submitted",
		"contract", a.FullyQualifiedName(),
		"from", opts.From.Hex(),
		"tx", tx.Hash().Hex(),
		"address", address.Hex(),
		"nonce", tx.Nonce(),
	)

	return &deploy.Pending{
		Contract: a.ContractName,
		Address:  address,
		TxHash:   tx.Hash(),
		Tx:       tx,
	}, nil
}

// WaitForDeployment waits until the creation transaction is mined, then
// checks it succeeded and left code at the address.
func (d *Deployer) WaitForDeployment(ctx context.Context, pending *deploy.Pending) (*deploy.Deployment, error) {
	if pending == nil || pending.Tx == nil {
		return nil, fmt.Errorf("pending deployment has no transaction")
	}

	receipt, err := bind.WaitMined(ctx, d.backend, pending.Tx)
	if err != nil {
		return nil, fmt.Errorf("wait for transaction %s: %w", pending.TxHash.Hex(), redactErr(err))
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: tx %s in block %s", ErrReverted, receipt.TxHash.Hex(), receipt.BlockNumber)
	}

	address := receipt.ContractAddress
	code, err := d.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("read code at %s: %w", address.Hex(), redactErr(err))
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCode, address.Hex())
	}

	d.logger.Info("deployment confirmed",
		"contract", pending.Contract,
		"address", address.Hex(),
		"block", receipt.BlockNumber.Uint64(),
		"gas_used", receipt.GasUsed,
	)

	return &deploy.Deployment{
		Contract:    pending.Contract,
		Address:     address,
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}, nil
}
