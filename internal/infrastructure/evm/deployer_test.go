package evm

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/deployer/internal/artifact"
	"github.com/altuslabsxyz/deployer/internal/deploy"
)

const (
	// Deploys a runtime that returns 42.
	returns42Code = "0x600a600c600039600a6000f3602a60005260206000f3"
	// Returns empty runtime code.
	emptyRuntimeCode = "0x60006000f3"
	// Reverts in the constructor.
	revertingCode = "0x60006000fd"
)

type fakeArtifacts map[string]string

func (f fakeArtifacts) Load(name string) (*artifact.Artifact, error) {
	code, ok := f[name]
	if !ok {
		return nil, artifact.ErrNotFound
	}
	parsed, err := abi.JSON(strings.NewReader("[]"))
	if err != nil {
		return nil, err
	}
	return &artifact.Artifact{
		ContractName: name,
		SourceName:   "contracts/" + name + ".sol",
		ABI:          parsed,
		Bytecode:     hexutil.MustDecode(code),
	}, nil
}

func newSimulatedDeployer(t *testing.T, funded bool) (*Deployer, *simulated.Backend, *ecdsa.PrivateKey) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	alloc := types.GenesisAlloc{}
	if funded {
		balance := new(big.Int).Mul(big.NewInt(1e18), big.NewInt(100))
		alloc[crypto.PubkeyToAddress(key.PublicKey)] = types.Account{Balance: balance}
	}

	backend := simulated.NewBackend(alloc)
	t.Cleanup(func() { _ = backend.Close() })

	d, err := NewDeployer(context.Background(), DeployerConfig{
		Backend: backend.Client(),
		Artifacts: fakeArtifacts{
			"SocialMedia": returns42Code,
			"Empty":       emptyRuntimeCode,
			"Reverting":   revertingCode,
		},
		Key: key,
	})
	require.NoError(t, err)
	return d, backend, key
}

func TestDeployer_DeployAndWait(t *testing.T) {
	d, backend, key := newSimulatedDeployer(t, true)
	ctx := context.Background()

	pending, err := d.DeployContract(ctx, "SocialMedia")
	require.NoError(t, err)
	assert.Equal(t, crypto.CreateAddress(crypto.PubkeyToAddress(key.PublicKey), 0), pending.Address)
	assert.Equal(t, pending.Tx.Hash(), pending.TxHash)

	backend.Commit()

	deployment, err := d.WaitForDeployment(ctx, pending)
	require.NoError(t, err)
	assert.Equal(t, pending.Address, deployment.Address)
	assert.Equal(t, "SocialMedia", deployment.Contract)
	assert.Equal(t, uint64(1), deployment.BlockNumber)
	assert.NotZero(t, deployment.GasUsed)

	code, err := backend.Client().CodeAt(ctx, deployment.Address, nil)
	require.NoError(t, err)
	assert.Equal(t, hexutil.MustDecode("0x602a60005260206000f3"), code)
}

func TestDeployer_RunThroughProcedure(t *testing.T) {
	d, backend, _ := newSimulatedDeployer(t, true)

	// Mine the pending transaction as soon as it is submitted.
	facility := &committingFacility{Deployer: d, backend: backend}
	outcome := deploy.Run(context.Background(), facility, "SocialMedia", "simulated")

	require.NoError(t, outcome.Err)
	assert.Equal(t, 0, outcome.ExitCode())

	second := deploy.Run(context.Background(), facility, "SocialMedia", "simulated")
	require.NoError(t, second.Err)
	assert.NotEqual(t, outcome.Deployment.Address, second.Deployment.Address, "each run is a new deployment")
}

type committingFacility struct {
	*Deployer
	backend *simulated.Backend
}

func (f *committingFacility) DeployContract(ctx context.Context, name string) (*deploy.Pending, error) {
	p, err := f.Deployer.DeployContract(ctx, name)
	if err == nil {
		f.backend.Commit()
	}
	return p, err
}

func TestDeployer_EmptyRuntimeCode(t *testing.T) {
	d, backend, _ := newSimulatedDeployer(t, true)
	ctx := context.Background()

	pending, err := d.DeployContract(ctx, "Empty")
	require.NoError(t, err)
	backend.Commit()

	_, err = d.WaitForDeployment(ctx, pending)
	assert.ErrorIs(t, err, ErrNoCode)
}

func TestDeployer_RevertingConstructor(t *testing.T) {
	d, _, _ := newSimulatedDeployer(t, true)

	_, err := d.DeployContract(context.Background(), "Reverting")
	assert.Error(t, err)
}

func TestDeployer_UnfundedAccount(t *testing.T) {
	d, _, _ := newSimulatedDeployer(t, false)

	_, err := d.DeployContract(context.Background(), "SocialMedia")
	assert.Error(t, err)
}

func TestDeployer_MissingArtifact(t *testing.T) {
	d, _, _ := newSimulatedDeployer(t, true)

	_, err := d.DeployContract(context.Background(), "Missing")
	assert.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestDeployer_WaitCancelled(t *testing.T) {
	d, _, _ := newSimulatedDeployer(t, true)

	pending, err := d.DeployContract(context.Background(), "SocialMedia")
	require.NoError(t, err)

	// Never committed: the wait only ends through the context.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.WaitForDeployment(ctx, pending)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDeployer_ChainIDMismatch(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	backend := simulated.NewBackend(types.GenesisAlloc{})
	defer backend.Close()

	_, err = NewDeployer(context.Background(), DeployerConfig{
		Backend:         backend.Client(),
		Artifacts:       fakeArtifacts{},
		Key:             key,
		ExpectedChainID: 11155111,
	})
	assert.ErrorIs(t, err, ErrChainIDMismatch)
}

func TestNewDeployer_RequiresDependencies(t *testing.T) {
	_, err := NewDeployer(context.Background(), DeployerConfig{})
	assert.Error(t, err)
}
