package deploy

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincommon "github.com/altuslabsxyz/deployer/internal/domain/common"
	"github.com/altuslabsxyz/deployer/internal/output"
)

var testAddress = common.HexToAddress("0xABC1230000000000000000000000000000000001")

// mockFacility records calls and fails at the configured step.
type mockFacility struct {
	deployErr error
	waitErr   error

	deployCalls []string
	waitCalls   int
}

func (m *mockFacility) DeployContract(ctx context.Context, name string) (*Pending, error) {
	m.deployCalls = append(m.deployCalls, name)
	if m.deployErr != nil {
		return nil, m.deployErr
	}
	return &Pending{
		Contract: name,
		Address:  testAddress,
		TxHash:   common.HexToHash("0x01"),
	}, nil
}

func (m *mockFacility) WaitForDeployment(ctx context.Context, p *Pending) (*Deployment, error) {
	m.waitCalls++
	if m.waitErr != nil {
		return nil, m.waitErr
	}
	return &Deployment{
		Contract:    p.Contract,
		Address:     p.Address,
		TxHash:      p.TxHash,
		BlockNumber: 7,
		GasUsed:     53000,
	}, nil
}

func newTestReporter() (*Reporter, *output.Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	logger := output.NewLoggerWithWriters(&out, &errOut)
	logger.SetNoColor(true)
	return NewReporter(logger), logger, &out, &errOut
}

func TestRun_Success(t *testing.T) {
	f := &mockFacility{}
	reporter, _, out, errOut := newTestReporter()

	outcome := Run(context.Background(), f, DefaultContract, "sepolia")
	require.True(t, outcome.Succeeded())
	require.NotEmpty(t, outcome.RunID)

	code := reporter.Report(outcome)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"SocialMedia"}, f.deployCalls)
	assert.Equal(t, 1, f.waitCalls)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	require.True(t, strings.HasPrefix(lines[0], "SocialMedia deployed to: "))
	address := strings.TrimPrefix(lines[0], "SocialMedia deployed to: ")
	assert.NotEmpty(t, address)
	assert.Equal(t, testAddress.Hex(), address)
	assert.Empty(t, errOut.String())
}

func TestRun_FailureAtDeployRequest(t *testing.T) {
	f := &mockFacility{deployErr: errors.New("insufficient funds")}
	reporter, _, out, errOut := newTestReporter()

	outcome := Run(context.Background(), f, DefaultContract, "sepolia")
	code := reporter.Report(outcome)

	assert.Equal(t, 1, code)
	assert.Zero(t, f.waitCalls, "wait must not run after a failed request")
	assert.NotContains(t, out.String(), "deployed to")
	assert.Contains(t, errOut.String(), "insufficient funds")
	assert.ErrorIs(t, outcome.Err, ErrDeploymentFailed)
	assert.ErrorIs(t, outcome.Err, f.deployErr)
}

func TestRun_FailureAtConfirmation(t *testing.T) {
	f := &mockFacility{waitErr: errors.New("execution reverted")}
	reporter, _, out, errOut := newTestReporter()

	outcome := Run(context.Background(), f, DefaultContract, "sepolia")
	code := reporter.Report(outcome)

	assert.Equal(t, 1, code)
	assert.Equal(t, 1, f.waitCalls)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "execution reverted")
	assert.ErrorIs(t, outcome.Err, ErrDeploymentFailed)
}

func TestRun_EachRunIsNew(t *testing.T) {
	f := &mockFacility{}
	first := Run(context.Background(), f, DefaultContract, "sepolia")
	second := Run(context.Background(), f, DefaultContract, "sepolia")

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Len(t, f.deployCalls, 2)
}

func TestFail_ReportsHint(t *testing.T) {
	reporter, _, out, errOut := newTestReporter()

	err := domaincommon.WithHint(errors.New("env:DEPLOYER_PRIVATE_KEY: credential not found"), "export DEPLOYER_PRIVATE_KEY=<hex key>")
	code := reporter.Report(Fail(DefaultContract, "sepolia", err))

	assert.Equal(t, 1, code)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error: deployment failed: SocialMedia: env:DEPLOYER_PRIVATE_KEY: credential not found")
	assert.Contains(t, errOut.String(), "Hint: export DEPLOYER_PRIVATE_KEY=<hex key>")
}

func TestReport_JSONMode(t *testing.T) {
	reporter, logger, out, _ := newTestReporter()
	logger.SetJSONMode(true)

	outcome := Run(context.Background(), &mockFacility{}, DefaultContract, "sepolia")
	require.Equal(t, 0, reporter.Report(outcome))

	assert.Contains(t, out.String(), `"address": "`+testAddress.Hex()+`"`)
	assert.Contains(t, out.String(), `"network": "sepolia"`)
	assert.Contains(t, out.String(), `"block_number": 7`)
	assert.NotContains(t, out.String(), "deployed to")
}

func TestOutcome_ExitCode(t *testing.T) {
	assert.Equal(t, 1, Outcome{}.ExitCode())
	assert.Equal(t, 0, Outcome{Deployment: &Deployment{}}.ExitCode())
	assert.Equal(t, 1, Outcome{Deployment: &Deployment{}, Err: errors.New("x")}.ExitCode())
}
