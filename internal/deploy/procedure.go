package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrDeploymentFailed wraps every failure of a run.
var ErrDeploymentFailed = errors.New("deployment failed")

// Outcome is the typed result of a run: either Deployment or Err is set.
type Outcome struct {
	RunID      string
	Contract   string
	Network    string
	Deployment *Deployment
	Err        error
}

// Succeeded reports whether the run deployed a contract.
func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.Deployment != nil
}

// ExitCode maps the outcome to a process exit status.
func (o Outcome) ExitCode() int {
	if o.Succeeded() {
		return 0
	}
	return 1
}

// Run deploys contract through f and waits for confirmation. There are no
// retries; the first error ends the run.
func Run(ctx context.Context, f Facility, contract, network string) Outcome {
	out := Outcome{
		RunID:    uuid.NewString(),
		Contract: contract,
		Network:  network,
	}

	pending, err := f.DeployContract(ctx, contract)
	if err != nil {
		out.Err = fmt.Errorf("%w: %s: %w", ErrDeploymentFailed, contract, err)
		return out
	}

	deployment, err := f.WaitForDeployment(ctx, pending)
	if err != nil {
		out.Err = fmt.Errorf("%w: %s: %w", ErrDeploymentFailed, contract, err)
		return out
	}
	if deployment == nil {
		out.Err = fmt.Errorf("%w: %s: no deployment returned", ErrDeploymentFailed, contract)
		return out
	}

	out.Deployment = deployment
	return out
}

// Fail builds a failed outcome for errors raised before the facility ran
// (config, credentials, artifacts, connection).
func Fail(contract, network string, err error) Outcome {
	return Outcome{
		RunID:    uuid.NewString(),
		Contract: contract,
		Network:  network,
		Err:      fmt.Errorf("%w: %s: %w", ErrDeploymentFailed, contract, err),
	}
}
