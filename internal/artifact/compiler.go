package artifact

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-version"
)

// ErrCompilerMismatch means the artifact was built by a different solc than configured.
var ErrCompilerMismatch = errors.New("compiler version mismatch")

// CheckCompilerVersion compares the artifact's solc version with the
// configured one. Artifacts without build info pass.
func CheckCompilerVersion(a *Artifact, configured string) error {
	if a.SolcVersion == "" {
		return nil
	}

	want, err := version.NewVersion(configured)
	if err != nil {
		return fmt.Errorf("invalid configured solidity version %q: %w", configured, err)
	}
	got, err := version.NewVersion(a.SolcVersion)
	if err != nil {
		return fmt.Errorf("invalid solc version %q in build info: %w", a.SolcVersion, err)
	}

	// Compare release segments only; build metadata like "+commit.c7dfd78e" is ignored.
	if want.Core().Equal(got.Core()) {
		return nil
	}
	return fmt.Errorf("%w: %s was compiled with solc %s, config declares %s",
		ErrCompilerMismatch, a.FullyQualifiedName(), got.Core(), want.Core())
}
