package commands

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/altuslabsxyz/deployer/internal/config"
	"github.com/altuslabsxyz/deployer/internal/domain/common"
	"github.com/altuslabsxyz/deployer/internal/domain/credential"
	infracred "github.com/altuslabsxyz/deployer/internal/infrastructure/credential"
	"github.com/altuslabsxyz/deployer/internal/output"
)

// =============================================================================
// Credential Helper (Presentation Layer)
// =============================================================================
// Turns the accounts references of a network into signing keys. Resolution
// failures carry a hint telling the user how to provide the missing key.

// newResolver creates the resolver used by commands. Tests replace it.
var newResolver = func() credential.Resolver {
	return infracred.NewSourceResolver()
}

// resolveSigningKey resolves the first account of network; it signs deployments.
func resolveSigningKey(network config.NetworkConfig, logger output.LoggerInterface) (*ecdsa.PrivateKey, error) {
	if len(network.Accounts) == 0 {
		return nil, fmt.Errorf("network %q has no accounts", network.Name)
	}
	creds, err := resolveCredentials(network.Accounts[:1], logger)
	if err != nil {
		return nil, err
	}
	return creds[0].PrivateKey()
}

// resolveCredentials resolves every reference in refs, in order, and checks
// that each value is a usable private key.
func resolveCredentials(refs []string, logger output.LoggerInterface) ([]*credential.Credential, error) {
	resolver := newResolver()
	creds := make([]*credential.Credential, 0, len(refs))

	for _, raw := range refs {
		ref, err := credential.ParseReference(raw)
		if err != nil {
			return nil, err
		}

		cred, warning, err := resolver.ResolveWithWarning(ref)
		if err != nil {
			return nil, withCredentialHint(ref, err)
		}
		if warning != "" && (alwaysWarn(cred.Source) || logger.IsVerbose()) {
			logger.Warn("%s", warning)
		}

		if _, err := cred.PrivateKey(); err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		creds = append(creds, cred)
	}

	return creds, nil
}

// alwaysWarn reports whether warnings for source are shown outside verbose
// mode. Only plaintext keys from the config file qualify.
func alwaysWarn(source credential.Source) bool {
	return source.SecurityLevel() <= credential.SourceConfigFile.SecurityLevel()
}

func withCredentialHint(ref credential.Reference, err error) error {
	switch {
	case ref.Source == credential.SourceEnvironment && errors.Is(err, credential.ErrCredentialNotFound):
		return common.WithHint(err, fmt.Sprintf("export %s=<hex private key>", ref.Name))
	case ref.Source == credential.SourceKeychain && errors.Is(err, credential.ErrCredentialNotFound):
		return common.WithHint(err, fmt.Sprintf("store the key with: deployer credential set %s", ref.Name))
	case ref.Source == credential.SourceKeychain && errors.Is(err, credential.ErrStorageUnavailable):
		return common.WithHint(err, "no system keychain is available; use an env: reference instead")
	default:
		return err
	}
}
