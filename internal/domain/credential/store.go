// Package credential provides secure credential management interfaces.
package credential

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// =============================================================================
// Domain Interfaces
// =============================================================================
// Network configs never hold signing keys directly. They hold references that
// name where a key lives; the infrastructure layer implements the stores.

// Common errors for credential operations.
var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrStorageUnavailable = errors.New("credential storage unavailable")
	ErrInvalidCredential  = errors.New("invalid credential format")
	ErrInvalidReference   = errors.New("invalid credential reference")
)

// Source indicates where a credential was retrieved from.
type Source string

const (
	SourceKeychain    Source = "keychain"    // System keychain (most secure)
	SourceEnvironment Source = "env"         // Environment variable
	SourceConfigFile  Source = "config-file" // Plaintext literal in the config (least secure)
)

// SecurityLevel returns the security level of the source (higher is better).
func (s Source) SecurityLevel() int {
	switch s {
	case SourceKeychain:
		return 3
	case SourceEnvironment:
		return 2
	case SourceConfigFile:
		return 1
	default:
		return 0
	}
}

// Reference names a credential held by a store.
type Reference struct {
	Source Source
	// Name is the env variable or keychain entry. For SourceConfigFile it
	// holds the literal key itself.
	Name string
}

// ParseReference parses an accounts entry: "env:NAME", "keychain:NAME", or a
// plaintext key literal.
func ParseReference(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reference{}, fmt.Errorf("%w: empty", ErrInvalidReference)
	}

	prefix, name, found := strings.Cut(raw, ":")
	if !found {
		return Reference{Source: SourceConfigFile, Name: raw}, nil
	}

	switch Source(prefix) {
	case SourceEnvironment, SourceKeychain:
	default:
		return Reference{}, fmt.Errorf("%w: unknown source %q (use env: or keychain:)", ErrInvalidReference, prefix)
	}
	if name == "" {
		return Reference{}, fmt.Errorf("%w: %q has no name", ErrInvalidReference, raw)
	}
	return Reference{Source: Source(prefix), Name: name}, nil
}

// String returns the reference in config form. Literal keys are redacted.
func (r Reference) String() string {
	if r.Source == SourceConfigFile {
		return "<plaintext key>"
	}
	return string(r.Source) + ":" + r.Name
}

// Credential represents a resolved private key.
type Credential struct {
	Ref    Reference
	Value  string
	Source Source
}

// PrivateKey decodes the credential value.
func (c *Credential) PrivateKey() (*ecdsa.PrivateKey, error) {
	return ParsePrivateKey(c.Value)
}

// Address returns the account address controlled by the credential.
func (c *Credential) Address() (common.Address, error) {
	key, err := c.PrivateKey()
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// Store defines the interface for credential storage.
type Store interface {
	// Get retrieves a credential by name.
	// Returns ErrCredentialNotFound if not found.
	Get(name string) (*Credential, error)

	// Set stores a credential.
	// Returns ErrStorageUnavailable if storage is not writable.
	Set(name, value string) error

	// Delete removes a credential.
	Delete(name string) error

	// Source returns the storage source type.
	Source() Source

	// IsAvailable checks if this store is available on the current system.
	IsAvailable() bool
}

// Resolver resolves credential references to values.
type Resolver interface {
	// Resolve looks the reference up in the store for its source.
	Resolve(ref Reference) (*Credential, error)

	// ResolveWithWarning resolves and warns if using an insecure source.
	ResolveWithWarning(ref Reference) (*Credential, string, error)
}

// =============================================================================
// Validation Helpers
// =============================================================================

// ParsePrivateKey decodes a hex secp256k1 private key, with or without a 0x prefix.
func ParsePrivateKey(value string) (*ecdsa.PrivateKey, error) {
	hexKey := strings.TrimSpace(value)
	hexKey = strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X")
	if len(hexKey) != 64 {
		return nil, fmt.Errorf("%w: expected 64 hex characters, got %d", ErrInvalidCredential, len(hexKey))
	}

	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return key, nil
}

// ValidatePrivateKey checks that value decodes to a usable signing key.
func ValidatePrivateKey(value string) error {
	_, err := ParsePrivateKey(value)
	return err
}
