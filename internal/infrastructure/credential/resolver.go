package credential

import (
	"fmt"

	"github.com/altuslabsxyz/deployer/internal/domain/credential"
)

// =============================================================================
// Credential Resolver
// =============================================================================
// Each reference names its source explicitly, so the resolver dispatches to
// exactly one store instead of searching a chain. Literal keys from the config
// file are passed through with a security warning.

// SourceResolver resolves references against one store per source.
type SourceResolver struct {
	stores map[credential.Source]credential.Store
}

// NewSourceResolver creates a resolver over the system keychain and the environment.
func NewSourceResolver() *SourceResolver {
	return NewSourceResolverWithStores(NewKeychainStore(), NewEnvironmentStore())
}

// NewSourceResolverWithStores creates a resolver with custom stores.
func NewSourceResolverWithStores(stores ...credential.Store) *SourceResolver {
	r := &SourceResolver{stores: make(map[credential.Source]credential.Store, len(stores))}
	for _, store := range stores {
		r.stores[store.Source()] = store
	}
	return r
}

// Resolve returns the credential the reference points at.
func (r *SourceResolver) Resolve(ref credential.Reference) (*credential.Credential, error) {
	if ref.Source == credential.SourceConfigFile {
		return &credential.Credential{Ref: ref, Value: ref.Name, Source: credential.SourceConfigFile}, nil
	}

	store, ok := r.stores[ref.Source]
	if !ok || !store.IsAvailable() {
		return nil, fmt.Errorf("%s: %w", ref, credential.ErrStorageUnavailable)
	}

	cred, err := store.Get(ref.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	return cred, nil
}

// ResolveWithWarning resolves and returns a security warning if applicable.
func (r *SourceResolver) ResolveWithWarning(ref credential.Reference) (*credential.Credential, string, error) {
	cred, err := r.Resolve(ref)
	if err != nil {
		return nil, "", err
	}

	var warning string
	switch cred.Source {
	case credential.SourceConfigFile:
		warning = `Security Warning: a private key is stored in the config file (plaintext).
Move it to the system keychain and reference it instead:
  deployer credential set <name>
  accounts = ["keychain:<name>"]`
	case credential.SourceEnvironment:
		if r.hasKeychain() {
			warning = fmt.Sprintf(`Tip: For enhanced security, store %s in system keychain:
  deployer credential set %s`, ref.Name, ref.Name)
		}
	}

	return cred, warning, nil
}

func (r *SourceResolver) hasKeychain() bool {
	store, ok := r.stores[credential.SourceKeychain]
	return ok && store.IsAvailable()
}

// Ensure SourceResolver implements Resolver interface.
var _ credential.Resolver = (*SourceResolver)(nil)
