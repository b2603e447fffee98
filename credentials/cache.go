// Package credentials implements the credential-cache engine: backend
// dispatch between FILE and MEMORY stores, default-name resolution,
// cross-backend enumeration, and the on-disk FILE format (versions 1-4)
// byte-level reader.
package credentials

import (
	"github.com/jcmturner/krb5view/krb5ctx"
	"github.com/jcmturner/krb5view/types"
)

// backendName identifies a credential-cache backend.
type backendName string

const (
	BackendFile   backendName = "FILE"
	BackendMemory backendName = "MEMORY"
)

// Iterator yields non-removed credentials from a single cache, in
// on-disk order, lazily and single-pass. Close ends the iteration;
// iterators must be closed even after Next returns io.EOF. No file handle
// or lock is held while iterating: the FILE backend reads the whole file
// when Iterate is called, and the MEMORY backend copies its credentials
// under its lock before returning the iterator.
type Iterator interface {
	Next() (types.Credential, error)
	Close() error
}

// backend is the per-cache-type operation table. Exactly one concrete
// implementation exists per backendName; CredentialCache dispatches to
// it rather than using a type switch at every call site.
type backend interface {
	FullName() string
	GetDefaultPrincipal(ctx *krb5ctx.Context) (types.Principal, error)
	Iterate(ctx *krb5ctx.Context) (Iterator, error)
}

// CredentialCache is a handle to a named cache, FILE- or MEMORY-backed.
type CredentialCache struct {
	Type backendName
	b    backend
}

// FullName returns "{type}:{name}".
func (c *CredentialCache) FullName() string { return c.b.FullName() }

// GetPrincipal returns the cache's default (client) principal.
func (c *CredentialCache) GetPrincipal(ctx *krb5ctx.Context) (types.Principal, error) {
	return c.b.GetDefaultPrincipal(ctx)
}

// Credentials returns a lazy iterator over the cache's non-removed
// credential entries.
func (c *CredentialCache) Credentials(ctx *krb5ctx.Context) (Iterator, error) {
	return c.b.Iterate(ctx)
}
