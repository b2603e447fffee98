package credentials

import (
	"os"

	"github.com/jcmturner/krb5view/krb5ctx"
)

// CredentialCachesIter yields every cache reachable through the default-
// name discipline, one per backend, backend order fixed as FILE then
// MEMORY. At most one cache is yielded per backend.
func CredentialCachesIter(ctx *krb5ctx.Context) ([]*CredentialCache, error) {
	name, err := DefaultName(ctx)
	if err != nil {
		return nil, err
	}
	t, residual := splitTypeAndResidual(name)

	var out []*CredentialCache

	// FILE: the lone candidate is the resolved default name iff it
	// names (explicitly or implicitly) a FILE cache and that file
	// exists.
	if t == BackendFile {
		if _, err := os.Stat(residual); err == nil {
			out = append(out, &CredentialCache{Type: BackendFile, b: newFileBackend(residual)})
		}
	}

	// MEMORY: only if the resolved default name explicitly names a
	// MEMORY cache.
	if t == BackendMemory {
		out = append(out, &CredentialCache{Type: BackendMemory, b: resolveMemory(residual)})
	}

	return out, nil
}
