package credentials

import (
	"io"
	"sync"

	"github.com/jcmturner/krb5view/krb5ctx"
	"github.com/jcmturner/krb5view/krb5err"
	"github.com/jcmturner/krb5view/types"
)

// memoryCache is the private state of one MEMORY-backed cache: a mutex-
// guarded slice of credentials plus an optional default principal and
// recorded KDC time offset. It is reference-counted only in the sense
// that the registry and every resolved handle share the same pointer;
// there is no explicit refcount to decrement since MEMORY caches persist
// for the process lifetime per the specification.
type memoryCache struct {
	mu               sync.Mutex
	name             string
	principal        types.Principal
	havePrincipal    bool
	credentials      []types.Credential
	haveTimeOffset   bool
	timeOffsetSec    int32
	timeOffsetUsec   int32
}

var (
	registryMu sync.Mutex
	registry   = map[string]*memoryCache{}
)

// resolveMemory returns the existing named MEMORY cache or creates an
// empty one, first-writer-wins. The registry lock is held only long
// enough to look up or insert; it is released before any per-object
// lock is acquired (lock order: map -> object, never the reverse).
func resolveMemory(name string) *memoryCache {
	registryMu.Lock()
	defer registryMu.Unlock()
	mc, ok := registry[name]
	if !ok {
		mc = &memoryCache{name: name}
		registry[name] = mc
	}
	return mc
}

func (m *memoryCache) FullName() string { return "MEMORY:" + m.name }

// GetDefaultPrincipal returns NoCCache if the cache has never had a
// principal set: a freshly created empty MEMORY cache cannot be listed
// (see DESIGN.md, preserved from the upstream design rather than
// fixed, per spec.md's Open Question).
func (m *memoryCache) GetDefaultPrincipal(ctx *krb5ctx.Context) (types.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.havePrincipal {
		return types.Principal{}, krb5err.New(krb5err.NoCCache, "MEMORY cache %q has no default principal", m.name)
	}
	if m.haveTimeOffset {
		ctx.SyncMemoryTimeOffset(m.timeOffsetSec, m.timeOffsetUsec)
	}
	return m.principal, nil
}

type memoryIterator struct {
	creds []types.Credential
	pos   int
}

func (m *memoryCache) Iterate(ctx *krb5ctx.Context) (Iterator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.haveTimeOffset {
		ctx.SyncMemoryTimeOffset(m.timeOffsetSec, m.timeOffsetUsec)
	}
	// Snapshot under the lock; the iterator itself then needs no further
	// synchronization since MEMORY credentials are only ever appended by
	// mutation operations this read-only core does not expose.
	creds := make([]types.Credential, 0, len(m.credentials))
	for _, c := range m.credentials {
		if c.IsRemoved() {
			continue
		}
		creds = append(creds, c)
	}
	return &memoryIterator{creds: creds}, nil
}

func (it *memoryIterator) Next() (types.Credential, error) {
	if it.pos >= len(it.creds) {
		return types.Credential{}, io.EOF
	}
	c := it.creds[it.pos]
	it.pos++
	return c, nil
}

func (it *memoryIterator) Close() error {
	it.pos = len(it.creds)
	return nil
}
