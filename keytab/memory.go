package keytab

import (
	"io"
	"sync"

	"github.com/jcmturner/krb5view/krb5ctx"
	"github.com/jcmturner/krb5view/types"
)

// memoryKeytab is a process-wide named keytab registry entry, empty by
// default since this core never writes keytabs.
type memoryKeytab struct {
	mu      sync.Mutex
	name    string
	entries []types.KeytabEntry
}

var (
	registryMu sync.Mutex
	registry   = map[string]*memoryKeytab{}
)

func resolveMemory(name string) *memoryKeytab {
	registryMu.Lock()
	defer registryMu.Unlock()
	mk, ok := registry[name]
	if !ok {
		mk = &memoryKeytab{name: name}
		registry[name] = mk
	}
	return mk
}

func (m *memoryKeytab) FullName() string { return "MEMORY:" + m.name }

type memoryIterator struct {
	entries []types.KeytabEntry
	pos     int
}

func (m *memoryKeytab) Entries(ctx *krb5ctx.Context) (EntryIterator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]types.KeytabEntry, len(m.entries))
	copy(entries, m.entries)
	return &memoryIterator{entries: entries}, nil
}

func (it *memoryIterator) Next() (types.KeytabEntry, error) {
	if it.pos >= len(it.entries) {
		return types.KeytabEntry{}, io.EOF
	}
	e := it.entries[it.pos]
	it.pos++
	return e, nil
}

func (it *memoryIterator) Close() error {
	it.pos = len(it.entries)
	return nil
}
