// Package keytab implements the keytab engine: backend dispatch between
// FILE/WRFILE and MEMORY stores, default-name resolution, and the
// hole-aware on-disk FILE format (versions 1-2) byte-level reader.
package keytab

import (
	"github.com/jcmturner/krb5view/krb5ctx"
	"github.com/jcmturner/krb5view/krb5err"
	"github.com/jcmturner/krb5view/types"
)

type backendName string

const (
	BackendFile   backendName = "FILE"
	BackendWRFile backendName = "WRFILE"
	BackendMemory backendName = "MEMORY"
)

// EntryIterator yields keytab entries lazily, in file order, with no
// ordering guarantee beyond that; an error aborts the remaining stream.
type EntryIterator interface {
	Next() (types.KeytabEntry, error)
	Close() error
}

type backend interface {
	FullName() string
	Entries(ctx *krb5ctx.Context) (EntryIterator, error)
}

// Keytab is a handle to a named keytab, FILE/WRFILE- or MEMORY-backed.
type Keytab struct {
	Type backendName
	b    backend
}

func (k *Keytab) FullName() string { return k.b.FullName() }

// GetName returns "{type}:{name}", failing with KTNameTooLong if it
// exceeds limit (mirroring the native krb5_kt_get_name buffer-size
// contract).
func (k *Keytab) GetName(limit int) (string, error) {
	n := k.FullName()
	if limit > 0 && len(n) > limit {
		return "", krb5err.New(krb5err.KTNameTooLong, "keytab name %q exceeds %d bytes", n, limit)
	}
	return n, nil
}

func (k *Keytab) Entries(ctx *krb5ctx.Context) (EntryIterator, error) {
	return k.b.Entries(ctx)
}
