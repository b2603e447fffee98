package keytab

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/jcmturner/krb5view/iana/nametype"
	"github.com/jcmturner/krb5view/internal/wire"
	"github.com/jcmturner/krb5view/krb5ctx"
	"github.com/jcmturner/krb5view/krb5err"
	"github.com/jcmturner/krb5view/types"
)

const keytabMagic = 0x05

type fileBackend struct {
	path string
}

func newFileBackend(path string) *fileBackend { return &fileBackend{path: path} }

func (f *fileBackend) FullName() string { return "FILE:" + f.path }

func (f *fileBackend) Entries(ctx *krb5ctx.Context) (EntryIterator, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, krb5err.Wrap(krb5err.KTFormat, err, "opening keytab %q", f.path)
	}
	if len(b) < 2 || b[0] != keytabMagic {
		return nil, krb5err.New(krb5err.KTFormat, "%q is not a keytab file", f.path)
	}
	version := b[1]
	var order binary.ByteOrder
	switch version {
	case 1:
		order = binary.NativeEndian
	case 2:
		order = binary.BigEndian
	default:
		return nil, krb5err.New(krb5err.KTBadVersion, "keytab version %d out of range", version)
	}
	return &fileIterator{path: f.path, cur: wire.New(b[2:], order), version: version}, nil
}

type fileIterator struct {
	path    string
	cur     *wire.Cursor
	version uint8
	done    bool
}

func (it *fileIterator) Next() (types.KeytabEntry, error) {
	for {
		if it.done {
			return types.KeytabEntry{}, io.EOF
		}
		if it.cur.Len() < 4 {
			it.done = true
			return types.KeytabEntry{}, io.EOF
		}
		size := it.cur.I32()
		if it.cur.Err() != nil {
			it.done = true
			return types.KeytabEntry{}, krb5err.Wrap(krb5err.KTFormat, it.cur.Err(), "reading record size in %q", it.path)
		}
		if size == math.MinInt32 {
			it.done = true
			return types.KeytabEntry{}, krb5err.New(krb5err.KTFormat, "keytab %q has a record of size INT32_MIN", it.path)
		}
		if size == 0 {
			it.done = true
			return types.KeytabEntry{}, io.EOF
		}
		if size < 0 {
			it.cur.SeekTo(it.cur.Pos() + int(-size))
			if it.cur.Err() != nil {
				it.done = true
				return types.KeytabEntry{}, krb5err.Wrap(krb5err.KTFormat, it.cur.Err(), "skipping hole in %q", it.path)
			}
			continue
		}
		start := it.cur.Pos()
		entry := readEntry(it.cur, it.version, int(size))
		if it.cur.Err() != nil {
			it.done = true
			return types.KeytabEntry{}, krb5err.Wrap(krb5err.KTFormat, it.cur.Err(), "reading keytab entry in %q", it.path)
		}
		it.cur.SeekTo(start + int(size))
		if it.cur.Err() != nil {
			it.done = true
			return types.KeytabEntry{}, krb5err.Wrap(krb5err.KTFormat, it.cur.Err(), "skipping to end of record in %q", it.path)
		}
		return entry, nil
	}
}

func (it *fileIterator) Close() error {
	it.done = true
	return nil
}

// readEntry decodes a live keytab record: principal, timestamp, 8-bit
// vno, keyblock, and an optional trailing 32-bit vno that overrides the
// 8-bit one when nonzero. size is the record's declared byte size; the
// 32-bit vno is only read if at least 4 bytes remain within it, since a
// record recycled from a larger hole may legitimately end early.
func readEntry(c *wire.Cursor, version uint8, size int) types.KeytabEntry {
	start := c.Pos()
	princ := readPrincipal(c, version)
	timestamp := c.U32()
	vno8 := c.U8()
	key := types.KeyBlock{EType: int32(c.I16()), Contents: c.Data16()}

	vno := uint32(vno8)
	remaining := size - (c.Pos() - start)
	if remaining >= 4 {
		vno32 := c.U32()
		if vno32 != 0 {
			vno = vno32
		}
	}

	return types.KeytabEntry{Principal: princ, Timestamp: timestamp, Vno: vno, Key: key}
}

func readPrincipal(c *wire.Cursor, version uint8) types.Principal {
	n := int(c.U16())
	if version == 1 {
		n--
	}
	realm := string(c.Data16())
	components := make([]string, 0, n)
	for i := 0; i < n; i++ {
		components = append(components, string(c.Data16()))
	}
	nt := int32(nametype.KRB_NT_UNKNOWN)
	if version != 1 {
		nt = c.I32()
	}
	return types.Principal{Components: components, Realm: realm, NameType: nt}
}
