package credentials

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/jcmturner/krb5view/iana/nametype"
	"github.com/jcmturner/krb5view/internal/logging"
	"github.com/jcmturner/krb5view/internal/wire"
	"github.com/jcmturner/krb5view/krb5ctx"
	"github.com/jcmturner/krb5view/krb5err"
	"github.com/jcmturner/krb5view/types"
)

const (
	ccacheMagic       = 0x05
	kdcOffsetHeaderTag = 1
)

type fileBackend struct {
	path string
}

func newFileBackend(path string) *fileBackend { return &fileBackend{path: path} }

func (f *fileBackend) FullName() string { return "FILE:" + f.path }

// open returns the parsed version and a cursor, set to the file's byte
// order, positioned just after the V4 tagged header (or right after the
// version byte for V1-V3, which carry no header).
func (f *fileBackend) open(ctx *krb5ctx.Context) (*wire.Cursor, uint8, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, 0, krb5err.Wrap(krb5err.CCFormat, err, "opening credential cache %q", f.path)
	}
	if len(b) < 2 || b[0] != ccacheMagic {
		return nil, 0, krb5err.New(krb5err.CCFormat, "%q is not a credential cache file", f.path)
	}
	version := b[1]
	if version < 1 || version > 4 {
		return nil, 0, krb5err.New(krb5err.CCacheBadVersion, "credential cache version %d out of range", version)
	}
	order := binary.ByteOrder(binary.BigEndian)
	if version == 1 || version == 2 {
		order = binary.NativeEndian
	}
	c := wire.New(b[2:], order)
	if version == 4 {
		if err := readV4Header(c, ctx); err != nil {
			return nil, 0, err
		}
	}
	return c, version, nil
}

// readV4Header parses the 16-bit length followed by tag/length/value
// records. Unknown tags are skipped by their declared length; a DELTATIME
// tag (1) of length 8 carries (time_offset, usec_offset) and is
// installed into ctx when SYNC_KDCTIME is enabled and no offset is
// already valid.
func readV4Header(c *wire.Cursor, ctx *krb5ctx.Context) error {
	totalLen := int(c.U16())
	end := c.Pos() + totalLen
	for c.Pos() < end {
		tag := c.U16()
		length := int(c.U16())
		if c.Err() != nil {
			return krb5err.Wrap(krb5err.CCFormat, c.Err(), "reading credential cache header")
		}
		val := c.Bytes(length)
		if c.Err() != nil {
			return krb5err.Wrap(krb5err.CCFormat, c.Err(), "reading credential cache header field")
		}
		switch tag {
		case kdcOffsetHeaderTag:
			if length != 8 {
				return krb5err.New(krb5err.CCFormat, "DELTATIME header field has length %d, want 8", length)
			}
			sec := int32(binary.BigEndian.Uint32(val[0:4]))
			usec := int32(binary.BigEndian.Uint32(val[4:8]))
			ctx.InstallKDCTimeOffset(sec, usec)
		default:
			logging.Debug("skipping unknown credential cache header tag", "tag", tag, "length", length)
		}
	}
	if c.Pos() != end {
		return krb5err.New(krb5err.CCFormat, "credential cache header field overran declared length")
	}
	return nil
}

// readPrincipal parses the principal grammar shared by credential-cache
// default-principal, client and server fields: an optional (V>=2)
// nameType, a component count (V1 includes the realm in that count), the
// realm, then that many length-prefixed components.
func readPrincipal(c *wire.Cursor, version uint8) types.Principal {
	nt := int32(nametype.KRB_NT_UNKNOWN)
	if version != 1 {
		nt = c.I32()
	}
	n := int(c.I32())
	if version == 1 {
		n--
	}
	realm := string(c.Data())
	components := make([]string, 0, n)
	for i := 0; i < n; i++ {
		components = append(components, string(c.Data()))
	}
	logging.Debug("decoded ccache principal", "realm", realm, "nametype", nametype.NameTypeString(nt))
	return types.Principal{Components: components, Realm: realm, NameType: nt}
}

func readKeyBlock(c *wire.Cursor, version uint8) types.KeyBlock {
	et := int32(c.I16())
	if version == 3 {
		// V3 repeats the enctype as a second u16, which is ignored.
		c.I16()
	}
	return types.KeyBlock{EType: et, Contents: c.Data()}
}

func readAddresses(c *wire.Cursor) []types.HostAddress {
	n := int(c.U32())
	out := make([]types.HostAddress, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, types.HostAddress{AddrType: c.U16(), Contents: c.Data()})
	}
	return out
}

func readAuthData(c *wire.Cursor) []types.AuthDataEntry {
	n := int(c.U32())
	out := make([]types.AuthDataEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, types.AuthDataEntry{ADType: c.U16(), Contents: c.Data()})
	}
	return out
}

func readCredential(c *wire.Cursor, version uint8) types.Credential {
	var cred types.Credential
	cred.Client = readPrincipal(c, version)
	cred.Server = readPrincipal(c, version)
	cred.Key = readKeyBlock(c, version)
	cred.Times.AuthTime = c.I32()
	cred.Times.StartTime = c.I32()
	cred.Times.EndTime = c.U32()
	cred.Times.RenewTill = c.U32()
	cred.IsSKey = c.U8() != 0
	cred.TicketFlags = c.I32()
	cred.Addresses = readAddresses(c)
	cred.AuthData = readAuthData(c)
	cred.Ticket = c.Data()
	cred.SecondTicket = c.Data()
	return cred
}

func (f *fileBackend) GetDefaultPrincipal(ctx *krb5ctx.Context) (types.Principal, error) {
	c, version, err := f.open(ctx)
	if err != nil {
		return types.Principal{}, err
	}
	p := readPrincipal(c, version)
	if c.Err() != nil {
		return types.Principal{}, krb5err.Wrap(krb5err.CCFormat, c.Err(), "reading default principal of %q", f.path)
	}
	return p, nil
}

// fileIterator streams credential records out of an already-loaded
// buffer. Reading the whole file up front (rather than keeping an open
// os.File) matches the on-disk ccache's typical size and means Close has
// no OS resource to release; it still exposes a single-pass, lazy-per-
// record API so a short read mid-record aborts the remaining stream.
type fileIterator struct {
	path    string
	cur     *wire.Cursor
	version uint8
	done    bool
}

func (f *fileBackend) Iterate(ctx *krb5ctx.Context) (Iterator, error) {
	c, version, err := f.open(ctx)
	if err != nil {
		return nil, err
	}
	// Skip the default principal; credentials follow it.
	readPrincipal(c, version)
	if c.Err() != nil {
		return nil, krb5err.Wrap(krb5err.CCFormat, c.Err(), "reading default principal of %q", f.path)
	}
	return &fileIterator{path: f.path, cur: c, version: version}, nil
}

func (it *fileIterator) Next() (types.Credential, error) {
	for {
		if it.done {
			return types.Credential{}, io.EOF
		}
		if it.cur.AtEOF() {
			it.done = true
			return types.Credential{}, io.EOF
		}
		cred := readCredential(it.cur, it.version)
		if it.cur.Err() != nil {
			it.done = true
			return types.Credential{}, krb5err.Wrap(krb5err.CCFormat, it.cur.Err(), "reading credential record in %q", it.path)
		}
		if cred.IsRemoved() {
			continue
		}
		return cred, nil
	}
}

func (it *fileIterator) Close() error {
	it.done = true
	return nil
}
