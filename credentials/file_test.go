package credentials

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jcmturner/krb5view/iana/nametype"
	"github.com/jcmturner/krb5view/krb5ctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ccacheBuilder assembles a V4 credential cache file byte-for-byte, the
// same grammar this package's fileBackend reads.
type ccacheBuilder struct {
	buf bytes.Buffer
}

func (b *ccacheBuilder) u8(v uint8)   { b.buf.WriteByte(v) }
func (b *ccacheBuilder) u16(v uint16) { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *ccacheBuilder) i32(v int32)  { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *ccacheBuilder) u32(v uint32) { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *ccacheBuilder) data(v []byte) {
	b.u32(uint32(len(v)))
	b.buf.Write(v)
}
func (b *ccacheBuilder) str(s string) { b.data([]byte(s)) }

func (b *ccacheBuilder) principal(nt int32, realm string, components []string) {
	b.i32(nt)
	b.i32(int32(len(components)))
	b.str(realm)
	for _, c := range components {
		b.str(c)
	}
}

func writeV4Ccache(t *testing.T, defaultRealm string, defaultComponents []string, credEntries func(b *ccacheBuilder)) string {
	t.Helper()
	var b ccacheBuilder
	b.u8(0x05)
	b.u8(0x04)
	b.u16(0) // empty header (totalLen 0)
	b.principal(nametype.KRB_NT_PRINCIPAL, defaultRealm, defaultComponents)
	credEntries(&b)

	dir := t.TempDir()
	p := filepath.Join(dir, "krb5cc_test")
	require.NoError(t, os.WriteFile(p, b.buf.Bytes(), 0o600))
	return p
}

func TestFileBackendDefaultPrincipalAndIteration(t *testing.T) {
	path := writeV4Ccache(t, "EXAMPLE.COM", []string{"alice"}, func(b *ccacheBuilder) {
		b.principal(nametype.KRB_NT_SRV_INST, "EXAMPLE.COM", []string{"krbtgt", "EXAMPLE.COM"}) // client
		b.principal(nametype.KRB_NT_SRV_INST, "EXAMPLE.COM", []string{"krbtgt", "EXAMPLE.COM"}) // server
		b.u16(18)
		b.data([]byte{0x01, 0x02, 0x03, 0x04})
		b.i32(1000)
		b.i32(1000)
		b.u32(2000)
		b.u32(3000)
		b.u8(0)
		b.i32(0x40000000) // forwardable
		b.u32(0)
		b.u32(0)
		b.data([]byte{0xAA, 0xBB})
		b.data(nil)
	})

	cache, err := Resolve("FILE:" + path)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cache.Type)
	assert.Equal(t, "FILE:"+path, cache.FullName())

	ctx, err := krb5ctx.Init()
	require.NoError(t, err)

	p, err := cache.GetPrincipal(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, p.Components)
	assert.Equal(t, "EXAMPLE.COM", p.Realm)

	it, err := cache.Credentials(ctx)
	require.NoError(t, err)
	defer it.Close()

	cred, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"krbtgt", "EXAMPLE.COM"}, cred.Server.Components)
	assert.Equal(t, int32(18), cred.Key.EType)
	assert.Equal(t, uint32(2000), cred.Times.EndTime)
	assert.Equal(t, int32(0x40000000), cred.TicketFlags)

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestFileBackendSkipsRemovedCredential(t *testing.T) {
	path := writeV4Ccache(t, "EXAMPLE.COM", []string{"alice"}, func(b *ccacheBuilder) {
		// removed: endtime==0, authtime==-1
		b.principal(nametype.KRB_NT_PRINCIPAL, "EXAMPLE.COM", []string{"alice"})
		b.principal(nametype.KRB_NT_PRINCIPAL, "EXAMPLE.COM", []string{"host", "foo"})
		b.u16(18)
		b.data(nil)
		b.i32(-1)
		b.i32(0)
		b.u32(0)
		b.u32(0)
		b.u8(0)
		b.i32(0)
		b.u32(0)
		b.u32(0)
		b.data(nil)
		b.data(nil)

		// live entry
		b.principal(nametype.KRB_NT_PRINCIPAL, "EXAMPLE.COM", []string{"alice"})
		b.principal(nametype.KRB_NT_PRINCIPAL, "EXAMPLE.COM", []string{"host", "bar"})
		b.u16(18)
		b.data(nil)
		b.i32(100)
		b.i32(100)
		b.u32(200)
		b.u32(300)
		b.u8(0)
		b.i32(0)
		b.u32(0)
		b.u32(0)
		b.data(nil)
		b.data(nil)
	})

	cache, err := Resolve("FILE:" + path)
	require.NoError(t, err)
	ctx, err := krb5ctx.Init()
	require.NoError(t, err)

	it, err := cache.Credentials(ctx)
	require.NoError(t, err)
	defer it.Close()

	cred, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "bar"}, cred.Server.Components)

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestResolveSplitsTypeAndResidual(t *testing.T) {
	c, err := Resolve("MEMORY:foo")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, c.Type)
	assert.Equal(t, "MEMORY:foo", c.FullName())
}

func TestResolveUnknownType(t *testing.T) {
	_, err := Resolve("BOGUS:foo")
	assert.Error(t, err)
}

func TestResolveDriveLetterHeuristic(t *testing.T) {
	c, err := Resolve("C:/tmp/krb5cc")
	require.NoError(t, err)
	assert.Equal(t, BackendFile, c.Type)
}
