package keytab

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

type ktBuilder struct {
	buf bytes.Buffer
}

func (b *ktBuilder) u8(v uint8)    { b.buf.WriteByte(v) }
func (b *ktBuilder) u16(v uint16)  { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *ktBuilder) i32(v int32)   { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *ktBuilder) u32(v uint32)  { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *ktBuilder) data16(v []byte) {
	b.u16(uint16(len(v)))
	b.buf.Write(v)
}

// v2EntryBytes returns the bytes of one version-2 keytab record body (without
// the leading 32-bit size), so tests can compute its true size and pad it
// into a hole of a different declared size.
func v2EntryBytes(realm string, components []string, timestamp uint32, vno8 uint8, etype int32, key []byte, vno32 uint32) []byte {
	var b ktBuilder
	b.u16(uint16(len(components)))
	b.data16([]byte(realm))
	for _, c := range components {
		b.data16([]byte(c))
	}
	b.i32(nametype.KRB_NT_PRINCIPAL)
	b.u32(timestamp)
	b.u8(vno8)
	b.u16(uint16(etype))
	b.data16(key)
	if vno32 != 0 {
		b.u32(vno32)
	}
	return b.buf.Bytes()
}

func writeKeytab(t *testing.T, records func(*ktBuilder)) string {
	t.Helper()
	var b ktBuilder
	b.u8(keytabMagic)
	b.u8(2)
	records(&b)
	dir := t.TempDir()
	p := filepath.Join(dir, "krb5.keytab")
	require.NoError(t, os.WriteFile(p, b.buf.Bytes(), 0o600))
	return p
}

func TestKeytabFileLiveEntry(t *testing.T) {
	rec := v2EntryBytes("EXAMPLE.COM", []string{"host", "foo.example.com"}, 12345, 3, 18, []byte{1, 2, 3, 4}, 0)
	path := writeKeytab(t, func(b *ktBuilder) {
		b.i32(int32(len(rec)))
		b.buf.Write(rec)
	})

	ctx, err := krb5ctx.Init()
	require.NoError(t, err)
	kt, err := Resolve("FILE:" + path)
	require.NoError(t, err)

	it, err := kt.Entries(ctx)
	require.NoError(t, err)
	defer it.Close()

	e, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "foo.example.com"}, e.Principal.Components)
	assert.Equal(t, "EXAMPLE.COM", e.Principal.Realm)
	assert.Equal(t, uint32(12345), e.Timestamp)
	assert.Equal(t, uint32(3), e.Vno)
	assert.Equal(t, int32(18), e.Key.EType)

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestKeytabFileVno32Override(t *testing.T) {
	rec := v2EntryBytes("EXAMPLE.COM", []string{"alice"}, 1, 255, 18, []byte{9}, 1000)
	path := writeKeytab(t, func(b *ktBuilder) {
		b.i32(int32(len(rec)))
		b.buf.Write(rec)
	})
	ctx, _ := krb5ctx.Init()
	kt, err := Resolve("FILE:" + path)
	require.NoError(t, err)
	it, err := kt.Entries(ctx)
	require.NoError(t, err)
	defer it.Close()

	e, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), e.Vno) // 32-bit override wins over 8-bit 255
}

func TestKeytabFileHoleRecycledSmallerEntry(t *testing.T) {
	rec := v2EntryBytes("EXAMPLE.COM", []string{"alice"}, 1, 1, 18, []byte{9}, 0)
	// declared size is larger than the actual record: simulates a live
	// entry that reused a larger hole and left trailing garbage.
	declaredSize := len(rec) + 8
	path := writeKeytab(t, func(b *ktBuilder) {
		b.i32(int32(declaredSize))
		b.buf.Write(rec)
		b.buf.Write(make([]byte, 8)) // leftover hole padding
	})
	ctx, _ := krb5ctx.Init()
	kt, err := Resolve("FILE:" + path)
	require.NoError(t, err)
	it, err := kt.Entries(ctx)
	require.NoError(t, err)
	defer it.Close()

	e, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, e.Principal.Components)

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestKeytabFileHoleSkipped(t *testing.T) {
	rec := v2EntryBytes("EXAMPLE.COM", []string{"bob"}, 1, 1, 18, nil, 0)
	path := writeKeytab(t, func(b *ktBuilder) {
		// a hole: negative size, 6 bytes of garbage to skip
		b.i32(-6)
		b.buf.Write(make([]byte, 6))
		// then a live entry
		b.i32(int32(len(rec)))
		b.buf.Write(rec)
	})
	ctx, _ := krb5ctx.Init()
	kt, err := Resolve("FILE:" + path)
	require.NoError(t, err)
	it, err := kt.Entries(ctx)
	require.NoError(t, err)
	defer it.Close()

	e, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, e.Principal.Components)

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestKeytabFileZeroSizeIsEOF(t *testing.T) {
	path := writeKeytab(t, func(b *ktBuilder) {
		b.i32(0)
	})
	ctx, _ := krb5ctx.Init()
	kt, err := Resolve("FILE:" + path)
	require.NoError(t, err)
	it, err := kt.Entries(ctx)
	require.NoError(t, err)
	defer it.Close()

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestKeytabBadMagic(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.keytab")
	require.NoError(t, os.WriteFile(p, []byte{0x01, 0x02}, 0o600))
	ctx, _ := krb5ctx.Init()
	kt, err := Resolve("FILE:" + p)
	require.NoError(t, err)
	_, err = kt.Entries(ctx)
	assert.Error(t, err)
}
