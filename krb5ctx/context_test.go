package krb5ctx

import (
	"fmt"
	"os"
	"testing"

	"github.com/jcmturner/krb5view/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, conf string) *Context {
	t.Helper()
	dir := t.TempDir()
	path := dir + "/krb5.conf"
	require.NoError(t, os.WriteFile(path, []byte(conf), 0o644))
	p, err := config.New([]string{path})
	require.NoError(t, err)
	return &Context{Profile: p, ClockSkew: 300, KDCDefaultOptions: 0x10, FCCDefaultFormat: 4 + 0x0500, LibraryOptions: LibOptSyncKDCTime}
}

func TestExpandPathTokensUID(t *testing.T) {
	got, err := ExpandPathTokens("FILE:/tmp/krb5cc_%{uid}")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FILE:/tmp/krb5cc_%d", os.Getuid()), got)
}

func TestExpandPathTokensUnknown(t *testing.T) {
	_, err := ExpandPathTokens("%{bogus}")
	assert.Error(t, err)
}

func TestExpandPathTokensUnterminated(t *testing.T) {
	_, err := ExpandPathTokens("foo%{bar")
	assert.Error(t, err)
}

func TestDefaultRealmResolvesAndCaches(t *testing.T) {
	c := newTestContext(t, "[libdefaults]\n\tdefault_realm = EXAMPLE.COM\n")
	r, err := c.DefaultRealm()
	require.NoError(t, err)
	assert.Equal(t, "EXAMPLE.COM", r)

	// second call hits the cache path
	r2, err := c.DefaultRealm()
	require.NoError(t, err)
	assert.Equal(t, "EXAMPLE.COM", r2)
}

func TestDefaultRealmMissing(t *testing.T) {
	c := newTestContext(t, "[libdefaults]\n\tclockskew = 300\n")
	_, err := c.DefaultRealm()
	assert.Error(t, err)
}

func TestInstallKDCTimeOffsetOnlyOnce(t *testing.T) {
	c := newTestContext(t, "")
	c.InstallKDCTimeOffset(10, 20)
	assert.True(t, c.Os.TimeOffsetValid())
	assert.Equal(t, int32(10), c.Os.TimeOffset)

	c.InstallKDCTimeOffset(99, 99)
	assert.Equal(t, int32(10), c.Os.TimeOffset) // not overwritten
}

func TestInstallKDCTimeOffsetNoopWithoutSync(t *testing.T) {
	c := newTestContext(t, "")
	c.LibraryOptions = 0
	c.InstallKDCTimeOffset(10, 20)
	assert.False(t, c.Os.TimeOffsetValid())
}

func TestSyncMemoryTimeOffsetNoopWithoutValidContextOffset(t *testing.T) {
	c := newTestContext(t, "")
	c.SyncMemoryTimeOffset(10, 20)
	assert.False(t, c.Os.TimeOffsetValid())
	assert.Zero(t, c.Os.TimeOffset)
}

func TestSyncMemoryTimeOffsetOverwritesValidContextOffset(t *testing.T) {
	c := newTestContext(t, "")
	c.Os.Flags |= TOffsetValid
	c.Os.TimeOffset = 1
	c.Os.UsecOffset = 1

	c.SyncMemoryTimeOffset(10, 20)
	assert.True(t, c.Os.TimeOffsetValid())
	assert.Equal(t, int32(10), c.Os.TimeOffset)
	assert.Equal(t, int32(20), c.Os.UsecOffset)
}

func TestSyncMemoryTimeOffsetNoopWithoutSync(t *testing.T) {
	c := newTestContext(t, "")
	c.LibraryOptions = 0
	c.Os.Flags |= TOffsetValid
	c.SyncMemoryTimeOffset(10, 20)
	assert.Equal(t, int32(0), c.Os.TimeOffset)
}

func TestDNSCanonicalizeHostnameResolution(t *testing.T) {
	c, err := newContextFromConf(t, "[libdefaults]\n\tdns_canonicalize_hostname = fallback\n")
	require.NoError(t, err)
	assert.Equal(t, DNSCanonicalizeFallback, c.DNSCanonicalizeHostname)
}

func TestDNSCanonicalizeHostnameInvalid(t *testing.T) {
	_, err := newContextFromConf(t, "[libdefaults]\n\tdns_canonicalize_hostname = bogus\n")
	assert.Error(t, err)
}

func TestDNSCanonicalizeHostnameDefaultTrue(t *testing.T) {
	c, err := newContextFromConf(t, "")
	require.NoError(t, err)
	assert.Equal(t, DNSCanonicalizeTrue, c.DNSCanonicalizeHostname)
}

func newContextFromConf(t *testing.T, conf string) (*Context, error) {
	t.Helper()
	dir := t.TempDir()
	path := dir + "/krb5.conf"
	require.NoError(t, os.WriteFile(path, []byte(conf), 0o644))
	t.Setenv("KRB5_CONFIG", path)
	return Init()
}
