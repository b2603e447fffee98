package types

import (
	"testing"

	"github.com/jcmturner/krb5view/iana/nametype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver string

func (f fakeResolver) DefaultRealm() (string, error) { return string(f), nil }

func TestParseSimplePrincipal(t *testing.T) {
	p, err := Parse("host/foo.example.com@EXAMPLE.COM", 0, fakeResolver("OTHER.COM"))
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "foo.example.com"}, p.Components)
	assert.Equal(t, "EXAMPLE.COM", p.Realm)
	assert.Equal(t, int32(nametype.KRB_NT_PRINCIPAL), p.NameType)
}

func TestParseDefaultRealm(t *testing.T) {
	p, err := Parse("alice", 0, fakeResolver("EXAMPLE.COM"))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, p.Components)
	assert.Equal(t, "EXAMPLE.COM", p.Realm)
}

func TestParseKrbtgtInfersSrvInst(t *testing.T) {
	p, err := Parse("krbtgt/EXAMPLE.COM@EXAMPLE.COM", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(nametype.KRB_NT_SRV_INST), p.NameType)
}

func TestParseWellknown(t *testing.T) {
	p, err := Parse("WELLKNOWN/ANONYMOUS@EXAMPLE.COM", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(nametype.KRB_NT_WELLKNOWN), p.NameType)
}

func TestParseEnterpriseSplitsOnSecondAt(t *testing.T) {
	p, err := Parse("alice@corp@EXAMPLE.COM", ParseEnterprise, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@corp"}, p.Components)
	assert.Equal(t, "EXAMPLE.COM", p.Realm)
	assert.Equal(t, int32(nametype.KRB_NT_ENTERPRISE_PRINCIPAL), p.NameType)
}

func TestParseEnterpriseNoRealmSeparator(t *testing.T) {
	p, err := Parse("alice@corp", ParseEnterprise|ParseNoRealm, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@corp"}, p.Components)
	assert.Equal(t, "", p.Realm)
}

func TestParseTrailingBackslashRejected(t *testing.T) {
	_, err := Parse(`alice\`, 0, nil)
	assert.Error(t, err)
}

func TestParseEmptyComponentRejected(t *testing.T) {
	_, err := Parse("alice//bob@EXAMPLE.COM", 0, nil)
	assert.Error(t, err)
}

func TestParseExplicitRealmWithNoRealmFlag(t *testing.T) {
	_, err := Parse("alice@EXAMPLE.COM", ParseNoRealm, nil)
	assert.Error(t, err)
}

func TestParseRealmWithSlashRejectedUnlessEnterprise(t *testing.T) {
	_, err := Parse("alice@EXAMPLE.COM/COM", 0, nil)
	assert.Error(t, err)
}

func TestParseRequireRealmNoDefault(t *testing.T) {
	_, err := Parse("alice", ParseRequireRealm|ParseNoDefRealm, nil)
	assert.Error(t, err)
}

func TestParseNoDefaultRealmResolverNeeded(t *testing.T) {
	_, err := Parse("alice", 0, nil)
	assert.Error(t, err)
}

func TestUnparseRoundTrip(t *testing.T) {
	p, err := Parse("host/foo.example.com@EXAMPLE.COM", 0, nil)
	require.NoError(t, err)
	s, err := Unparse(p, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "host/foo.example.com@EXAMPLE.COM", s)
}

func TestUnparseShortElidesDefaultRealm(t *testing.T) {
	p, err := Parse("alice@EXAMPLE.COM", 0, nil)
	require.NoError(t, err)
	s, err := Unparse(p, UnparseShort, fakeResolver("EXAMPLE.COM"))
	require.NoError(t, err)
	assert.Equal(t, "alice", s)
}

func TestCompareCasefold(t *testing.T) {
	a, _ := Parse("Alice@EXAMPLE.COM", 0, nil)
	b, _ := Parse("alice@EXAMPLE.COM", 0, nil)
	assert.False(t, Compare(a, b, 0))
	assert.True(t, Compare(a, b, CompareCasefold))
}

func TestCompareIgnoreRealm(t *testing.T) {
	a, _ := Parse("alice@EXAMPLE.COM", 0, nil)
	b, _ := Parse("alice@OTHER.COM", 0, nil)
	assert.False(t, Compare(a, b, 0))
	assert.True(t, Compare(a, b, CompareIgnoreRealm))
}

func TestIsLocalTGT(t *testing.T) {
	tgt, _ := Parse("krbtgt/EXAMPLE.COM@EXAMPLE.COM", 0, nil)
	assert.True(t, IsLocalTGT(tgt, "EXAMPLE.COM"))
	assert.False(t, IsLocalTGT(tgt, "OTHER.COM"))

	notTGT, _ := Parse("host/foo@EXAMPLE.COM", 0, nil)
	assert.False(t, IsLocalTGT(notTGT, "EXAMPLE.COM"))
}
