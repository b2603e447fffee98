package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcmturner/krb5view/types"
)

func TestEffectiveStartTimeSubstitutesAuthTime(t *testing.T) {
	tt := types.TicketTimes{AuthTime: 100, StartTime: 0}
	assert.Equal(t, int32(100), effectiveStartTime(tt))

	tt2 := types.TicketTimes{AuthTime: 100, StartTime: 150}
	assert.Equal(t, int32(150), effectiveStartTime(tt2))
}

func TestPrincipalString(t *testing.T) {
	p := types.Principal{Components: []string{"host", "foo.example.com"}, Realm: "EXAMPLE.COM"}
	assert.Equal(t, "host/foo.example.com@EXAMPLE.COM", principalString(p))
}

func TestAddressIPv4(t *testing.T) {
	a := types.HostAddress{AddrType: types.AddrINET, Contents: []byte{192, 168, 1, 1}}
	assert.Equal(t, "192.168.1.1", addressIP(a))
}

func TestAddressUnknownType(t *testing.T) {
	a := types.HostAddress{AddrType: 999, Contents: []byte{1}}
	assert.Equal(t, "", addressIP(a))
	assert.Equal(t, "unknown addrtype 999", formatAddress(a, true))
}

func TestFormatAddressNoReverseReturnsLiteral(t *testing.T) {
	a := types.HostAddress{AddrType: types.AddrINET, Contents: []byte{10, 0, 0, 1}}
	assert.Equal(t, "10.0.0.1", formatAddress(a, true))
}

func TestFormatConfigValuePrintableAndOctal(t *testing.T) {
	got := formatConfigValue([]byte("ok"))
	assert.Equal(t, "ok", got)

	got = formatConfigValue([]byte{0x00, 0x7f})
	assert.Equal(t, `\000\177`, got)
}

func TestFormatConfigValueWraps(t *testing.T) {
	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}
	got := formatConfigValue(long)
	assert.Contains(t, got, "\n\t")
}

func TestEnctypeNameFallback(t *testing.T) {
	assert.Equal(t, "etype 99999", enctypeName(99999))
	assert.Equal(t, "aes256-cts", enctypeName(18))
}

func TestFormatTime(t *testing.T) {
	got := formatTime(0)
	assert.NotEmpty(t, got)
}
