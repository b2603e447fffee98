package types

import "github.com/jcmturner/krb5view/iana/addrtype"

// KeyBlock is a Kerberos key: its enctype and opaque key material.
type KeyBlock struct {
	EType    int32
	Contents []byte
}

// HostAddress is an address recorded against a credential.
type HostAddress struct {
	AddrType uint16
	Contents []byte
}

// Known address types.
const (
	AddrINET     = addrtype.INET
	AddrCHAOS    = addrtype.CHAOS
	AddrXNS      = addrtype.XNS
	AddrISO      = addrtype.ISO
	AddrDDP      = addrtype.DDP
	AddrINET6    = addrtype.INET6
	AddrADDRPORT = addrtype.ADDRPORT
	AddrIPPORT   = addrtype.IPPORT
)

// AuthDataEntry is one element of a credential's authorization data.
type AuthDataEntry struct {
	ADType   uint16
	Contents []byte
}

// TicketTimes carries the four timestamps of a credential. starttime of
// zero is treated as equal to authtime by display-layer consumers; the
// store itself does not apply that substitution.
type TicketTimes struct {
	AuthTime  int32
	StartTime int32
	EndTime   uint32
	RenewTill uint32
}

// Ticket flag bits, high to low.
const (
	FlagForwardable          int32 = 0x40000000
	FlagForwarded            int32 = 0x20000000
	FlagProxiable            int32 = 0x10000000
	FlagProxy                int32 = 0x08000000
	FlagMayPostdate          int32 = 0x04000000
	FlagPostdated            int32 = 0x02000000
	FlagInvalid              int32 = 0x01000000
	FlagRenewable            int32 = 0x00800000
	FlagInitial              int32 = 0x00400000
	FlagPreAuth              int32 = 0x00200000
	FlagHWAuth               int32 = 0x00100000
	FlagTransitPolicyChecked int32 = 0x00080000
	FlagOkAsDelegate         int32 = 0x00040000
	FlagEncPARep             int32 = 0x00010000
	FlagAnonymous            int32 = 0x00008000
)

// flagLetters is in the rendering order required by the specification:
// F f P p D d i R I H A T O a. Note H and A are swapped relative to bit
// order; that is intentional and matches the reference renderer.
var flagLetters = []struct {
	bit    int32
	letter byte
}{
	{FlagForwardable, 'F'},
	{FlagForwarded, 'f'},
	{FlagProxiable, 'P'},
	{FlagProxy, 'p'},
	{FlagMayPostdate, 'D'},
	{FlagPostdated, 'd'},
	{FlagInvalid, 'i'},
	{FlagRenewable, 'R'},
	{FlagInitial, 'I'},
	{FlagHWAuth, 'H'},
	{FlagPreAuth, 'A'},
	{FlagTransitPolicyChecked, 'T'},
	{FlagOkAsDelegate, 'O'},
	{FlagAnonymous, 'a'},
}

// FlagString renders ticket flags as the letter sequence klist prints,
// e.g. "FPRIA". FlagEncPARep has no letter and is never emitted.
func FlagString(flags int32) string {
	b := make([]byte, 0, len(flagLetters))
	for _, fl := range flagLetters {
		if flags&fl.bit != 0 {
			b = append(b, fl.letter)
		}
	}
	return string(b)
}

// Credential is one entry in a credential cache.
type Credential struct {
	Client       Principal
	Server       Principal
	Key          KeyBlock
	Times        TicketTimes
	IsSKey       bool
	TicketFlags  int32
	Addresses    []HostAddress
	Ticket       []byte
	SecondTicket []byte
	AuthData     []AuthDataEntry
}

// ConfCacheRealm and ConfCacheDataComponent identify configuration-entry
// credentials: server.Realm == ConfCacheRealm and the first server
// component equals ConfCacheDataComponent.
const (
	ConfCacheRealm          = "X-CACHECONF:"
	ConfCacheDataComponent  = "krb5_ccache_conf_data"
)

// IsRemoved reports whether c is a tombstone entry to be skipped during
// iteration: endtime == 0 && authtime == -1.
func (c Credential) IsRemoved() bool {
	return c.Times.EndTime == 0 && c.Times.AuthTime == -1
}

// IsConfigEntry reports whether c carries an out-of-band configuration
// value rather than a real ticket.
func (c Credential) IsConfigEntry() bool {
	return c.Server.Realm == ConfCacheRealm &&
		len(c.Server.Components) >= 1 &&
		c.Server.Components[0] == ConfCacheDataComponent
}

// ConfigKey returns the configuration key carried by a configuration
// entry: server.Components[1]. ok is false if the entry is malformed.
func (c Credential) ConfigKey() (key string, ok bool) {
	if len(c.Server.Components) < 2 {
		return "", false
	}
	return c.Server.Components[1], true
}

// ConfigPrincipal returns the optional principal qualifier carried by a
// configuration entry: server.Components[2], if present.
func (c Credential) ConfigPrincipal() (principal string, ok bool) {
	if len(c.Server.Components) < 3 {
		return "", false
	}
	return c.Server.Components[2], true
}

// KeytabEntry is one record in a keytab.
type KeytabEntry struct {
	Principal Principal
	Timestamp uint32
	Vno       uint32
	Key       KeyBlock
}
