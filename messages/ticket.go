// Package messages decodes the DER-encoded Ticket structure carried as
// opaque bytes inside a credential-cache entry. Only decoding is
// implemented; ticket acquisition and encryption are out of scope.
package messages

import (
	"fmt"

	gasn1 "github.com/jcmturner/gofork/encoding/asn1"

	"github.com/jcmturner/krb5view/iana/nametype"
	"github.com/jcmturner/krb5view/krb5err"
	"github.com/jcmturner/krb5view/types"
)

// ticketASN1 mirrors the wire grammar of an application-tagged Kerberos
// Ticket SEQUENCE: [0] version (ignored), [1] realm GeneralString,
// [2] sname SEQUENCE, [3] encPart EncryptedData.
type ticketASN1 struct {
	TktVno  int                  `asn1:"explicit,tag:0"`
	Realm   string               `asn1:"generalstring,explicit,tag:1"`
	SName   principalNameASN1    `asn1:"explicit,tag:2"`
	EncPart encryptedDataASN1    `asn1:"explicit,tag:3"`
}

type principalNameASN1 struct {
	NameType   int32    `asn1:"explicit,tag:0"`
	NameString []string `asn1:"generalstring,explicit,tag:1"`
}

type encryptedDataASN1 struct {
	EType  int32  `asn1:"explicit,tag:0"`
	KVNO   int    `asn1:"optional,explicit,tag:1"`
	Cipher []byte `asn1:"explicit,tag:2"`
}

// ticketApplicationTag is the APPLICATION class tag of a Kerberos Ticket
// ([APPLICATION 1] per RFC 4120 §5.3).
const ticketApplicationTag = 1

// EncryptedData is the (enctype, kvno, ciphertext) tuple carried by a
// ticket's encPart field.
type EncryptedData struct {
	EType  int32
	KVNO   int
	Cipher []byte
}

// Ticket is the decoded form of a Kerberos ticket: a server principal and
// its still-encrypted body. EncPart2 is modeled (for API parity with a
// future decrypting consumer) but never populated by this decoder.
type Ticket struct {
	Server   types.Principal
	EncPart  EncryptedData
	EncPart2 *EncTicketPart
}

// EncTicketPart is the structure a ticket's EncPart decrypts to. It is
// declared for completeness but this package never produces one: that
// would require the decryption key, which is out of scope.
type EncTicketPart struct {
	Flags     int32
	Key       types.KeyBlock
	CRealm    string
	CName     types.Principal
	Times     types.TicketTimes
	Addresses []types.HostAddress
	AuthData  []types.AuthDataEntry
}

// DecodeTicket decodes raw DER ticket bytes into a Ticket. The server
// principal's NameType is always set to KRB_NT_PRINCIPAL regardless of
// the on-wire nameType, since consumers only ever compare it against a
// credential's already-typed server principal.
func DecodeTicket(b []byte) (Ticket, error) {
	var t ticketASN1
	_, err := gasn1.UnmarshalWithParams(b, &t, fmt.Sprintf("application,explicit,tag:%d", ticketApplicationTag))
	if err != nil {
		return Ticket{}, krb5err.Wrap(krb5err.CCFormat, err, "decoding ticket DER")
	}
	if len(t.SName.NameString) == 0 {
		return Ticket{}, krb5err.New(krb5err.CCFormat, "ticket sname has no components")
	}
	server := types.Principal{
		Components: t.SName.NameString,
		Realm:      t.Realm,
		NameType:   nametype.KRB_NT_PRINCIPAL,
	}
	return Ticket{
		Server: server,
		EncPart: EncryptedData{
			EType:  t.EncPart.EType,
			KVNO:   t.EncPart.KVNO,
			Cipher: t.EncPart.Cipher,
		},
	}, nil
}
