// Package types holds the wire-level value types shared by the
// credential-cache and keytab engines: principals, keyblocks, addresses,
// authorization data, ticket flags/times, credentials and keytab entries.
package types

import (
	"strings"

	"github.com/jcmturner/krb5view/iana/nametype"
	"github.com/jcmturner/krb5view/krb5err"
)

// Parse flags.
const (
	ParseNoRealm      uint32 = 1 << 0
	ParseRequireRealm uint32 = 1 << 1
	ParseEnterprise   uint32 = 1 << 2
	ParseIgnoreRealm  uint32 = 1 << 3
	ParseNoDefRealm   uint32 = 1 << 4
)

// Unparse flags.
const (
	UnparseShort   uint32 = 1 << 0
	UnparseNoRealm uint32 = 1 << 1
	UnparseDisplay uint32 = 1 << 2
)

// Compare flags.
const (
	CompareIgnoreRealm uint32 = 1 << 0
	CompareEnterprise  uint32 = 1 << 1
	CompareCasefold    uint32 = 1 << 2
	CompareUTF8        uint32 = 1 << 3
)

// RealmResolver supplies the library default realm to Parse and Unparse.
// It is an interface, not a concrete Context type, so this package does
// not need to import the context package.
type RealmResolver interface {
	DefaultRealm() (string, error)
}

// Principal is a Kerberos name: an ordered list of components, a realm,
// and a name-type tag.
type Principal struct {
	Components []string
	Realm      string
	NameType   int32
}

// Parse decodes name into a Principal per the given flags, consulting
// rr for the default realm when name carries no explicit realm and
// ParseNoRealm/ParseIgnoreRealm/ParseNoDefRealm are unset. rr may be nil
// when those flags make it unreachable.
func Parse(name string, flags uint32, rr RealmResolver) (Principal, error) {
	if strings.HasSuffix(name, `\`) {
		return Principal{}, krb5err.New(krb5err.MalformedName, "name %q ends with an escape character", name)
	}
	enterprise := flags&ParseEnterprise != 0

	var left, realm string
	haveRealm := false

	first := strings.IndexByte(name, '@')
	if !enterprise {
		if first >= 0 {
			left, realm, haveRealm = name[:first], name[first+1:], true
		} else {
			left = name
		}
	} else {
		if first < 0 {
			left = name
		} else {
			rest := name[first+1:]
			second := strings.IndexByte(rest, '@')
			if second < 0 {
				left = name
			} else {
				left = name[:first+1+second]
				realm = name[first+1+second+1:]
				haveRealm = true
			}
		}
	}

	if haveRealm {
		if flags&ParseNoRealm != 0 {
			return Principal{}, krb5err.New(krb5err.MalformedName, "explicit realm given with NO_REALM flag set")
		}
		if strings.IndexByte(realm, '@') >= 0 {
			return Principal{}, krb5err.New(krb5err.MalformedName, "realm %q contains a second @", realm)
		}
		if strings.IndexByte(realm, '/') >= 0 && !enterprise {
			return Principal{}, krb5err.New(krb5err.MalformedName, "realm %q contains /", realm)
		}
	}

	var components []string
	if enterprise {
		components = []string{left}
	} else {
		components = strings.Split(left, "/")
	}
	for _, c := range components {
		if c == "" {
			return Principal{}, krb5err.New(krb5err.MalformedName, "name %q has an empty component", name)
		}
	}

	if !haveRealm && flags&(ParseNoRealm|ParseIgnoreRealm|ParseNoDefRealm) == 0 {
		if rr == nil {
			return Principal{}, krb5err.New(krb5err.ConfigNoDefRealm, "no default realm available")
		}
		dr, err := rr.DefaultRealm()
		if err != nil {
			return Principal{}, err
		}
		realm = dr
	}

	if flags&ParseRequireRealm != 0 && realm == "" {
		return Principal{}, krb5err.New(krb5err.MalformedName, "no realm available for %q and REQUIRE_REALM set", name)
	}

	nt := int32(nametype.KRB_NT_PRINCIPAL)
	switch {
	case enterprise:
		nt = nametype.KRB_NT_ENTERPRISE_PRINCIPAL
	case len(components) == 2 && components[0] == "krbtgt":
		nt = nametype.KRB_NT_SRV_INST
	case len(components) >= 2 && components[0] == "WELLKNOWN":
		nt = nametype.KRB_NT_WELLKNOWN
	}

	return Principal{Components: components, Realm: realm, NameType: nt}, nil
}

// Unparse renders p back to its string form. No escaping of '/' or '@'
// is performed; the caller is responsible for any display-layer quoting.
func Unparse(p Principal, flags uint32, rr RealmResolver) (string, error) {
	noRealm := flags&UnparseNoRealm != 0
	if flags&UnparseShort != 0 && rr != nil {
		dr, err := rr.DefaultRealm()
		if err == nil && dr == p.Realm {
			noRealm = true
		}
	}
	var b strings.Builder
	b.WriteString(strings.Join(p.Components, "/"))
	if !noRealm {
		b.WriteByte('@')
		b.WriteString(p.Realm)
	}
	return b.String(), nil
}

func casefold(s string, flags uint32) string {
	if flags&CompareCasefold == 0 {
		return s
	}
	if flags&CompareUTF8 != 0 {
		return strings.ToLower(s)
	}
	return strings.ToLower(s)
}

// normalizeEnterprise collapses an enterprise principal's components into
// the single string an unparse-without-realm/reparse round trip would
// produce, so that an enterprise name can be compared against a
// non-enterprise name component-for-component.
func normalizeEnterprise(p Principal, flags uint32) Principal {
	if flags&CompareEnterprise == 0 || p.NameType != nametype.KRB_NT_ENTERPRISE_PRINCIPAL {
		return p
	}
	return Principal{Components: []string{strings.Join(p.Components, "/")}, Realm: p.Realm, NameType: p.NameType}
}

// Compare reports whether a and b name the same principal under flags.
func Compare(a, b Principal, flags uint32) bool {
	a = normalizeEnterprise(a, flags)
	b = normalizeEnterprise(b, flags)
	if len(a.Components) != len(b.Components) {
		return false
	}
	for i := range a.Components {
		if casefold(a.Components[i], flags) != casefold(b.Components[i], flags) {
			return false
		}
	}
	if flags&CompareIgnoreRealm == 0 {
		if casefold(a.Realm, flags) != casefold(b.Realm, flags) {
			return false
		}
	}
	return true
}

// IsLocalTGT reports whether p is the local realm's ticket-granting-ticket
// principal: krbtgt/localRealm@localRealm.
func IsLocalTGT(p Principal, localRealm string) bool {
	return len(p.Components) == 2 &&
		p.Components[0] == "krbtgt" &&
		p.Components[1] == localRealm &&
		p.Realm == localRealm
}
