package main

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/jcmturner/krb5view/crypto/etype"
	"github.com/jcmturner/krb5view/types"
)

// formatTime renders a Kerberos timestamp as a date and time pair in the
// fixed layout MM/DD/YY HH:MM:SS, in the local time zone; the date and
// time layout does not follow the user's locale. time.Unix is used
// directly since Kerberos timestamps are seconds since the epoch.
func formatTime(sec int32) string {
	return time.Unix(int64(sec), 0).Format("01/02/06 15:04:05")
}

// effectiveStartTime applies the display-layer substitution from
// spec.md §3: a zero starttime is treated as equal to authtime. The
// store itself never applies this; only rendering does.
func effectiveStartTime(t types.TicketTimes) int32 {
	if t.StartTime == 0 {
		return t.AuthTime
	}
	return t.StartTime
}

func principalString(p types.Principal) string {
	return strings.Join(p.Components, "/") + "@" + p.Realm
}

// formatAddress renders one address, either as a literal IP (-n) or via
// reverse DNS with a literal fallback on lookup failure. Reverse PTR
// lookup is a different DNS operation from the SRV-record KDC discovery
// the Kerberos ecosystem's dnsutils package serves, so this uses stdlib
// net.LookupAddr directly (see DESIGN.md).
func formatAddress(a types.HostAddress, noReverse bool) string {
	ip := addressIP(a)
	if ip == "" {
		return fmt.Sprintf("unknown addrtype %d", a.AddrType)
	}
	if noReverse {
		return ip
	}
	names, err := net.LookupAddr(ip)
	if err != nil || len(names) == 0 {
		return ip
	}
	return strings.TrimSuffix(names[0], ".")
}

func addressIP(a types.HostAddress) string {
	switch a.AddrType {
	case types.AddrINET:
		if len(a.Contents) == 4 {
			return net.IP(a.Contents).String()
		}
	case types.AddrINET6:
		if len(a.Contents) == 16 {
			return net.IP(a.Contents).String()
		}
	}
	return ""
}

// formatConfigValue renders a configuration entry's opaque value bytes:
// each byte in 0x21..0x7e prints as itself, everything else as \ooo
// octal, wrapped at column 72.
func formatConfigValue(b []byte) string {
	var out strings.Builder
	col := 0
	emit := func(s string) {
		if col+len(s) > 72 {
			out.WriteString("\n\t")
			col = 0
		}
		out.WriteString(s)
		col += len(s)
	}
	for _, c := range b {
		if c >= 0x21 && c <= 0x7e {
			emit(string(rune(c)))
		} else {
			emit(fmt.Sprintf(`\%03o`, c))
		}
	}
	return out.String()
}

func enctypeName(id int32) string {
	n, err := etype.Name(id, true)
	if err != nil {
		return fmt.Sprintf("etype %d", id)
	}
	return n
}
