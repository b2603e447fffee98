// Package etype holds the static registry of supported Kerberos encryption
// types: their canonical name, aliases, and weak/deprecated flags. The
// table is fixed by the Kerberos wire protocol and is reproduced verbatim
// from the governing specification; it is not derived or computed.
package etype

import (
	"fmt"

	"github.com/jcmturner/krb5view/iana/etypeID"
)

// Flag bits on a registry entry.
const (
	Weak       = 1 << 0
	Deprecated = 1 << 1
)

type entry struct {
	id      int32
	name    string
	aliases []string
	flags   uint8
}

// table holds the ten supported enctypes. Order is insignificant; lookup
// is by id.
var table = []entry{
	{etypeID.DES3_CBC_RAW, "des3-cbc-raw", nil, Weak | Deprecated},
	{etypeID.DES3_CBC_SHA1, "des3-cbc-sha1", []string{"des3-hmac-sha1", "des3-cbc-sha1-kd"}, Deprecated},
	{etypeID.ARCFOUR_HMAC, "arcfour-hmac", []string{"rc4-hmac", "arcfour-hmac-md5"}, Deprecated},
	{etypeID.ARCFOUR_HMAC_EXP, "arcfour-hmac-exp", []string{"rc4-hmac-exp", "arcfour-hmac-md5-exp"}, Weak | Deprecated},
	{etypeID.AES128_CTS_HMAC_SHA1_96, "aes128-cts-hmac-sha1-96", []string{"aes128-cts", "aes128-sha1"}, 0},
	{etypeID.AES256_CTS_HMAC_SHA1_96, "aes256-cts-hmac-sha1-96", []string{"aes256-cts", "aes256-sha1"}, 0},
	{etypeID.CAMELLIA128_CTS_CMAC, "camellia128-cts-cmac", []string{"camellia128-cts"}, 0},
	{etypeID.CAMELLIA256_CTS_CMAC, "camellia256-cts-cmac", []string{"camellia256-cts"}, 0},
	{etypeID.AES128_CTS_HMAC_SHA256_128, "aes128-cts-hmac-sha256-128", []string{"aes128-sha2"}, 0},
	{etypeID.AES256_CTS_HMAC_SHA384_192, "aes256-cts-hmac-sha384-192", []string{"aes256-sha2"}, 0},
}

// legacy holds the five unsupported-but-named historic enctypes. They
// carry no cipher implementation; only their historic name is known.
var legacy = map[int32]string{
	etypeID.DES_CBC_CRC:   "des-cbc-crc",
	etypeID.DES_CBC_MD4:   "des-cbc-md4",
	etypeID.DES_CBC_MD5:   "des-cbc-md5",
	etypeID.DES_CBC_RAW:   "des-cbc-raw",
	etypeID.DES_HMAC_SHA1: "des-hmac-sha1",
}

func lookup(id int32) (entry, bool) {
	for _, e := range table {
		if e.id == id {
			return e, true
		}
	}
	return entry{}, false
}

func shortestName(e entry) string {
	shortest := e.name
	for _, a := range e.aliases {
		if len(a) < len(shortest) {
			shortest = a
		}
	}
	return shortest
}

// Name returns the display name for enctype. If shortest is true and the
// enctype has aliases, the shortest of {primary, alias...} is returned.
// Legacy (unsupported) enctypes always return their historic name.
func Name(enctype int32, shortest bool) (string, error) {
	if n, ok := legacy[enctype]; ok {
		return n, nil
	}
	e, ok := lookup(enctype)
	if !ok {
		return "", fmt.Errorf("unknown enctype %d", enctype)
	}
	if shortest {
		return shortestName(e), nil
	}
	return e.name, nil
}

// IsDeprecated reports whether enctype is flagged deprecated. Unknown
// enctypes (neither in the supported table nor the legacy list) are
// fail-safe reported as deprecated.
func IsDeprecated(enctype int32) bool {
	if _, ok := legacy[enctype]; ok {
		return true
	}
	e, ok := lookup(enctype)
	if !ok {
		return true
	}
	return e.flags&Deprecated != 0
}

// IsWeak reports whether enctype is flagged weak. Legacy enctypes have no
// recorded flags and are reported not-weak (only IsDeprecated is
// fail-safe per the specification).
func IsWeak(enctype int32) bool {
	e, ok := lookup(enctype)
	if !ok {
		return false
	}
	return e.flags&Weak != 0
}

// DeprecatedName prefixes Name's result with "DEPRECATED:" when the
// enctype is deprecated.
func DeprecatedName(enctype int32, shortest bool) (string, error) {
	n, err := Name(enctype, shortest)
	if err != nil {
		return "", err
	}
	if IsDeprecated(enctype) {
		return "DEPRECATED:" + n, nil
	}
	return n, nil
}
