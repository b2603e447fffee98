// Package etypeID defines the numeric Kerberos encryption-type identifiers.
package etypeID

const (
	DES_CBC_CRC                   = 1
	DES_CBC_MD4                   = 2
	DES_CBC_MD5                   = 3
	DES_CBC_RAW                   = 4
	DES3_CBC_RAW                  = 6
	DES_HMAC_SHA1                 = 8
	AES128_CTS_HMAC_SHA1_96       = 17
	AES256_CTS_HMAC_SHA1_96       = 18
	AES128_CTS_HMAC_SHA256_128    = 19
	AES256_CTS_HMAC_SHA384_192    = 20
	DES3_CBC_SHA1                 = 16
	ARCFOUR_HMAC                  = 23
	ARCFOUR_HMAC_EXP              = 24
	CAMELLIA128_CTS_CMAC          = 25
	CAMELLIA256_CTS_CMAC          = 26
)
