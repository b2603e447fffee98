// Package nametype defines the Kerberos principal name-type constants.
package nametype

// NameType values as used in KRB5_NT_* and MS extensions.
const (
	KRB_NT_UNKNOWN              = 0
	KRB_NT_PRINCIPAL            = 1
	KRB_NT_SRV_INST             = 2
	KRB_NT_SRV_HST              = 3
	KRB_NT_SRV_XHST             = 4
	KRB_NT_UID                  = 5
	KRB_NT_X500_PRINCIPAL       = 6
	KRB_NT_SMTP_NAME            = 7
	KRB_NT_ENTERPRISE_PRINCIPAL = 10
	KRB_NT_WELLKNOWN            = 11
	KRB_NT_MS_PRINCIPAL         = -128
	KRB_NT_MS_PRINCIPAL_AND_ID  = -129
	KRB_NT_ENT_PRINCIPAL_AND_ID = -130
)

// NameTypeString returns a short label for a name type, or "UNKNOWN" for
// anything not named above. Used by the credential-cache reader's debug
// logging.
func NameTypeString(nt int32) string {
	switch nt {
	case KRB_NT_UNKNOWN:
		return "UNKNOWN"
	case KRB_NT_PRINCIPAL:
		return "PRINCIPAL"
	case KRB_NT_SRV_INST:
		return "SRV_INST"
	case KRB_NT_SRV_HST:
		return "SRV_HST"
	case KRB_NT_SRV_XHST:
		return "SRV_XHST"
	case KRB_NT_UID:
		return "UID"
	case KRB_NT_X500_PRINCIPAL:
		return "X500_PRINCIPAL"
	case KRB_NT_SMTP_NAME:
		return "SMTP_NAME"
	case KRB_NT_ENTERPRISE_PRINCIPAL:
		return "ENTERPRISE_PRINCIPAL"
	case KRB_NT_WELLKNOWN:
		return "WELLKNOWN"
	case KRB_NT_MS_PRINCIPAL:
		return "MS_PRINCIPAL"
	case KRB_NT_MS_PRINCIPAL_AND_ID:
		return "MS_PRINCIPAL_AND_ID"
	case KRB_NT_ENT_PRINCIPAL_AND_ID:
		return "ENT_PRINCIPAL_AND_ID"
	default:
		return "UNKNOWN"
	}
}
