// Package krb5err defines the error kinds shared across the credential
// cache, keytab and context engines. It mirrors the numeric-code-plus-
// message shape of a KRBError from the wire protocol, without tying the
// core library to any particular KDC error-code table.
package krb5err

import "fmt"

// Kind identifies the class of failure. Named after the abstract error
// kinds in the governing specification, not after any single backend's
// native error constants.
type Kind int

const (
	Unknown Kind = iota
	MalformedName
	UnknownType
	CCFormat
	CCacheBadVersion
	KTFormat
	KTBadVersion
	KTNameTooLong
	NoCCache
	ConfigNoDefRealm
	InvalidArgument
)

func (k Kind) String() string {
	switch k {
	case MalformedName:
		return "MALFORMED_NAME"
	case UnknownType:
		return "UNKNOWN_TYPE"
	case CCFormat:
		return "CC_FORMAT"
	case CCacheBadVersion:
		return "CCACHE_BADVNO"
	case KTFormat:
		return "KT_FORMAT"
	case KTBadVersion:
		return "KEYTAB_BADVNO"
	case KTNameTooLong:
		return "KT_NAME_TOOLONG"
	case NoCCache:
		return "NO_CCACHE"
	case ConfigNoDefRealm:
		return "CONFIG_NODEFREALM"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	default:
		return "UNKNOWN"
	}
}

// Error is the concrete error value returned by this module's packages.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with the given kind and formatted message.
func New(k Kind, format string, a ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, a...)}
}

// Wrap builds an *Error that carries an underlying cause for errors.Is/As.
func Wrap(k Kind, err error, format string, a ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, a...), Err: err}
}

// Is reports whether err (or any error it wraps) is a *Error of kind k.
func Is(err error, k Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == k {
				return true
			}
			err = e.Err
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
