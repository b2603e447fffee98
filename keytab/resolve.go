package keytab

import (
	"os"
	"strings"
	"unicode"

	"github.com/jcmturner/krb5view/krb5ctx"
	"github.com/jcmturner/krb5view/krb5err"
)

// splitTypeAndResidual dispatches per spec.md §4.7: a leading "/" or a
// single-letter alphabetic prefix is taken as a FILE path; otherwise the
// name splits once on the first colon.
func splitTypeAndResidual(name string) (backendName, string) {
	if strings.HasPrefix(name, "/") {
		return BackendFile, name
	}
	idx := strings.IndexByte(name, ':')
	if idx < 0 {
		return BackendFile, name
	}
	if idx == 1 && unicode.IsLetter(rune(name[0])) && name[0] < unicode.MaxASCII {
		return BackendFile, name
	}
	return backendName(strings.ToUpper(name[:idx])), name[idx+1:]
}

// Resolve dispatches name to the matching backend. FILE and WRFILE share
// the same read path.
func Resolve(name string) (*Keytab, error) {
	t, residual := splitTypeAndResidual(name)
	switch t {
	case BackendFile, BackendWRFile:
		return &Keytab{Type: t, b: newFileBackend(residual)}, nil
	case BackendMemory:
		return &Keytab{Type: BackendMemory, b: resolveMemory(residual)}, nil
	default:
		return nil, krb5err.New(krb5err.UnknownType, "unknown keytab type %q", t)
	}
}

const (
	builtinDefaultKeytab       = "FILE:/etc/krb5.keytab"
	builtinDefaultClientKeytab = "FILE:/usr/local/var/krb5/user/%{euid}/client.keytab"
)

// DefaultName resolves the system keytab name: KRB5_KTNAME env var, else
// profile libdefaults.default_keytab_name, else the built-in default.
func DefaultName(ctx *krb5ctx.Context) (string, error) {
	if v := os.Getenv("KRB5_KTNAME"); v != "" {
		return krb5ctx.ExpandPathTokens(v)
	}
	if v, ok := ctx.Profile.GetString("libdefaults", "default_keytab_name"); ok {
		return krb5ctx.ExpandPathTokens(v)
	}
	return krb5ctx.ExpandPathTokens(builtinDefaultKeytab)
}

// ClientDefaultName resolves the client keytab name: KRB5_CLIENT_KTNAME
// env var, else profile libdefaults.default_client_keytab_name, else the
// built-in default.
func ClientDefaultName(ctx *krb5ctx.Context) (string, error) {
	if v := os.Getenv("KRB5_CLIENT_KTNAME"); v != "" {
		return krb5ctx.ExpandPathTokens(v)
	}
	if v, ok := ctx.Profile.GetString("libdefaults", "default_client_keytab_name"); ok {
		return krb5ctx.ExpandPathTokens(v)
	}
	return krb5ctx.ExpandPathTokens(builtinDefaultClientKeytab)
}

// ResolveDefault resolves and opens the system (or, if client is true,
// client) default keytab.
func ResolveDefault(ctx *krb5ctx.Context, client bool) (*Keytab, error) {
	var name string
	var err error
	if client {
		name, err = ClientDefaultName(ctx)
	} else {
		name, err = DefaultName(ctx)
	}
	if err != nil {
		return nil, err
	}
	return Resolve(name)
}
