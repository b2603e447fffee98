package credentials

import (
	"os"
	"strings"
	"unicode"

	"github.com/jcmturner/krb5view/krb5ctx"
	"github.com/jcmturner/krb5view/krb5err"
)

// splitTypeAndResidual applies the dispatch rule from the specification:
// no colon -> default backend FILE; single-letter prefix (drive-letter
// heuristic) -> FILE with the whole name as residual; otherwise split
// once on the first colon.
func splitTypeAndResidual(name string) (backendName, string) {
	idx := strings.IndexByte(name, ':')
	if idx < 0 {
		return BackendFile, name
	}
	if idx == 1 && isASCIILetter(rune(name[0])) {
		return BackendFile, name
	}
	return backendName(strings.ToUpper(name[:idx])), name[idx+1:]
}

func isASCIILetter(r rune) bool {
	return unicode.IsLetter(r) && r < unicode.MaxASCII
}

// Resolve dispatches name to the matching backend, returning
// *krb5err.Error{Kind: UnknownType} for an unrecognized prefix.
func Resolve(name string) (*CredentialCache, error) {
	t, residual := splitTypeAndResidual(name)
	switch t {
	case BackendFile:
		return &CredentialCache{Type: BackendFile, b: newFileBackend(residual)}, nil
	case BackendMemory:
		return &CredentialCache{Type: BackendMemory, b: resolveMemory(residual)}, nil
	default:
		return nil, krb5err.New(krb5err.UnknownType, "unknown credential cache type %q", t)
	}
}

const builtinDefaultCCache = "FILE:/tmp/krb5cc_%{uid}"

// DefaultName resolves the default cache name in priority order: an
// explicit Context override, the KRB5CCNAME environment variable
// (which is also recorded back onto the context so later lookups are
// stable), the profile key libdefaults.default_ccache_name, or the
// built-in default. The winning path-like value is expanded for
// %{token} substitutions.
func DefaultName(ctx *krb5ctx.Context) (string, error) {
	if ctx.Os.DefaultCCName != "" {
		return krb5ctx.ExpandPathTokens(ctx.Os.DefaultCCName)
	}
	if v := os.Getenv("KRB5CCNAME"); v != "" {
		ctx.SetDefaultCCName(v)
		return krb5ctx.ExpandPathTokens(v)
	}
	if v, ok := ctx.Profile.GetString("libdefaults", "default_ccache_name"); ok {
		return krb5ctx.ExpandPathTokens(v)
	}
	return krb5ctx.ExpandPathTokens(builtinDefaultCCache)
}

// ResolveDefault resolves and opens the context's default credential
// cache.
func ResolveDefault(ctx *krb5ctx.Context) (*CredentialCache, error) {
	name, err := DefaultName(ctx)
	if err != nil {
		return nil, err
	}
	return Resolve(name)
}
