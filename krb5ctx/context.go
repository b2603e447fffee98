// Package krb5ctx implements the process-wide Kerberos context: resolved
// configuration, KDC time-offset state, and the path-token expansion used
// when resolving built-in default names.
package krb5ctx

import (
	"os"
	"os/user"
	"strconv"
	"strings"
	"sync"

	"github.com/jcmturner/krb5view/config"
	"github.com/jcmturner/krb5view/krb5err"
)

// DNSCanonicalize is the tri-state value of libdefaults.dns_canonicalize_hostname.
type DNSCanonicalize int

const (
	DNSCanonicalizeTrue DNSCanonicalize = iota
	DNSCanonicalizeFalse
	DNSCanonicalizeFallback
)

// Library-option bits.
const (
	LibOptSyncKDCTime uint32 = 1 << 0
)

// OS time-offset flag bits. Per spec.md §9, a historic off-by-one bug
// tested TOFFSET_VALID with "> 1"; this reimplementation intentionally
// tests it against zero instead (see DESIGN.md).
const (
	TOffsetValid uint32 = 1 << 0
	TOffsetTime  uint32 = 1 << 1
)

// OsContext holds the OS-supplied KDC clock offset and an optional
// default-ccache override, as installed by a V4 ccache header or a
// MEMORY cache's recorded offset.
type OsContext struct {
	TimeOffset    int32
	UsecOffset    int32
	Flags         uint32
	DefaultCCName string // empty if unset
}

// TimeOffsetValid reports whether the TOFFSET_VALID bit is set.
func (o OsContext) TimeOffsetValid() bool {
	return o.Flags&TOffsetValid != 0
}

// Context is the resolved, process-wide Kerberos configuration and
// mutable OS time-offset state. It is not safe for concurrent mutation
// without external synchronization. MEMORY-backed caches and keytabs
// guard their shared state with their own locks; FILE-backed handles
// hold no lock.
type Context struct {
	mu sync.Mutex

	Profile *config.Profile

	ProfileSecure bool

	AllowWeakCrypto        bool
	AllowDES3              bool
	AllowRC4               bool
	IgnoreAcceptorHostname bool
	EnforceOkAsDelegate    bool

	ClockSkew         int64
	ReqTimeout        int64
	KDCDefaultOptions uint32
	LibraryOptions    uint32
	FCCDefaultFormat  int

	DNSCanonicalizeHostname DNSCanonicalize

	defaultRealm     string
	defaultRealmSet  bool

	Os OsContext
}

// Init constructs a non-secure Context, consulting KRB5_CONFIG or the
// built-in default file list.
func Init() (*Context, error) {
	return newContext(false)
}

// InitSecure constructs a secure Context, consulting only /etc/krb5.conf.
func InitSecure() (*Context, error) {
	return newContext(true)
}

func newContext(secure bool) (*Context, error) {
	p, err := config.New(config.FileList(secure))
	if err != nil {
		return nil, err
	}
	c := &Context{
		Profile:           p,
		ProfileSecure:     secure,
		ClockSkew:         300,
		KDCDefaultOptions: 0x10,
		FCCDefaultFormat:  4 + 0x0500,
	}

	c.AllowWeakCrypto = boolDefault(p, false, "libdefaults", "allow_weak_crypto")
	c.AllowDES3 = boolDefault(p, false, "libdefaults", "allow_des3")
	c.AllowRC4 = boolDefault(p, false, "libdefaults", "allow_rc4")
	c.IgnoreAcceptorHostname = boolDefault(p, false, "libdefaults", "ignore_acceptor_hostname")
	c.EnforceOkAsDelegate = boolDefault(p, false, "libdefaults", "enforce_ok_as_delegate")

	if v, ok, err := p.GetInt("libdefaults", "clockskew"); err != nil {
		return nil, err
	} else if ok {
		c.ClockSkew = v
	}

	if v, ok, err := p.GetInt("libdefaults", "kdc_default_options"); err != nil {
		return nil, err
	} else if ok {
		c.KDCDefaultOptions = uint32(v)
	}

	kdcTimesync := int64(1)
	if v, ok, err := p.GetInt("libdefaults", "kdc_timesync"); err != nil {
		return nil, err
	} else if ok {
		kdcTimesync = v
	}
	if kdcTimesync > 0 {
		c.LibraryOptions |= LibOptSyncKDCTime
	}

	ccacheType := int64(4)
	if v, ok, err := p.GetInt("libdefaults", "ccache_type"); err != nil {
		return nil, err
	} else if ok {
		ccacheType = v
	}
	c.FCCDefaultFormat = int(ccacheType) + 0x0500

	dcv, ok := p.GetString("libdefaults", "dns_canonicalize_hostname")
	switch {
	case !ok:
		c.DNSCanonicalizeHostname = DNSCanonicalizeTrue
	case strings.EqualFold(dcv, "fallback"):
		c.DNSCanonicalizeHostname = DNSCanonicalizeFallback
	case strings.EqualFold(dcv, "true") || strings.EqualFold(dcv, "yes") || strings.EqualFold(dcv, "on") || dcv == "1":
		c.DNSCanonicalizeHostname = DNSCanonicalizeTrue
	case strings.EqualFold(dcv, "false") || strings.EqualFold(dcv, "no") || strings.EqualFold(dcv, "off") || dcv == "0":
		c.DNSCanonicalizeHostname = DNSCanonicalizeFalse
	default:
		return nil, krb5err.New(krb5err.InvalidArgument, "invalid dns_canonicalize_hostname value %q", dcv)
	}

	return c, nil
}

func boolDefault(p *config.Profile, def bool, names ...string) bool {
	v, ok, err := p.GetBool(names...)
	if err != nil || !ok {
		return def
	}
	return v
}

// DefaultRealm resolves and caches the library default realm. It
// implements types.RealmResolver.
func (c *Context) DefaultRealm() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.defaultRealmSet {
		if c.defaultRealm == "" {
			return "", krb5err.New(krb5err.ConfigNoDefRealm, "no default realm configured")
		}
		return c.defaultRealm, nil
	}
	v, _ := c.Profile.GetString("libdefaults", "default_realm")
	c.defaultRealm = v
	c.defaultRealmSet = true
	if v == "" {
		return "", krb5err.New(krb5err.ConfigNoDefRealm, "no default realm configured")
	}
	return v, nil
}

// SetDefaultCCName records an override consulted before the environment
// and profile when resolving the default credential cache name.
func (c *Context) SetDefaultCCName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Os.DefaultCCName = name
}

// InstallKDCTimeOffset installs (sec, usec) as the OS time offset and
// marks it valid, but only if SYNC_KDCTIME is enabled and no valid
// offset is already installed. It is called by the credential-cache
// engine when it reads a V4 header DELTATIME tag; MEMORY caches use
// SyncMemoryTimeOffset instead.
func (c *Context) InstallKDCTimeOffset(sec, usec int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.LibraryOptions&LibOptSyncKDCTime == 0 {
		return
	}
	if c.Os.TimeOffsetValid() {
		return
	}
	c.Os.TimeOffset = sec
	c.Os.UsecOffset = usec
	c.Os.Flags |= TOffsetValid | TOffsetTime
}

// SyncMemoryTimeOffset overwrites the OS time offset with a MEMORY
// cache's recorded (sec, usec). Its gate is the inverse of
// InstallKDCTimeOffset's: a FILE cache's V4 header installs an offset
// only when none is yet valid (first writer wins), while a MEMORY
// cache's recorded offset overwrites one that is already valid, per
// the upstream memory-cache resolve() behavior.
func (c *Context) SyncMemoryTimeOffset(sec, usec int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.LibraryOptions&LibOptSyncKDCTime == 0 {
		return
	}
	if !c.Os.TimeOffsetValid() {
		return
	}
	c.Os.TimeOffset = sec
	c.Os.UsecOffset = usec
	c.Os.Flags |= TOffsetValid | TOffsetTime
}

// ExpandPathTokens replaces %{TOKEN} substrings in path with the
// recognized runtime values: euid, username, uid, USERID.
func ExpandPathTokens(path string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(path) {
		idx := strings.Index(path[i:], "%{")
		if idx < 0 {
			b.WriteString(path[i:])
			break
		}
		b.WriteString(path[i : i+idx])
		start := i + idx + 2
		end := strings.IndexByte(path[start:], '}')
		if end < 0 {
			return "", krb5err.New(krb5err.InvalidArgument, "unterminated %%{ in path %q", path)
		}
		token := path[start : start+end]
		val, err := expandToken(token)
		if err != nil {
			return "", err
		}
		b.WriteString(val)
		i = start + end + 1
	}
	return b.String(), nil
}

func expandToken(token string) (string, error) {
	switch token {
	case "euid":
		return strconv.Itoa(os.Geteuid()), nil
	case "uid", "USERID":
		return strconv.Itoa(os.Getuid()), nil
	case "username":
		u, err := user.LookupId(strconv.Itoa(os.Geteuid()))
		if err != nil || u.Username == "" {
			return strconv.Itoa(os.Geteuid()), nil
		}
		return u.Username, nil
	default:
		return "", krb5err.New(krb5err.InvalidArgument, "unknown path token %%{%s}", token)
	}
}
