// Package config implements the layered krb5.conf-style profile lookup
// used to resolve library defaults (default realm, default ccache name,
// clock skew, and so on). The on-disk format is MIT's nested-brace INI
// dialect, not flat key=value INI, so it is parsed by hand rather than
// through a general-purpose INI library: flat INI parsers reject the
// "key = { ... }" nested relation syntax libdefaults/realms use.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultSystemFile = "/etc/krb5.conf"

// section is a parsed INI-like section: each key maps either to a string
// value (the first assignment wins, matching MIT's profile semantics) or
// to a nested section for "key = { ... }" relations.
type section map[string]interface{}

// Profile is an ordered list of parsed configuration files. Lookups
// consult files in order and return the first match.
type Profile struct {
	Files  []string
	layers []section
}

// New builds a Profile for the given file list, each path first expanded
// for a leading "~/" against HOME. Files that do not exist are silently
// skipped, matching typical krb5 behavior of tolerating a missing
// optional config file.
func New(files []string) (*Profile, error) {
	p := &Profile{}
	for _, f := range files {
		f = expandHome(f)
		p.Files = append(p.Files, f)
		b, err := os.ReadFile(f)
		if err != nil {
			if os.IsNotExist(err) {
				p.layers = append(p.layers, nil)
				continue
			}
			return nil, fmt.Errorf("reading profile %q: %w", f, err)
		}
		sec, err := parse(string(b))
		if err != nil {
			return nil, fmt.Errorf("parsing profile %q: %w", f, err)
		}
		p.layers = append(p.layers, sec)
	}
	return p, nil
}

// FileList resolves the profile file list for secure/non-secure mode:
// secure consults only /etc/krb5.conf; otherwise KRB5_CONFIG
// (colon-separated) if set, else the same default.
func FileList(secure bool) []string {
	if secure {
		return []string{defaultSystemFile}
	}
	if v := os.Getenv("KRB5_CONFIG"); v != "" {
		return strings.Split(v, ":")
	}
	return []string{defaultSystemFile}
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		home := os.Getenv("HOME")
		if home != "" {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

// parse reads the brace-nested krb5.conf dialect into a section tree.
func parse(s string) (section, error) {
	sc := bufio.NewScanner(strings.NewReader(s))
	root := section{}
	var cur section = root
	var stack []section

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(line[1 : len(line)-1])
			sub, ok := root[name].(section)
			if !ok {
				sub = section{}
				root[name] = sub
			}
			cur = sub
			stack = nil
			continue
		}
		if line == "}" {
			if len(stack) == 0 {
				return nil, fmt.Errorf("unmatched closing brace")
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if val == "{" {
			sub := section{}
			cur[key] = sub
			stack = append(stack, cur)
			cur = sub
			continue
		}
		if _, exists := cur[key]; !exists {
			cur[key] = val
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return root, nil
}

func resolve(sec section, parts []string) (interface{}, bool) {
	var v interface{} = sec
	for _, p := range parts {
		s, ok := v.(section)
		if !ok {
			return nil, false
		}
		v, ok = s[p]
		if !ok {
			return nil, false
		}
	}
	return v, true
}

// GetString returns the first value found for the given path of section
// names across the profile's layered files, e.g.
// GetString("realms", "EXAMPLE.COM", "kdc"). Names are matched literally,
// never split on ".", since realm names routinely contain dots.
func (p *Profile) GetString(names ...string) (string, bool) {
	for _, layer := range p.layers {
		if layer == nil {
			continue
		}
		if v, ok := resolve(layer, names); ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

// GetBool interprets the profile value at names as a boolean: "true",
// "yes", "on", "1" (case-insensitive) are true; "false", "no", "off",
// "0" are false.
func (p *Profile) GetBool(names ...string) (bool, bool, error) {
	s, ok := p.GetString(names...)
	if !ok {
		return false, false, nil
	}
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, true, nil
	case "false", "no", "off", "0":
		return false, true, nil
	default:
		return false, true, fmt.Errorf("invalid boolean profile value %q for %s", s, strings.Join(names, "."))
	}
}

// GetInt parses the profile value at names as a signed integer.
func (p *Profile) GetInt(names ...string) (int64, bool, error) {
	s, ok := p.GetString(names...)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, true, fmt.Errorf("invalid integer profile value %q for %s: %w", s, strings.Join(names, "."), err)
	}
	return n, true, nil
}

// Section returns the nested section tree under names, if present, for
// callers that need to walk a multi-level relation (e.g. "realms").
func (p *Profile) Section(names ...string) (section, bool) {
	for _, layer := range p.layers {
		if layer == nil {
			continue
		}
		if v, ok := resolve(layer, names); ok {
			if s, ok := v.(section); ok {
				return s, true
			}
		}
	}
	return nil, false
}
