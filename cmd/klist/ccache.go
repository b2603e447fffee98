package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jcmturner/krb5view/credentials"
	"github.com/jcmturner/krb5view/internal/logging"
	"github.com/jcmturner/krb5view/krb5ctx"
	"github.com/jcmturner/krb5view/types"
)

// checkCCache reports whether cache validates: a TGT for the default
// realm exists and is unexpired, or no TGT exists but some non-
// configuration unexpired credential does.
func checkCCache(ctx *krb5ctx.Context, cache *credentials.CredentialCache) (bool, error) {
	client, err := cache.GetPrincipal(ctx)
	if err != nil {
		return false, err
	}
	it, err := cache.Credentials(ctx)
	if err != nil {
		return false, err
	}
	defer it.Close()

	now := time.Now().Unix()
	haveTGT := false
	tgtUnexpired := false
	haveUnexpiredOther := false

	for {
		cred, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logging.Warnf("error reading credential cache entry: %v", err)
			break
		}
		if cred.IsConfigEntry() {
			continue
		}
		unexpired := int64(cred.Times.EndTime) > now
		if types.IsLocalTGT(cred.Server, client.Realm) {
			haveTGT = true
			if unexpired {
				tgtUnexpired = true
			}
			continue
		}
		if unexpired {
			haveUnexpiredOther = true
		}
	}

	if haveTGT {
		return tgtUnexpired, nil
	}
	return haveUnexpiredOther, nil
}

func runStatusOnly(ctx *krb5ctx.Context, name string) int {
	cache, err := openCCache(ctx, name)
	if err != nil {
		return 1
	}
	ok, err := checkCCache(ctx, cache)
	if err != nil || !ok {
		return 1
	}
	return 0
}

func runListCaches(ctx *krb5ctx.Context, w io.Writer) int {
	caches, err := credentials.CredentialCachesIter(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "klist: %v\n", err)
		return 1
	}
	if len(caches) == 0 {
		return 1
	}
	exit := 1
	for _, c := range caches {
		ok, err := checkCCache(ctx, c)
		line := c.FullName()
		if err != nil || !ok {
			line += " (Expired)"
		} else {
			exit = 0
		}
		fmt.Fprintln(w, line)
	}
	return exit
}

func runShowAll(ctx *krb5ctx.Context, w io.Writer, o options) int {
	caches, err := credentials.CredentialCachesIter(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "klist: %v\n", err)
		return 1
	}
	if len(caches) == 0 {
		fmt.Fprintln(os.Stderr, "klist: No credentials cache found")
		return 1
	}
	for i, c := range caches {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := renderCache(ctx, w, c, o); err != nil {
			fmt.Fprintf(os.Stderr, "klist: %v\n", err)
			return 1
		}
	}
	return 0
}

func runSingle(ctx *krb5ctx.Context, w io.Writer, o options) int {
	cache, err := openCCache(ctx, o.name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "klist: %v\n", err)
		return 1
	}
	if err := renderCache(ctx, w, cache, o); err != nil {
		fmt.Fprintf(os.Stderr, "klist: %v\n", err)
		return 1
	}
	return 0
}

func openCCache(ctx *krb5ctx.Context, name string) (*credentials.CredentialCache, error) {
	if name != "" {
		return credentials.Resolve(name)
	}
	return credentials.ResolveDefault(ctx)
}

func renderCache(ctx *krb5ctx.Context, w io.Writer, cache *credentials.CredentialCache, o options) error {
	client, err := cache.GetPrincipal(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Ticket cache: %s\nDefault principal: %s\n\n", cache.FullName(), principalString(client))

	it, err := cache.Credentials(ctx)
	if err != nil {
		return err
	}
	defer it.Close()

	header := "Valid starting     Expires            Service principal"
	fmt.Fprintln(w, header)

	for {
		cred, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if cred.IsConfigEntry() {
			if o.showConfigEntries {
				renderConfigEntry(w, cred)
			}
			continue
		}
		renderCredentialLine(w, cred, o)
	}
	return nil
}

func renderConfigEntry(w io.Writer, cred types.Credential) {
	key, _ := cred.ConfigKey()
	principal, hasPrincipal := cred.ConfigPrincipal()
	if hasPrincipal {
		fmt.Fprintf(w, "config: %s(%s) = %s\n", key, principal, formatConfigValue(cred.Ticket))
	} else {
		fmt.Fprintf(w, "config: %s = %s\n", key, formatConfigValue(cred.Ticket))
	}
}

func renderCredentialLine(w io.Writer, cred types.Credential, o options) {
	start := formatTime(effectiveStartTime(cred.Times))
	end := formatTime(int32(cred.Times.EndTime))
	fmt.Fprintf(w, "%-19s%-19s%s\n", start, end, principalString(cred.Server))

	if o.showFlags {
		fmt.Fprintf(w, "\tFlags: %s\n", types.FlagString(cred.TicketFlags))
	}
	if o.showEType {
		tktEType := cred.Key.EType
		if tkt, ok, err := credentials.GetTicket(cred); err == nil && ok {
			tktEType = tkt.EncPart.EType
		}
		fmt.Fprintf(w, "\tEtype (skey, tkt): %s, %s\n", enctypeName(cred.Key.EType), enctypeName(tktEType))
	}
	if o.showAddrs {
		if len(cred.Addresses) == 0 {
			fmt.Fprintln(w, "\tAddresses: (none)")
		} else {
			for _, a := range cred.Addresses {
				fmt.Fprintf(w, "\tAddress: %s\n", formatAddress(a, o.noReverse))
			}
		}
	}
	if o.showADTypes {
		for _, ad := range cred.AuthData {
			fmt.Fprintf(w, "\tAuth data type: %d\n", ad.ADType)
		}
	}
}
