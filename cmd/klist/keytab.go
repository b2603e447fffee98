package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/jcmturner/krb5view/keytab"
	"github.com/jcmturner/krb5view/krb5ctx"
)

func runKeytab(ctx *krb5ctx.Context, w io.Writer, o options) int {
	kt, err := openKeytab(ctx, o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "klist: %v\n", err)
		return 1
	}
	fmt.Fprintf(w, "Keytab name: %s\n", kt.FullName())

	header := "KVNO Principal"
	fmt.Fprintln(w)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "---- --------------------------------------------------------------------------")

	it, err := kt.Entries(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "klist: %v\n", err)
		return 1
	}
	defer it.Close()

	for {
		e, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "klist: %v\n", err)
			return 1
		}
		fmt.Fprintf(w, "%4d %s", e.Vno, principalString(e.Principal))
		if o.showTimes {
			fmt.Fprintf(w, " (%s)", formatTime(int32(e.Timestamp)))
		}
		if o.showEType {
			fmt.Fprintf(w, " (%s) ", enctypeName(e.Key.EType))
		}
		fmt.Fprintln(w)
		if o.showKeysHex {
			fmt.Fprintf(w, "\t(0x%s)\n", hex.EncodeToString(e.Key.Contents))
		}
	}
	return 0
}

func openKeytab(ctx *krb5ctx.Context, o options) (*keytab.Keytab, error) {
	if o.name != "" {
		return keytab.Resolve(o.name)
	}
	return keytab.ResolveDefault(ctx, o.useClientKeytab)
}
