// Command klist displays the contents of a Kerberos credential cache
// or keytab.
package main

import (
	"fmt"
	"os"

	"github.com/jcmturner/krb5view/internal/logging"
	"github.com/jcmturner/krb5view/krb5ctx"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	o, err := parseArgs(args)
	if err != nil {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}
	if err := validate(o); err != nil {
		fmt.Fprintf(os.Stderr, "klist: %v\n", err)
		fmt.Fprint(os.Stderr, usage)
		return 1
	}

	logging.Init(logging.Config{Level: "WARN", Format: "text"})

	ctx, err := krb5ctx.Init()
	if err != nil {
		fmt.Fprintf(os.Stderr, "klist: %v\n", err)
		return 1
	}

	if o.keytabMode {
		return runKeytab(ctx, os.Stdout, o)
	}

	if o.statusOnly {
		return runStatusOnly(ctx, o.name)
	}
	if o.listAll {
		return runListCaches(ctx, os.Stdout)
	}
	if o.showAll {
		return runShowAll(ctx, os.Stdout, o)
	}
	return runSingle(ctx, os.Stdout, o)
}
