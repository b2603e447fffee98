package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// options holds the parsed klist command line.
type options struct {
	ccacheMode bool
	keytabMode bool
	useClientKeytab bool
	listAll    bool
	showAll    bool
	showEType  bool
	showADTypes bool
	showFlags  bool
	statusOnly bool
	showAddrs  bool
	noReverse  bool
	showTimes  bool
	showKeysHex bool
	showConfigEntries bool
	name       string
}

const usage = `Usage: klist [-c] [-f] [-e] [-a [-n]] [-s] [-l] [-A] [-C] [cache_name]
	klist -l [-e]
	klist [-c] -s
	klist -k [-t] [-K] [-e] [-i] [keytab_name]
`

func parseArgs(args []string) (options, error) {
	fs := pflag.NewFlagSet("klist", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	var o options
	fs.BoolVarP(&o.ccacheMode, "ccache", "c", false, "ccache mode")
	fs.BoolVarP(&o.keytabMode, "keytab", "k", false, "keytab mode")
	fs.BoolVarP(&o.useClientKeytab, "client-keytab", "i", false, "use client keytab")
	fs.BoolVarP(&o.listAll, "list-caches", "l", false, "list all caches")
	fs.BoolVarP(&o.showAll, "show-all", "A", false, "show all caches in full")
	fs.BoolVarP(&o.showEType, "etype", "e", false, "show encryption types")
	fs.BoolVarP(&o.showADTypes, "ad-types", "d", false, "show authorization data types")
	fs.BoolVarP(&o.showFlags, "flags", "f", false, "show ticket flags")
	fs.BoolVarP(&o.statusOnly, "status", "s", false, "exit status only, no output")
	fs.BoolVarP(&o.showAddrs, "addresses", "a", false, "show ticket addresses")
	fs.BoolVarP(&o.noReverse, "no-reverse", "n", false, "do not reverse-resolve addresses")
	fs.BoolVarP(&o.showTimes, "timestamps", "t", false, "show keytab entry timestamps")
	fs.BoolVarP(&o.showKeysHex, "keys", "K", false, "show keytab entry keys in hex")
	fs.BoolVarP(&o.showConfigEntries, "config-entries", "C", false, "include configuration entries")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 1 {
		return options{}, fmt.Errorf("too many arguments")
	}
	if fs.NArg() == 1 {
		o.name = fs.Arg(0)
	}
	return o, nil
}

func validate(o options) error {
	if o.ccacheMode && o.keytabMode {
		return fmt.Errorf("-c and -k are mutually exclusive")
	}
	if o.keytabMode {
		if o.showFlags || o.statusOnly || o.showAddrs || o.showAll || o.listAll {
			return fmt.Errorf("-f, -s, -a, -A, -l are not valid in keytab mode")
		}
	} else {
		if o.showTimes || o.showKeysHex {
			return fmt.Errorf("-t and -K are only valid in keytab mode")
		}
		if o.useClientKeytab {
			return fmt.Errorf("-i is only valid in keytab mode")
		}
	}
	if o.noReverse && !o.showAddrs {
		return fmt.Errorf("-n requires -a")
	}
	if o.showAll && o.listAll {
		return fmt.Errorf("-A and -l are mutually exclusive")
	}
	if o.statusOnly && o.listAll {
		return fmt.Errorf("-s and -l are mutually exclusive")
	}
	return nil
}
