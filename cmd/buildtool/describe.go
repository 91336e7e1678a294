package main

import (
	"flag"
	"os"

	"github.com/galaxy-steam/buildtool/internal/descset"
	"golang.org/x/xerrors"
)

const describeHelp = `buildtool describe <descriptor set>

Summarize a FileDescriptorSet written by buildtool generate -descriptor_set.

Example:
  % buildtool generate -descriptor_set=/tmp/steam.binpb
  % buildtool describe /tmp/steam.binpb
`

func describe(args []string) error {
	fset := flag.NewFlagSet("describe", flag.ExitOnError)
	fset.Parse(args)
	if fset.NArg() != 1 {
		return xerrors.Errorf("syntax: describe <descriptor set>")
	}

	set, err := descset.Read(fset.Arg(0))
	if err != nil {
		return err
	}
	return descset.Write(os.Stdout, descset.Summarize(set))
}
