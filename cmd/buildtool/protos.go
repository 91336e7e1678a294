package main

import (
	"flag"

	"github.com/galaxy-steam/buildtool"
	"github.com/galaxy-steam/buildtool/internal/clean"
	"github.com/galaxy-steam/buildtool/internal/config"
	"github.com/galaxy-steam/buildtool/internal/fetch"
	"github.com/galaxy-steam/buildtool/internal/normalize"
	"github.com/galaxy-steam/buildtool/internal/partition"
	"golang.org/x/xerrors"
)

const pullHelp = `buildtool pull [-flags]

Fetch the schema files listed in the partition manifests, normalize them for
the compiler and write them into the partition directories.

Example:
  % buildtool pull -role=safe
`

// partitions returns the partitions selected by role, in pull order.
func partitions(cfg *config.Config, role string) ([]config.Partition, error) {
	switch role {
	case "all":
		return []config.Partition{cfg.Safe, cfg.Conflicts}, nil
	case buildtool.Safe.String():
		return []config.Partition{cfg.Safe}, nil
	case buildtool.Conflicting.String():
		return []config.Partition{cfg.Conflicts}, nil
	}
	return nil, xerrors.Errorf("unknown role %q, want one of all, %s, %s", role, buildtool.Safe, buildtool.Conflicting)
}

func pull(args []string) error {
	fset := flag.NewFlagSet("pull", flag.ExitOnError)
	var (
		role = fset.String("role",
			"all",
			"which partition to pull: all, safe or conflicting")

		silent = fset.Bool("silent",
			false,
			"do not log each URL as it is retrieved")
	)
	fset.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	parts, err := partitions(cfg, *role)
	if err != nil {
		return err
	}
	ctx, canc := buildtool.InterruptibleContext()
	defer canc()
	p := &partition.Partitioner{
		Fetcher:      &fetch.Fetcher{},
		Normalizer:   normalize.New(cfg.Target, cfg.Exclude...),
		RemotePrefix: cfg.RemotePrefix,
		Silent:       *silent,
	}
	for _, part := range parts {
		if err := p.Pull(ctx, part.Dir, part.Manifest); err != nil {
			return err
		}
	}
	return nil
}

const clearHelp = `buildtool clear [-flags]

Remove the pulled *.proto files from the partition directories. Hand-merged
files in the override directory are left alone.
`

func clearProtos(args []string) error {
	fset := flag.NewFlagSet("clear", flag.ExitOnError)
	role := fset.String("role",
		"all",
		"which partition to clear: all, safe or conflicting")
	fset.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	parts, err := partitions(cfg, *role)
	if err != nil {
		return err
	}
	for _, part := range parts {
		if err := clean.Clear(part.Dir, normalize.Extension); err != nil {
			return err
		}
	}
	return nil
}
