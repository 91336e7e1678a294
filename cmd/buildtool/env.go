package main

import (
	"flag"
	"fmt"

	"github.com/galaxy-steam/buildtool/internal/env"
)

const envHelp = `buildtool env

Print the root directory, the effective configuration and the host platform.
`

func printenv(args []string) error {
	fset := flag.NewFlagSet("env", flag.ExitOnError)
	fset.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p := platform(cfg)
	fmt.Printf("BUILDTOOLROOT=%q\n", env.Root)
	fmt.Printf("SAFE_DIR=%q\n", cfg.Safe.Dir)
	fmt.Printf("SAFE_MANIFEST=%q\n", cfg.Safe.Manifest)
	fmt.Printf("CONFLICTS_DIR=%q\n", cfg.Conflicts.Dir)
	fmt.Printf("CONFLICTS_MANIFEST=%q\n", cfg.Conflicts.Manifest)
	fmt.Printf("OVERRIDE_DIR=%q\n", cfg.OverrideDir)
	fmt.Printf("GEN_DIR=%q\n", cfg.GenDir)
	fmt.Printf("TREE_DIR=%q\n", cfg.TreeDir)
	fmt.Printf("TARGET=%q\n", cfg.Target)
	fmt.Printf("PROTOC=%q\n", p.ProtocExe)
	fmt.Printf("PIP_PLATFORM=%q\n", p.PipPlatform)
	fmt.Printf("GALAXY_PLUGIN_DIR=%q\n", p.DistDir)
	return nil
}
