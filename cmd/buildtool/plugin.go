package main

import (
	"flag"

	"github.com/charmbracelet/log"
	"github.com/galaxy-steam/buildtool"
	"github.com/galaxy-steam/buildtool/internal/config"
	"github.com/galaxy-steam/buildtool/internal/env"
	"github.com/galaxy-steam/buildtool/internal/pack"
)

func newBuilder(cfg *config.Config) *pack.Builder {
	return &pack.Builder{
		Platform:      platform(cfg),
		SourceDir:     cfg.SourceDir,
		Requirements:  cfg.Requirements,
		PythonVersion: cfg.PythonVersion,
		Runner:        newRunner(),
	}
}

const buildHelp = `buildtool build [-flags]

Install the pinned Python dependencies for the Galaxy platform of this host
into the output directory and copy the plugin sources next to them.

Example:
  % buildtool build -output=output -zip=steam.zip
`

func build(args []string) error {
	fset := flag.NewFlagSet("build", flag.ExitOnError)
	var (
		output = fset.String("output",
			"output",
			"directory to assemble the plugin in (removed first), relative to the root directory")

		zipArchive = fset.String("zip",
			"",
			"if non-empty, path of a zip archive to compress the output directory into, relative to the root directory")
	)
	fset.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, canc := buildtool.InterruptibleContext()
	defer canc()
	return newBuilder(cfg).Build(ctx, rootPath(*output), rootPath(*zipArchive))
}

const installHelp = `buildtool install

Build the plugin directly into the Galaxy plugin directory of this host.
`

func install(args []string) error {
	fset := flag.NewFlagSet("install", flag.ExitOnError)
	fset.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := buildtool.ReadPluginManifest(cfg.PluginManifest)
	if err != nil {
		return err
	}
	ctx, canc := buildtool.InterruptibleContext()
	defer canc()
	return newBuilder(cfg).Install(ctx, m)
}

const packHelp = `buildtool pack

Build the plugin and compress it into steam_v<version>.zip, with the version
taken from the plugin manifest.
`

func packPlugin(args []string) error {
	fset := flag.NewFlagSet("pack", flag.ExitOnError)
	fset.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := buildtool.ReadPluginManifest(cfg.PluginManifest)
	if err != nil {
		return err
	}
	ctx, canc := buildtool.InterruptibleContext()
	defer canc()
	archive, err := newBuilder(cfg).Pack(ctx, env.Root, m)
	if err != nil {
		return err
	}
	log.Infof("packed %s", archive)
	return nil
}

const testHelp = `buildtool test [-- pytest arguments]

Run the plugin test suite with pytest.

Example:
  % buildtool test -- -k protobuf
`

func test(args []string) error {
	fset := flag.NewFlagSet("test", flag.ExitOnError)
	fset.Parse(args)

	ctx, canc := buildtool.InterruptibleContext()
	defer canc()
	return newRunner().Run(ctx, "pytest", fset.Args()...)
}
