package main

import (
	"flag"
	"path/filepath"

	"github.com/galaxy-steam/buildtool"
	"github.com/galaxy-steam/buildtool/internal/clean"
	"github.com/galaxy-steam/buildtool/internal/config"
	"github.com/galaxy-steam/buildtool/internal/generate"
	"golang.org/x/xerrors"
)

const generateHelp = `buildtool generate [-flags]

Compile the safe schema files, overlaid with the hand-merged override files,
into generated sources. Files in the conflicting partition are never
compiled; merge them by hand into the override directory first.

Example:
  % buildtool generate -gen=false
`

// outDir returns the scratch directory or, with gen=false, the in-tree
// messages package.
func outDir(cfg *config.Config, gen bool) string {
	if gen {
		return cfg.GenDir
	}
	return cfg.TreeDir
}

// workingDirPath makes a relative path flag absolute with respect to the
// working directory. Child processes run in the root directory and would
// otherwise resolve it there.
func workingDirPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	return filepath.Abs(p)
}

func generateMessages(args []string) error {
	fset := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		gen = fset.Bool("gen",
			true,
			"write to the scratch gen directory instead of the plugin source tree")

		descriptorSet = fset.String("descriptor_set",
			"",
			"if non-empty, path to additionally write a FileDescriptorSet to (see buildtool describe)")
	)
	fset.Parse(args)

	descriptorSetOut, err := workingDirPath(*descriptorSet)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	set := make(buildtool.Collection)
	if err := set.LoadDir(buildtool.Safe, cfg.Safe.Dir); err != nil {
		return err
	}
	if err := set.LoadDir(buildtool.Override, cfg.OverrideDir); err != nil {
		return err
	}

	ctx, canc := buildtool.InterruptibleContext()
	defer canc()
	g := &generate.Generator{
		Compiler:         platform(cfg).ProtocExe,
		Target:           cfg.Target,
		DescriptorSetOut: descriptorSetOut,
		Runner:           newRunner(),
	}
	return g.Generate(ctx, set, outDir(cfg, *gen))
}

// generatedSuffixes lists the file name suffixes protoc produces per output
// language.
var generatedSuffixes = map[string][]string{
	"python": {".py"},
	"java":   {".java"},
	"cpp":    {".pb.h", ".pb.cc"},
}

const cleargenHelp = `buildtool cleargen [-flags]

Remove the generated sources of the configured target language (*.py for
python, *.java for java, *.pb.h and *.pb.cc for cpp) from the output
directory. Subdirectories, e.g. java packages, are not descended into.
`

func cleargen(args []string) error {
	fset := flag.NewFlagSet("cleargen", flag.ExitOnError)
	gen := fset.Bool("gen",
		true,
		"clear the scratch gen directory instead of the plugin source tree")
	fset.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return clearGenerated(outDir(cfg, *gen), cfg.Target)
}

func clearGenerated(dir, target string) error {
	suffixes, ok := generatedSuffixes[target]
	if !ok {
		return xerrors.Errorf("cleargen: unknown generated file suffix for target %q", target)
	}
	for _, suffix := range suffixes {
		if err := clean.Clear(dir, suffix); err != nil {
			return err
		}
	}
	return nil
}
