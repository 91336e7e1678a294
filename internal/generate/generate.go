// Package generate stages schema files and runs the schema compiler over
// them.
package generate

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/galaxy-steam/buildtool"
	"github.com/galaxy-steam/buildtool/internal/runner"
	"golang.org/x/xerrors"
)

// Generator invokes Compiler once per Generate call. Concurrent Generate calls
// are not supported.
type Generator struct {
	// Compiler is the protoc executable, e.g. “protoc” or “protoc.exe”.
	Compiler string

	// Target selects the --<Target>_out flag, e.g. “python”.
	Target string

	// DescriptorSetOut, if non-empty, additionally makes the compiler write
	// a FileDescriptorSet (including imports) to this path.
	DescriptorSetOut string

	Runner *runner.Runner
}

// Args returns the compiler arguments for the given staging directory,
// output directory and staged file names.
func (g *Generator) Args(stagingDir, outDir string, names []string) []string {
	args := []string{
		"-I", stagingDir,
		"--" + g.Target + "_out=" + outDir,
	}
	if g.DescriptorSetOut != "" {
		args = append(args, "--descriptor_set_out="+g.DescriptorSetOut, "--include_imports")
	}
	for _, name := range names {
		args = append(args, filepath.Join(stagingDir, name))
	}
	return args
}

// Generate writes the union of the Safe and Override partitions of set into
// a fresh staging directory (Override files replace Safe files of the same
// name) and compiles all staged files into outDir. The staging directory is
// removed afterwards, also when the compiler fails.
func (g *Generator) Generate(ctx context.Context, set buildtool.Collection, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: outDir, Err: err}
	}
	staging, err := ioutil.TempDir("", "buildtool-staging")
	if err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: os.TempDir(), Err: err}
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			log.Warnf("removing staging directory: %v", err)
		}
	}()

	files := set.Overlay(buildtool.Safe, buildtool.Override)
	names := make([]string, 0, len(files))
	for _, f := range files {
		fn := filepath.Join(staging, f.Name)
		if err := ioutil.WriteFile(fn, f.Content, 0644); err != nil {
			return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: fn, Err: err}
		}
		names = append(names, f.Name)
	}
	if len(names) == 0 {
		return xerrors.Errorf("no schema files to compile: %w", &buildtool.Error{
			Kind:    buildtool.FilesystemFailure,
			Subject: staging,
		})
	}
	log.Infof("compiling %d schema files into %s", len(names), outDir)

	r := g.Runner
	if r == nil {
		r = &runner.Runner{}
	}
	if err := r.Run(ctx, g.Compiler, g.Args(staging, outDir, names)...); err != nil {
		return &buildtool.Error{Kind: buildtool.CompilerFailure, Subject: g.Compiler, Err: err}
	}
	return nil
}
