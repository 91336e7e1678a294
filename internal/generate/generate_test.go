package generate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/galaxy-steam/buildtool"
	"github.com/galaxy-steam/buildtool/internal/buildtooltest"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/xerrors"
)

func loadSet(t *testing.T, safe, merged map[string]string) buildtool.Collection {
	t.Helper()
	tmp := t.TempDir()
	buildtooltest.WriteFiles(t, filepath.Join(tmp, "protos"), safe)
	buildtooltest.WriteFiles(t, filepath.Join(tmp, "merged"), merged)
	set := make(buildtool.Collection)
	if err := set.LoadDir(buildtool.Safe, filepath.Join(tmp, "protos")); err != nil {
		t.Fatal(err)
	}
	if err := set.LoadDir(buildtool.Override, filepath.Join(tmp, "merged")); err != nil {
		t.Fatal(err)
	}
	return set
}

// stagingDir extracts the -I argument.
func stagingDir(t *testing.T, args []string) string {
	t.Helper()
	for i, arg := range args {
		if arg == "-I" && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("no -I flag in %q", args)
	return ""
}

func TestGenerate(t *testing.T) {
	compiler := buildtooltest.FakeCompiler(t, 0)
	set := loadSet(t,
		map[string]string{
			"steammessages_base.proto":   "fetched base",
			"steammessages_player.proto": "fetched player",
		},
		map[string]string{
			"steammessages_base.proto": "hand-merged base",
		})
	// Conflicting files are never compiled.
	set[buildtool.Conflicting] = []buildtool.SchemaFile{
		{Name: "steammessages_clientserver.proto", Content: []byte("conflict"), Role: buildtool.Conflicting},
	}
	outDir := filepath.Join(t.TempDir(), "gen")

	g := &Generator{Compiler: compiler.Path, Target: "python"}
	if err := g.Generate(context.Background(), set, outDir); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := map[string]string{
		"steammessages_base.proto":   "hand-merged base",
		"steammessages_player.proto": "fetched player",
	}
	if diff := cmp.Diff(want, compiler.Seen(t)); diff != "" {
		t.Errorf("compiler input: diff (-want +got):\n%s", diff)
	}

	args := compiler.Args(t)
	staging := stagingDir(t, args)
	wantArgs := []string{
		"-I", staging,
		"--python_out=" + outDir,
		filepath.Join(staging, "steammessages_base.proto"),
		filepath.Join(staging, "steammessages_player.proto"),
	}
	if diff := cmp.Diff(wantArgs, args); diff != "" {
		t.Errorf("compiler arguments: diff (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(staging); !os.IsNotExist(err) {
		t.Errorf("staging directory %s not removed: %v", staging, err)
	}
	if _, err := os.Stat(outDir); err != nil {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestGenerateCompilerFailure(t *testing.T) {
	compiler := buildtooltest.FakeCompiler(t, 1)
	set := loadSet(t, map[string]string{"enums.proto": "enum E {}"}, nil)
	g := &Generator{Compiler: compiler.Path, Target: "python"}
	err := g.Generate(context.Background(), set, t.TempDir())
	if !xerrors.Is(err, buildtool.CompilerFailure) {
		t.Fatalf("Generate = %v, want %v", err, buildtool.CompilerFailure)
	}
	staging := stagingDir(t, compiler.Args(t))
	if _, err := os.Stat(staging); !os.IsNotExist(err) {
		t.Errorf("staging directory %s not removed after compiler failure: %v", staging, err)
	}
}

func TestGenerateNothingToCompile(t *testing.T) {
	compiler := buildtooltest.FakeCompiler(t, 0)
	g := &Generator{Compiler: compiler.Path, Target: "python"}
	if err := g.Generate(context.Background(), make(buildtool.Collection), t.TempDir()); err == nil {
		t.Fatalf("Generate(empty) succeeded, want error")
	}
	if args := compiler.Args(t); len(args) > 0 {
		t.Errorf("compiler invoked with %q, want no invocation", args)
	}
}

func TestArgsDescriptorSet(t *testing.T) {
	g := &Generator{Target: "python", DescriptorSetOut: "/tmp/steam.binpb"}
	got := strings.Join(g.Args("/stage", "/out", []string{"a.proto"}), " ")
	want := "-I /stage --python_out=/out --descriptor_set_out=/tmp/steam.binpb --include_imports /stage/a.proto"
	if got != want {
		t.Errorf("Args() = %q, want %q", got, want)
	}
}
