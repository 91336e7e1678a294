// Package config reads the optional buildtool.textproto file from the root of
// the plugin checkout.
//
// Example:
//
//	remote_prefix: "https://raw.githubusercontent.com/SteamDatabase/SteamTracking/master/Protobufs/"
//	exclude: "steammessages_clientserver_ucm.proto"
//	safe { dir: "protobuf_files/protos" manifest: "protobuf_files/protobuf_list.txt" }
//	target: "python"
package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"

	"github.com/protocolbuffers/txtpbfmt/ast"
	"github.com/protocolbuffers/txtpbfmt/parser"
	"golang.org/x/xerrors"
)

// FileName is the name of the configuration file within the root directory.
const FileName = "buildtool.textproto"

// Partition locates the manifest and the output directory of one partition.
type Partition struct {
	Dir      string
	Manifest string
}

// Upstream identifies the GitHub directory holding the schema files.
type Upstream struct {
	Owner string
	Repo  string
	Path  string
	Ref   string
}

// Config is the effective configuration: Default overlaid with the
// buildtool.textproto file of the root directory.
type Config struct {
	// RemotePrefix is stripped from manifest URLs to obtain local file names.
	RemotePrefix string

	// Exclude lists additional file name substrings which are written
	// verbatim, on top of the built-in exclusions.
	Exclude []string

	// Target selects the compiler output language (python, java or cpp),
	// e.g. “python” results in --python_out.
	Target string

	// Protoc overrides the platform’s compiler executable name.
	Protoc string

	Safe      Partition
	Conflicts Partition

	OverrideDir string
	GenDir      string // scratch output, selected by generate -gen
	TreeDir     string // in-tree output

	SourceDir      string
	Requirements   string
	PythonVersion  string
	PluginManifest string

	Upstream Upstream
}

// Default returns the layout used by the Steam plugin checkout.
func Default() *Config {
	return &Config{
		RemotePrefix: "https://raw.githubusercontent.com/SteamDatabase/SteamTracking/master/Protobufs/",
		Target:       "python",
		Safe: Partition{
			Dir:      "protobuf_files/protos",
			Manifest: "protobuf_files/protobuf_list.txt",
		},
		Conflicts: Partition{
			Dir:      "protobuf_files/conflicts",
			Manifest: "protobuf_files/protobuf_conflict_list.txt",
		},
		OverrideDir:    "protobuf_files/merged",
		GenDir:         "protobuf_files/gen",
		TreeDir:        "src/steam_network/protocol/messages",
		SourceDir:      "src",
		Requirements:   "requirements/app.txt",
		PythonVersion:  "37",
		PluginManifest: "src/manifest.json",
		Upstream: Upstream{
			Owner: "SteamDatabase",
			Repo:  "SteamTracking",
			Path:  "Protobufs",
			Ref:   "master",
		},
	}
}

// Load reads root/buildtool.textproto, if present, on top of Default() and
// resolves all relative paths against root.
func Load(root string) (*Config, error) {
	cfg := Default()
	fn := filepath.Join(root, FileName)
	b, err := ioutil.ReadFile(fn)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		nodes, err := parser.Parse(b)
		if err != nil {
			return nil, xerrors.Errorf("%s: %v", fn, err)
		}
		if err := cfg.apply(nodes); err != nil {
			return nil, xerrors.Errorf("%s: %w", fn, err)
		}
	}
	cfg.resolve(root)
	return cfg, nil
}

func (c *Config) apply(nodes []*ast.Node) error {
	for _, f := range []struct {
		path []string
		dest *string
	}{
		{[]string{"remote_prefix"}, &c.RemotePrefix},
		{[]string{"target"}, &c.Target},
		{[]string{"protoc"}, &c.Protoc},
		{[]string{"safe", "dir"}, &c.Safe.Dir},
		{[]string{"safe", "manifest"}, &c.Safe.Manifest},
		{[]string{"conflicts", "dir"}, &c.Conflicts.Dir},
		{[]string{"conflicts", "manifest"}, &c.Conflicts.Manifest},
		{[]string{"override_dir"}, &c.OverrideDir},
		{[]string{"gen_dir"}, &c.GenDir},
		{[]string{"tree_dir"}, &c.TreeDir},
		{[]string{"source_dir"}, &c.SourceDir},
		{[]string{"requirements"}, &c.Requirements},
		{[]string{"python_version"}, &c.PythonVersion},
		{[]string{"plugin_manifest"}, &c.PluginManifest},
		{[]string{"upstream", "owner"}, &c.Upstream.Owner},
		{[]string{"upstream", "repo"}, &c.Upstream.Repo},
		{[]string{"upstream", "path"}, &c.Upstream.Path},
		{[]string{"upstream", "ref"}, &c.Upstream.Ref},
	} {
		values, err := stringValues(nodes, f.path...)
		if err != nil {
			return err
		}
		switch len(values) {
		case 0:
			// keep default
		case 1:
			*f.dest = values[0]
		default:
			return xerrors.Errorf("got %d values for %v, want 1", len(values), f.path)
		}
	}
	exclude, err := stringValues(nodes, "exclude")
	if err != nil {
		return err
	}
	c.Exclude = append(c.Exclude, exclude...)
	return nil
}

// stringValues returns the unquoted values of all fields at path, in file
// order.
func stringValues(nodes []*ast.Node, path ...string) ([]string, error) {
	var result []string
	for _, n := range ast.GetFromPath(nodes, path) {
		for _, v := range n.Values {
			s, err := strconv.Unquote(v.Value)
			if err != nil {
				return nil, xerrors.Errorf("%v: %s: %v", path, v.Value, err)
			}
			result = append(result, s)
		}
	}
	return result, nil
}

func (c *Config) resolve(root string) {
	for _, p := range []*string{
		&c.Safe.Dir,
		&c.Safe.Manifest,
		&c.Conflicts.Dir,
		&c.Conflicts.Manifest,
		&c.OverrideDir,
		&c.GenDir,
		&c.TreeDir,
		&c.SourceDir,
		&c.Requirements,
		&c.PluginManifest,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(root, *p)
		}
	}
}
