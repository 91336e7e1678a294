// Program buildtool fetches the Steam protocol schema files, normalizes them
// for protoc and drives code generation and packaging of the Galaxy plugin.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/galaxy-steam/buildtool"
	"github.com/galaxy-steam/buildtool/internal/config"
	"github.com/galaxy-steam/buildtool/internal/env"
	"github.com/galaxy-steam/buildtool/internal/runner"
	"github.com/galaxy-steam/buildtool/internal/trace"
	"github.com/mattn/go-isatty"
)

var (
	verbose   = flag.Bool("v", false, "enable debug logging")
	tracefile = flag.String("tracefile", "", "path to store a Chrome trace event file at")
)

func setupLogging() {
	opts := log.Options{
		Level:     log.InfoLevel,
		Formatter: log.LogfmtFormatter,
	}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		opts.Formatter = log.TextFormatter
	} else {
		opts.ReportTimestamp = true
	}
	if *verbose {
		opts.Level = log.DebugLevel
	}
	log.SetDefault(log.NewWithOptions(os.Stderr, opts))
}

// loadConfig reads the configuration below env.Root.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(env.Root)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded config", "root", env.Root, "target", cfg.Target)
	return cfg, nil
}

// platform returns the host platform with the configured protoc override
// applied.
func platform(cfg *config.Config) buildtool.Platform {
	p := buildtool.HostPlatform()
	if cfg.Protoc != "" {
		p.ProtocExe = cfg.Protoc
	}
	return p
}

// rootPath resolves a relative path flag against env.Root, like the
// configured paths are. Absolute paths are returned unchanged.
func rootPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(env.Root, p)
}

func newRunner() *runner.Runner {
	return &runner.Runner{Dir: env.Root}
}

func main() {
	flag.Parse()
	setupLogging()
	if *tracefile != "" {
		f, err := os.Create(*tracefile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		trace.Sink(f)
	}

	type cmd struct {
		helpText string
		fn       func(args []string) error
	}
	verbs := map[string]cmd{
		"pull":     {pullHelp, pull},
		"clear":    {clearHelp, clearProtos},
		"generate": {generateHelp, generateMessages},
		"cleargen": {cleargenHelp, cleargen},
		"build":    {buildHelp, build},
		"install":  {installHelp, install},
		"pack":     {packHelp, packPlugin},
		"test":     {testHelp, test},
		"env":      {envHelp, printenv},
		"discover": {discoverHelp, discoverUpstream},
		"describe": {describeHelp, describe},
	}

	args := flag.Args()
	verb := "generate"
	if len(args) > 0 {
		verb, args = args[0], args[1:]
	}

	if verb == "help" {
		if len(args) != 1 {
			fmt.Fprintf(os.Stderr, "syntax: buildtool help <verb>\n")
			fmt.Fprintf(os.Stderr, "\n")
			fmt.Fprintf(os.Stderr, "Verbs:\n")
			names := make([]string, 0, len(verbs))
			for name := range verbs {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(os.Stderr, "\t%s\n", name)
			}
			os.Exit(2)
		}
		verb = args[0]
		args = []string{"-help"}
	}
	v, ok := verbs[verb]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", verb)
		fmt.Fprintf(os.Stderr, "syntax: buildtool [-v] <command> [options]\n")
		os.Exit(2)
	}
	if len(args) > 0 && args[0] == "-help" {
		fmt.Fprintf(os.Stderr, "%s", v.helpText)
	}
	if err := v.fn(args); err != nil {
		fmt.Printf("%s: %+v\n", verb, err)
		os.Exit(1)
	}
}
