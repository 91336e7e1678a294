package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/galaxy-steam/buildtool"
	"github.com/galaxy-steam/buildtool/internal/discover"
	"github.com/galaxy-steam/buildtool/internal/env"
	"github.com/google/renameio"
)

const discoverHelp = `buildtool discover [-flags]

List the download URLs of all schema files in the upstream GitHub directory,
as a starting point for editing the partition manifests. Set $GITHUB_TOKEN to
avoid the unauthenticated API rate limit.

Example:
  % buildtool discover -o protobuf_files/protobuf_list.txt
`

func discoverUpstream(args []string) error {
	fset := flag.NewFlagSet("discover", flag.ExitOnError)
	var (
		output = fset.String("o",
			"",
			"if non-empty, manifest file to (atomically) replace instead of printing to stdout")

		ref = fset.String("ref",
			"",
			"if non-empty, git ref to list instead of the configured one")
	)
	fset.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	up := cfg.Upstream
	if *ref != "" {
		up.Ref = *ref
	}
	ctx, canc := buildtool.InterruptibleContext()
	defer canc()
	urls, err := discover.List(ctx, discover.NewClient(ctx, env.GitHubToken()), up)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, u := range urls {
		fmt.Fprintln(&buf, u)
	}
	if *output == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := renameio.WriteFile(*output, buf.Bytes(), 0644); err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: *output, Err: err}
	}
	return nil
}
