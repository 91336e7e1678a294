// Package env captures details about the buildtool environment. Inspect the
// environment using `buildtool env`.
package env

import (
	"os"
	"path/filepath"
)

// Root is the root directory of the plugin checkout: all relative paths in
// the configuration are resolved against it.
var Root = findRoot()

// marker identifies the root directory of a plugin checkout.
var marker = filepath.Join("src", "manifest.json")

func findRoot() string {
	if env := os.Getenv("BUILDTOOLROOT"); env != "" {
		return env
	}
	wd, err := os.Getwd()
	if err != nil {
		return "." // default
	}
	return dominating(wd)
}

// dominating returns the closest directory at or above dir which contains
// src/manifest.json, or dir itself if there is none.
func dominating(dir string) string {
	for d := dir; ; {
		if _, err := os.Stat(filepath.Join(d, marker)); err == nil {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			return dir
		}
		d = parent
	}
}

// GitHubToken is an optional OAuth2 token for the upstream discovery API.
func GitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}
