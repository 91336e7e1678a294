// Package buildtooltest contains helpers shared by the buildtool tests.
package buildtooltest

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Compiler is a stand-in for protoc which records how it was invoked.
type Compiler struct {
	// Path is the executable to configure as the compiler.
	Path string

	dir string
}

// FakeCompiler writes a shell script which records its arguments and copies
// every *.proto argument aside (the staging directory is gone by the time
// the test inspects it), then exits with exitCode.
func FakeCompiler(t testing.TB, exitCode int) *Compiler {
	t.Helper()
	dir := t.TempDir()
	seen := filepath.Join(dir, "seen")
	if err := os.Mkdir(seen, 0755); err != nil {
		t.Fatal(err)
	}
	script := fmt.Sprintf(`#!/bin/sh
for arg in "$@"; do
  echo "$arg" >> %[1]s/args
  case "$arg" in
    *.proto) cp "$arg" %[1]s/seen/ ;;
  esac
done
exit %[2]d
`, dir, exitCode)
	path := filepath.Join(dir, "protoc")
	if err := ioutil.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return &Compiler{Path: path, dir: dir}
}

// Args returns the arguments of all invocations, in order.
func (c *Compiler) Args(t testing.TB) []string {
	t.Helper()
	b, err := ioutil.ReadFile(filepath.Join(c.dir, "args"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
}

// Seen returns the content of each schema file the compiler was given, keyed
// by file name.
func (c *Compiler) Seen(t testing.TB) map[string]string {
	t.Helper()
	dir := filepath.Join(c.dir, "seen")
	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	result := make(map[string]string)
	for _, fi := range fis {
		b, err := ioutil.ReadFile(filepath.Join(dir, fi.Name()))
		if err != nil {
			t.Fatal(err)
		}
		result[fi.Name()] = string(b)
	}
	return result
}

// WriteFiles creates dir and writes files (name → content) into it.
func WriteFiles(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}
