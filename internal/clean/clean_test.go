package clean

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, fi := range fis {
		names = append(names, fi.Name())
	}
	sort.Strings(names)
	return names
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	for _, fn := range []string{
		"steammessages_base.proto",
		"enums.proto",
		"README.md",
		"nested/keep.proto",
	} {
		path := filepath.Join(dir, fn)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := ioutil.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	// Clearing twice must be idempotent.
	for i := 0; i < 2; i++ {
		if err := Clear(dir, ".proto"); err != nil {
			t.Fatalf("Clear (pass %d): %v", i, err)
		}
		if diff := cmp.Diff([]string{"README.md", "nested"}, listDir(t, dir)); diff != "" {
			t.Fatalf("Clear (pass %d): unexpected directory contents: diff (-want +got):\n%s", i, diff)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "nested", "keep.proto")); err != nil {
		t.Errorf("Clear descended into a subdirectory: %v", err)
	}
}

func TestClearEmptyAndMissing(t *testing.T) {
	empty := t.TempDir()
	if err := Clear(empty, ".py"); err != nil {
		t.Errorf("Clear(empty): %v", err)
	}
	if err := Clear(filepath.Join(empty, "gen"), ".py"); err != nil {
		t.Errorf("Clear(missing): %v", err)
	}
}
