package env

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestDominating(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src", "steam_network"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(filepath.Join(root, marker), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{
		root,
		filepath.Join(root, "src"),
		filepath.Join(root, "src", "steam_network"),
	} {
		if got := dominating(dir); got != root {
			t.Errorf("dominating(%q) = %q, want %q", dir, got, root)
		}
	}

	elsewhere := t.TempDir()
	if got := dominating(elsewhere); got != elsewhere {
		t.Errorf("dominating(%q) = %q, want the directory itself", elsewhere, got)
	}
}
