package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := cfg.Safe.Dir, filepath.Join(root, "protobuf_files", "protos"); got != want {
		t.Errorf("Safe.Dir = %q, want %q", got, want)
	}
	if got, want := cfg.Target, "python"; got != want {
		t.Errorf("Target = %q, want %q", got, want)
	}
	if len(cfg.Exclude) != 0 {
		t.Errorf("Exclude = %q, want none", cfg.Exclude)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	const textproto = `
# local mirror of the upstream files
remote_prefix: "http://mirror.local/Protobufs/"
exclude: "steammessages_clientserver_ucm.proto"
exclude: "enums_productinfo.proto"
exclude: "offline_ticket.proto"
target: "java"
safe {
  dir: "pb/safe"
  manifest: "/etc/buildtool/safe.txt"
}
upstream { ref: "1a2b3c" }
`
	if err := ioutil.WriteFile(filepath.Join(root, FileName), []byte(textproto), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := cfg.RemotePrefix, "http://mirror.local/Protobufs/"; got != want {
		t.Errorf("RemotePrefix = %q, want %q", got, want)
	}
	want := []string{
		"steammessages_clientserver_ucm.proto",
		"enums_productinfo.proto",
		"offline_ticket.proto",
	}
	if diff := cmp.Diff(want, cfg.Exclude); diff != "" {
		t.Errorf("Exclude: diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Partition{
		Dir:      filepath.Join(root, "pb", "safe"),
		Manifest: "/etc/buildtool/safe.txt",
	}, cfg.Safe); diff != "" {
		t.Errorf("Safe: diff (-want +got):\n%s", diff)
	}
	if got, want := cfg.Target, "java"; got != want {
		t.Errorf("Target = %q, want %q", got, want)
	}
	if diff := cmp.Diff(Upstream{
		Owner: "SteamDatabase",
		Repo:  "SteamTracking",
		Path:  "Protobufs",
		Ref:   "1a2b3c",
	}, cfg.Upstream); diff != "" {
		t.Errorf("Upstream: diff (-want +got):\n%s", diff)
	}
}

func TestLoadDuplicateScalar(t *testing.T) {
	root := t.TempDir()
	const textproto = `target: "python" target: "java"`
	if err := ioutil.WriteFile(filepath.Join(root, FileName), []byte(textproto), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(root); err == nil {
		t.Fatalf("Load(duplicate target) succeeded, want error")
	}
}
