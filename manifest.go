package buildtool

import (
	"encoding/json"
	"io/ioutil"
	"strings"

	"golang.org/x/mod/semver"
	"golang.org/x/xerrors"
)

// PluginManifest is the subset of the plugin’s src/manifest.json which
// determines installation and archive names.
type PluginManifest struct {
	Name    string `json:"name"`
	GUID    string `json:"guid"`
	Version string `json:"version"`
}

// ReadPluginManifest reads and validates the manifest.json at path.
func ReadPluginManifest(path string) (*PluginManifest, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: FilesystemFailure, Subject: path, Err: err}
	}
	var m PluginManifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, xerrors.Errorf("%s: %w", path, err)
	}
	if m.GUID == "" {
		return nil, xerrors.Errorf("%s: guid not set", path)
	}
	if !semver.IsValid(canonicalVersion(m.Version)) {
		return nil, xerrors.Errorf("%s: version %q is not a semantic version", path, m.Version)
	}
	return &m, nil
}

func canonicalVersion(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// PackageName is the directory name the Galaxy client expects the plugin to
// be installed under, e.g. steam_ca27391f-2675-49b1-92c0-896d43afa4f8.
func (m *PluginManifest) PackageName() string {
	return "steam_" + m.GUID
}

// ArchiveName is the file name of the release zip archive, e.g.
// steam_v1.0.6.zip.
func (m *PluginManifest) ArchiveName() string {
	return "steam_" + canonicalVersion(m.Version) + ".zip"
}
