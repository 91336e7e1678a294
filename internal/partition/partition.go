// Package partition pulls the schema files listed in a manifest into one
// partition directory.
package partition

import (
	"bufio"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/galaxy-steam/buildtool"
	"github.com/galaxy-steam/buildtool/internal/fetch"
	"github.com/galaxy-steam/buildtool/internal/normalize"
	"github.com/galaxy-steam/buildtool/internal/trace"
	"github.com/google/renameio"
	"golang.org/x/xerrors"
)

// Partitioner drives the fetch and normalize steps for every URL of a
// manifest, strictly in manifest order.
type Partitioner struct {
	Fetcher    fetch.Retriever
	Normalizer *normalize.Normalizer

	// RemotePrefix is stripped from each URL to obtain the local file name.
	RemotePrefix string

	// Silent disables the per-URL progress messages.
	Silent bool
}

// LocalName derives the on-disk name of url: the URL without RemotePrefix,
// or its last path element if url does not start with RemotePrefix.
func (p *Partitioner) LocalName(url string) string {
	if p.RemotePrefix != "" && strings.HasPrefix(url, p.RemotePrefix) {
		if name := strings.TrimPrefix(url, p.RemotePrefix); !strings.Contains(name, "/") {
			return name
		}
	}
	if idx := strings.IndexAny(url, "?#"); idx > -1 {
		url = url[:idx]
	}
	return path.Base(url)
}

// ReadManifest returns the URLs listed in the manifest at fn, one per
// non-blank line, in file order.
func ReadManifest(fn string) ([]string, error) {
	f, err := os.Open(fn)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &buildtool.Error{Kind: buildtool.ManifestNotFound, Subject: fn, Err: err}
		}
		return nil, &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: fn, Err: err}
	}
	defer f.Close()
	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: fn, Err: err}
	}
	return urls, nil
}

// Pull fetches every URL listed in manifest and writes the normalized result
// to targetDir. A file of the same name is replaced; when two URLs map to the
// same name, the later one wins. The first failure aborts the run and may
// leave targetDir partially populated.
func (p *Partitioner) Pull(ctx context.Context, targetDir, manifest string) error {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: targetDir, Err: err}
	}
	urls, err := ReadManifest(manifest)
	if err != nil {
		return err
	}
	for _, u := range urls {
		if !p.Silent {
			log.Infof("Retrieving: %s", u)
		}
		if err := p.pull1(ctx, targetDir, u); err != nil {
			return err
		}
	}
	return nil
}

func (p *Partitioner) pull1(ctx context.Context, targetDir, url string) error {
	name := p.LocalName(url)
	if name == "" || name == "." || name == "/" {
		return &buildtool.Error{
			Kind:    buildtool.FilesystemFailure,
			Subject: url,
			Err:     xerrors.New("cannot derive a file name"),
		}
	}
	ev := trace.Event("pull", name, "url", url, "dir", targetDir)
	defer ev.Done()
	data, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	excluded := p.Normalizer.Excluded(name)
	f := p.Normalizer.Normalize(normalize.File{Name: name, Content: data}, excluded)
	if excluded {
		log.Debugf("%s: excluded from normalization", name)
	} else if f.Name != name {
		log.Debugf("%s: renamed to %s", name, f.Name)
	}
	fn := filepath.Join(targetDir, f.Name)
	if err := renameio.WriteFile(fn, []byte(f.Content), 0644); err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: fn, Err: err}
	}
	return nil
}
