// Package pack assembles the plugin directory (pinned Python dependencies
// plus the plugin sources) and optionally compresses it into a release
// archive. All dependency handling is delegated to pip and pip-tools.
package pack

import (
	"context"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/galaxy-steam/buildtool"
	"github.com/galaxy-steam/buildtool/internal/runner"
	"github.com/klauspost/compress/zip"
	"golang.org/x/xerrors"
)

// pipVersion works around pip 22.1+ failing to import BAR_TYPES from
// pip._internal.cli.progress_bars.
const pipVersion = "pip==22.0.4"

// Builder produces a self-contained plugin directory.
type Builder struct {
	Platform buildtool.Platform

	// SourceDir is copied into the output directory last.
	SourceDir string

	// Requirements is the pip-compile input, e.g. requirements/app.txt.
	Requirements string

	// PythonVersion is passed to pip install --python-version, e.g. “37”.
	PythonVersion string

	Runner *runner.Runner
}

// Build recreates output from scratch. If zipArchive is non-empty, output is
// additionally compressed into that file.
func (b *Builder) Build(ctx context.Context, output, zipArchive string) error {
	if _, err := os.Stat(output); err == nil {
		log.Infof("--> Removing %s directory", output)
		if err := os.RemoveAll(output); err != nil {
			return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: output, Err: err}
		}
	}

	log.Infof("--> Pinning %s", pipVersion)
	if err := b.Runner.Run(ctx, b.Platform.PythonExe, "-m", "pip", "install", "-U", pipVersion); err != nil {
		return err
	}
	if err := b.Runner.Run(ctx, "pip", "install", "-U", pipVersion, "wheel", "pip-tools", "setuptools"); err != nil {
		return err
	}

	// pip requires --no-deps if --platform is used, so dependencies need to
	// be flattened with pip-compile first.
	log.Infof("--> Flattening dependencies to temporary requirements file")
	tmp, err := ioutil.TempFile("", "buildtool-requirements")
	if err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: os.TempDir(), Err: err}
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()
	if err := b.Runner.Output(ctx, tmp, "pip-compile", b.Requirements, "--output-file=-"); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: tmp.Name(), Err: err}
	}

	log.Infof("--> Installing with pip for Python %s on %s", b.PythonVersion, b.Platform.PipPlatform)
	if err := b.Runner.Run(ctx, "pip", "install",
		"-r", tmp.Name(),
		"--python-version", b.PythonVersion,
		"--platform", b.Platform.PipPlatform,
		"--target", output,
		"--no-compile",
		"--no-deps"); err != nil {
		return err
	}

	log.Infof("--> Copying source files")
	if err := CopyTree(b.SourceDir, output); err != nil {
		return err
	}

	if zipArchive != "" {
		log.Infof("--> Compressing to %s", zipArchive)
		if err := Zip(output, zipArchive); err != nil {
			return err
		}
	}
	return nil
}

// CopyTree copies the regular files and directories below src into dst,
// replacing existing files. Symlinks and other special files are skipped.
func CopyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: path, Err: err}
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(dst, rel)
		if info.IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: dest, Err: err}
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return copyFile(path, dest, info.Mode().Perm())
	})
}

func copyFile(src, dest string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: src, Err: err}
	}
	defer in.Close()
	out, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: dest, Err: err}
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: dest, Err: err}
	}
	if err := out.Close(); err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: dest, Err: err}
	}
	return nil
}

// Zip writes the contents of dir into the zip archive at archive. Entry
// names are relative to dir and use forward slashes.
func Zip(dir, archive string) error {
	f, err := os.Create(archive)
	if err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: archive, Err: err}
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == dir || !(info.IsDir() || info.Mode().IsRegular()) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
			_, err := zw.CreateHeader(hdr)
			return err
		}
		hdr.Method = zip.Deflate
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(w, in)
		return err
	})
	if err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: archive, Err: xerrors.Errorf("zip %s: %w", dir, err)}
	}
	if err := zw.Close(); err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: archive, Err: err}
	}
	if err := f.Close(); err != nil {
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: archive, Err: err}
	}
	return nil
}

// Install builds the plugin directly into the Galaxy plugin directory of the
// host.
func (b *Builder) Install(ctx context.Context, m *buildtool.PluginManifest) error {
	if b.Platform.DistDir == "" {
		return xerrors.Errorf("install: no Galaxy plugin directory known for this platform")
	}
	return b.Build(ctx, filepath.Join(b.Platform.DistDir, m.PackageName()), "")
}

// Pack builds the plugin into a temporary directory named after its GUID
// below dir, compresses it to dir/<ArchiveName> and removes the directory.
// It returns the path of the archive.
func (b *Builder) Pack(ctx context.Context, dir string, m *buildtool.PluginManifest) (string, error) {
	output := filepath.Join(dir, m.PackageName())
	archive := filepath.Join(dir, m.ArchiveName())
	if err := b.Build(ctx, output, archive); err != nil {
		return "", err
	}
	if err := os.RemoveAll(output); err != nil {
		return "", &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: output, Err: err}
	}
	return archive, nil
}
