// Package clean removes previously fetched or generated files so that the
// next pull or generate run starts from an empty directory.
package clean

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/galaxy-steam/buildtool"
)

// Clear deletes the regular files ending in ext directly inside dir.
// Subdirectories are not descended into. Clearing an empty or missing
// directory is a no-op.
func Clear(dir, ext string) error {
	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: dir, Err: err}
	}
	for _, fi := range fis {
		if !fi.Mode().IsRegular() || !strings.HasSuffix(fi.Name(), ext) {
			continue
		}
		fn := filepath.Join(dir, fi.Name())
		if err := os.Remove(fn); err != nil && !os.IsNotExist(err) {
			return &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: fn, Err: err}
		}
	}
	return nil
}
