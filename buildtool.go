// Package buildtool contains the types shared by the buildtool verbs: the
// schema partitions, the error taxonomy and the per-platform settings.
package buildtool

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
)

// Role identifies which partition a schema file belongs to.
type Role int

const (
	// Safe schema files are fetched automatically and compiled as-is.
	Safe Role = iota

	// Conflicting schema files are fetched for human review only. Nothing
	// reads them back into code generation.
	Conflicting

	// Override schema files are maintained by hand and replace Safe files of
	// the same name during code generation.
	Override
)

func (r Role) String() string {
	switch r {
	case Safe:
		return "safe"
	case Conflicting:
		return "conflicting"
	case Override:
		return "override"
	}
	return "unknown"
}

// SchemaFile is one flat schema file as stored in its partition directory.
type SchemaFile struct {
	Name    string // e.g. “steammessages_base.proto”
	Content []byte
	Role    Role
}

// Collection holds the schema files of each partition, in directory order.
type Collection map[Role][]SchemaFile

// LoadDir reads every regular file directly inside dir into the collection
// under role r, replacing what was previously loaded for r. A missing
// directory yields an empty partition.
func (c Collection) LoadDir(r Role, dir string) error {
	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			c[r] = nil
			return nil
		}
		return &Error{Kind: FilesystemFailure, Subject: dir, Err: err}
	}
	files := make([]SchemaFile, 0, len(fis))
	for _, fi := range fis {
		if !fi.Mode().IsRegular() {
			continue
		}
		fn := filepath.Join(dir, fi.Name())
		b, err := ioutil.ReadFile(fn)
		if err != nil {
			return &Error{Kind: FilesystemFailure, Subject: fn, Err: err}
		}
		files = append(files, SchemaFile{
			Name:    fi.Name(),
			Content: b,
			Role:    r,
		})
	}
	c[r] = files
	return nil
}

// Overlay flattens the given partitions into one set of files keyed by name.
// Partitions are applied in argument order: a file from a later partition
// replaces an earlier file of the same name. The result is sorted by name.
func (c Collection) Overlay(roles ...Role) []SchemaFile {
	byName := make(map[string]SchemaFile)
	for _, r := range roles {
		for _, f := range c[r] {
			byName[f.Name] = f
		}
	}
	result := make([]SchemaFile, 0, len(byName))
	for _, f := range byName {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
