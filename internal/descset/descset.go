// Package descset summarizes the FileDescriptorSet which generate writes
// with -descriptor_set, as a quick check of what the compiler saw.
package descset

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/galaxy-steam/buildtool"
	"golang.org/x/xerrors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Read parses the binary FileDescriptorSet at path.
func Read(path string) (*descriptorpb.FileDescriptorSet, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, &buildtool.Error{Kind: buildtool.FilesystemFailure, Subject: path, Err: err}
	}
	var set descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(b, &set); err != nil {
		return nil, &buildtool.Error{Kind: buildtool.DecodeFailure, Subject: path, Err: err}
	}
	return &set, nil
}

// Summary describes one schema file of a descriptor set.
type Summary struct {
	Name     string
	Package  string
	Syntax   string
	Messages int // including nested messages
	Enums    int // including nested enums
	Services int

	PyGenericServices bool
}

// Summarize returns one Summary per file of set, in set order.
func Summarize(set *descriptorpb.FileDescriptorSet) []Summary {
	result := make([]Summary, 0, len(set.GetFile()))
	for _, fd := range set.GetFile() {
		s := Summary{
			Name:              fd.GetName(),
			Package:           fd.GetPackage(),
			Syntax:            fd.GetSyntax(),
			Enums:             len(fd.GetEnumType()),
			Services:          len(fd.GetService()),
			PyGenericServices: fd.GetOptions().GetPyGenericServices(),
		}
		if s.Syntax == "" {
			s.Syntax = "proto2"
		}
		var walk func([]*descriptorpb.DescriptorProto)
		walk = func(msgs []*descriptorpb.DescriptorProto) {
			for _, m := range msgs {
				s.Messages++
				s.Enums += len(m.GetEnumType())
				walk(m.GetNestedType())
			}
		}
		walk(fd.GetMessageType())
		result = append(result, s)
	}
	return result
}

// Write prints one line per summary to w.
func Write(w io.Writer, summaries []Summary) error {
	for _, s := range summaries {
		if _, err := fmt.Fprintf(w, "%s\tpackage=%q\tsyntax=%s\tmessages=%d\tenums=%d\tservices=%d\tpy_generic_services=%v\n",
			s.Name, s.Package, s.Syntax, s.Messages, s.Enums, s.Services, s.PyGenericServices); err != nil {
			return xerrors.Errorf("writing summary: %w", err)
		}
	}
	return nil
}
