package buildtool

import "fmt"

// Kind classifies a failure. Kinds are errors themselves so that callers can
// test for them with xerrors.Is(err, buildtool.NetworkFailure).
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	NetworkFailure    Kind = "network failure"
	DecodeFailure     Kind = "decode failure"
	FilesystemFailure Kind = "filesystem failure"
	CompilerFailure   Kind = "compiler failure"
	ManifestNotFound  Kind = "manifest not found"
)

// Error is a failure of one operation on one URL or file path.
type Error struct {
	Kind    Kind
	Subject string // URL or file path
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Subject)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Subject, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}
