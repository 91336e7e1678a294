package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestOutput(t *testing.T) {
	var buf bytes.Buffer
	r := &Runner{Dir: t.TempDir()}
	if err := r.Output(context.Background(), &buf, "sh", "-c", "echo requests==2.31.0; echo progress >&2"); err != nil {
		t.Fatalf("Output: %v", err)
	}
	if got, want := buf.String(), "requests==2.31.0\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRunExitCode(t *testing.T) {
	r := &Runner{}
	err := r.Run(context.Background(), "sh", "-c", "echo 'foo.proto:3:1: Expected top-level statement' >&2; exit 3")
	if err == nil {
		t.Fatalf("Run(exit 3) succeeded, want error")
	}
	if got, want := ExitCode(err), 3; got != want {
		t.Errorf("ExitCode() = %d, want %d", got, want)
	}
}

func TestRunNotFound(t *testing.T) {
	r := &Runner{}
	err := r.Run(context.Background(), "buildtool-no-such-program")
	if err == nil {
		t.Fatalf("Run(missing program) succeeded, want error")
	}
	if got, want := ExitCode(err), -1; got != want {
		t.Errorf("ExitCode() = %d, want %d", got, want)
	}
}

func TestRunLongLine(t *testing.T) {
	ctx, canc := context.WithTimeout(context.Background(), 30*time.Second)
	defer canc()
	r := &Runner{}
	// A single 3 MB line on stdout, followed by a regular line.
	err := r.Run(ctx, "sh", "-c", "head -c 3000000 /dev/zero | tr '\\000' a; echo; echo done")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatalf("Run returned only after the deadline: %v", ctx.Err())
	}
}

func TestLogLines(t *testing.T) {
	long := strings.Repeat("a", 3000000)
	var got []string
	in := long + "\nsecond\r\nunterminated"
	if err := logLines(strings.NewReader(in), func(line string) { got = append(got, line) }); err != nil {
		t.Fatalf("logLines: %v", err)
	}
	if diff := cmp.Diff([]string{long, "second", "unterminated"}, got); diff != "" {
		t.Errorf("logLines: diff (-want +got):\n%s", diff)
	}
}
