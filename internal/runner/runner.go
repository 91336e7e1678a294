// Package runner executes external tools (protoc, pip, pytest) and forwards
// their output to the log.
package runner

import (
	"bufio"
	"context"
	"io"
	"io/ioutil"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/galaxy-steam/buildtool/internal/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

// Runner runs one child process at a time, blocking until it exits.
type Runner struct {
	// Dir is the working directory of the child. Empty means the current
	// directory.
	Dir string

	// Env, if non-nil, replaces the environment of the child.
	Env []string
}

// Run runs name with args. Standard output and standard error are logged
// line by line. A non-zero exit status is returned as an error which wraps
// *exec.ExitError.
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	return r.run(ctx, nil, name, args...)
}

// Output is like Run, but copies standard output to w instead of logging it.
func (r *Runner) Output(ctx context.Context, w io.Writer, name string, args ...string) error {
	return r.run(ctx, w, name, args...)
}

func (r *Runner) run(ctx context.Context, stdout io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Env = r.Env
	log.Info("running", "cmd", strings.Join(cmd.Args, " "))
	ev := trace.Event("exec", filepath.Base(name), "args", strings.Join(args, " "))
	defer ev.Done()

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return xerrors.Errorf("%v: %w", cmd.Args, err)
	}

	prog := filepath.Base(name)
	var eg errgroup.Group
	eg.Go(func() error {
		if stdout != nil {
			_, err := io.Copy(stdout, outPipe)
			return err
		}
		return logLines(outPipe, func(line string) { log.Info(line, "cmd", prog) })
	})
	eg.Go(func() error {
		return logLines(errPipe, func(line string) { log.Warn(line, "cmd", prog) })
	})
	copyErr := eg.Wait()
	if err := cmd.Wait(); err != nil {
		return xerrors.Errorf("%v: %w", cmd.Args, err)
	}
	if copyErr != nil {
		return xerrors.Errorf("%v: reading output: %w", cmd.Args, copyErr)
	}
	return nil
}

// logLines calls logf for every line read from r. Lines have no length limit:
// the pipe must be drained until EOF, or the child blocks writing to it.
func logLines(r io.Reader, logf func(string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			logf(strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			io.Copy(ioutil.Discard, r)
			return err
		}
	}
}

// ExitCode returns the exit status of the child process wrapped in err, or -1
// if err does not stem from a process exit.
func ExitCode(err error) int {
	var ee *exec.ExitError
	if xerrors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}
