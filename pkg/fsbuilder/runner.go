package fsbuilder

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner executes an external command synchronously to
// completion and reports its exit code and captured output. The engine
// imposes no timeout of its own; implementations are free to, and the
// default runner honors context cancellation.
type CommandRunner interface {
	Run(ctx context.Context, command string) (rc int, stdout, stderr string, err error)
}

// ShellRunner runs commands through a shell. The zero value is not
// usable; construct with NewShellRunner.
type ShellRunner struct {
	// Shell is the shell binary, defaulting to sh.
	Shell string
	// ShellArgs are passed before the command string, defaulting to -c.
	ShellArgs []string
	// WorkDir sets the working directory for the command.
	WorkDir string
}

// NewShellRunner returns a runner using the platform shell.
func NewShellRunner() *ShellRunner {
	if strings.Contains(strings.ToLower(os.Getenv("OS")), "windows") {
		return &ShellRunner{Shell: "cmd", ShellArgs: []string{"/c"}}
	}
	return &ShellRunner{Shell: "sh", ShellArgs: []string{"-c"}}
}

// Run implements CommandRunner. A non-zero exit is reported through rc,
// not err; err is reserved for failures to start the command at all.
func (r *ShellRunner) Run(ctx context.Context, command string) (int, string, string, error) {
	args := append(append([]string{}, r.ShellArgs...), command)
	cmd := exec.CommandContext(ctx, r.Shell, args...)
	if r.WorkDir != "" {
		cmd.Dir = r.WorkDir
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	stdout := stdoutBuf.String()
	stderr := stderrBuf.String()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), stdout, stderr, nil
		}
		return -1, stdout, stderr, err
	}
	return 0, stdout, stderr, nil
}
