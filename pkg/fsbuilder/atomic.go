package fsbuilder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// commitContent replaces dest with content atomically: stage into a
// temp file in dest's own directory (so the final rename is
// same-filesystem), run the optional validate command against the
// staged path, take the optional backup, then rename into place. The
// staged file is removed on every failure path; a validation failure
// leaves dest untouched and produces no backup.
func (r *Reconciler) commitContent(ctx context.Context, dest string, content []byte, p Params, res *Result) (err error) {
	dir := filepath.Dir(dest)
	if dir == "" {
		dir = "."
	}

	tmp, err := r.fs.TempFile(dir, ".fsbuilder-*")
	if err != nil {
		return fmt.Errorf("failed to create staging file in %s: %w", dir, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = r.fs.Remove(tmp)
		}
	}()

	if err := r.fs.WriteFile(tmp, content, DefaultFileMode); err != nil {
		return fmt.Errorf("failed to write staging file: %w", err)
	}

	// The staged file is created 0600; carry over the destination's
	// current mode, or the default for a new file, so the rename does
	// not change permissions as a side effect.
	mode := os.FileMode(DefaultFileMode)
	if info, err := r.fs.Stat(dest); err == nil {
		mode = info.Mode().Perm()
	}
	if err := r.fs.Chmod(tmp, mode); err != nil {
		return fmt.Errorf("failed to set staging file mode: %w", err)
	}

	if p.ValidateCmd != "" {
		if err := r.validateStaged(ctx, tmp, p.ValidateCmd); err != nil {
			return err
		}
	}

	if p.Backup && r.isFile(dest) {
		backup, err := r.backupLocal(dest)
		if err != nil {
			return err
		}
		res.BackupFile = backup
	}

	if err := r.fs.Rename(tmp, dest); err != nil {
		return fmt.Errorf("failed to move staging file into place: %w", err)
	}
	committed = true
	return nil
}

// validateStaged substitutes the staged path into the validate command
// template and runs it. The template must contain a %s placeholder for
// the staged path; its absence is a configuration error.
func (r *Reconciler) validateStaged(ctx context.Context, stagedPath, cmdTemplate string) error {
	if !strings.Contains(cmdTemplate, "%s") {
		return &ValidationError{Reason: "validate command must contain a %s placeholder for the staged file path"}
	}
	cmd := strings.Replace(cmdTemplate, "%s", stagedPath, 1)

	rc, stdout, stderr, err := r.runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to run validate command: %w", err)
	}
	if rc != 0 {
		r.logger.Debug().
			Int("rc", rc).
			Str("stdout", stdout).
			Str("stderr", stderr).
			Msg("validate command failed")
		return &ValidateCmdError{Cmd: cmd, RC: rc, Stdout: stdout, Stderr: stderr}
	}
	return nil
}

// backupLocal copies dest to a timestamped sibling and returns the
// backup path.
func (r *Reconciler) backupLocal(dest string) (string, error) {
	backup := fmt.Sprintf("%s.%d.bak", dest, time.Now().Unix())
	if err := r.copyFile(dest, backup); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", dest, err)
	}
	r.logger.Debug().Str("dest", dest).Str("backup", backup).Msg("created backup")
	return backup, nil
}

// copyFile copies a regular file's content and permission bits.
func (r *Reconciler) copyFile(src, dst string) error {
	data, err := r.fs.ReadFile(src)
	if err != nil {
		return err
	}
	mode := os.FileMode(DefaultFileMode)
	if info, err := r.fs.Stat(src); err == nil {
		mode = info.Mode().Perm()
	}
	return r.fs.WriteFile(dst, data, mode)
}

// forceRemove clears a conflicting path before replacement. With
// force_backup the path is renamed to dest.old (numeric suffix on
// collision) instead of being deleted.
func (r *Reconciler) forceRemove(dest string, p Params) error {
	if p.ForceBackup {
		backup := dest + ".old"
		if r.lexists(backup) {
			backup = fmt.Sprintf("%s.old.%d", dest, time.Now().Unix())
		}
		return r.fs.Rename(dest, backup)
	}
	if r.isDir(dest) && !r.isSymlink(dest) {
		return r.fs.RemoveAll(dest)
	}
	return r.fs.Remove(dest)
}

// diffBefore reads a file's content for the diff report. Unreadable
// content degrades to a placeholder rather than failing the call.
func (r *Reconciler) diffBefore(path string) string {
	if !r.isFile(path) {
		return ""
	}
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return "<binary or unreadable>"
	}
	return string(data)
}
