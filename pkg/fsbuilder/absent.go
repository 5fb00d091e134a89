package fsbuilder

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// reconcileAbsent handles state=absent. Glob patterns are supported in
// the basename component; a glob with zero matches is a no-op. The
// safety gate refuses the filesystem root and protected system
// directories before anything else happens.
func (r *Reconciler) reconcileAbsent(ctx context.Context, p Params, res *Result) error {
	if err := safetyGate(p); err != nil {
		return err
	}

	dest := p.Dest
	if hasGlobMeta(filepath.Base(dest)) {
		return r.removeGlob(p, res)
	}

	// lexists so a broken symlink still counts as present.
	if !r.lexists(dest) {
		res.Msg = "path does not exist"
		return nil
	}

	res.Changed = true

	if p.DiffMode {
		res.Diff = &Diff{
			Before:       r.removalPreview(dest),
			After:        "",
			BeforeHeader: dest,
			AfterHeader:  dest,
		}
	}

	if p.CheckMode {
		res.Msg = "path would be removed"
		return nil
	}

	if err := r.removePath(dest); err != nil {
		return err
	}
	res.Msg = "path removed"
	return nil
}

// removeGlob expands the pattern and removes every match.
func (r *Reconciler) removeGlob(p Params, res *Result) error {
	matches, err := r.fs.Glob(p.Dest)
	if err != nil {
		return &ValidationError{Dest: p.Dest, Reason: "invalid glob pattern: " + err.Error()}
	}
	if len(matches) == 0 {
		res.Msg = "no paths matched glob pattern"
		return nil
	}

	res.Changed = true

	if p.DiffMode {
		res.Diff = &Diff{
			Before:       strings.Join(matches, "\n") + "\n",
			After:        "",
			BeforeHeader: "glob: " + p.Dest,
			AfterHeader:  "glob: " + p.Dest,
		}
	}

	if p.CheckMode {
		res.Msg = fmt.Sprintf("%d path(s) would be removed", len(matches))
		return nil
	}

	for _, match := range matches {
		if err := r.removePath(match); err != nil {
			return err
		}
	}
	res.Removed = len(matches)
	res.Msg = fmt.Sprintf("%d path(s) removed", len(matches))
	return nil
}

// removePath removes a single path: directories recursively, symlinks
// without following.
func (r *Reconciler) removePath(path string) error {
	if r.isDir(path) && !r.isSymlink(path) {
		return r.fs.RemoveAll(path)
	}
	return r.fs.Remove(path)
}

// removalPreview produces the "before" diff content for a removal:
// file content, or a directory entry listing.
func (r *Reconciler) removalPreview(dest string) string {
	if r.isFile(dest) {
		data, err := r.fs.ReadFile(dest)
		if err != nil {
			return "<binary or unreadable>"
		}
		return string(data)
	}
	if r.isDir(dest) {
		entries, err := r.fs.ReadDir(dest)
		if err != nil {
			return "<unreadable>"
		}
		if len(entries) == 0 {
			return ""
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		return strings.Join(names, "\n") + "\n"
	}
	return ""
}
