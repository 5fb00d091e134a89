package fsbuilder

import (
	"context"
	"io/fs"
	"strings"
)

// reconcileDirectory handles state=directory. An existing directory
// only has attributes applied; with recurse, attributes are applied to
// every entry in the subtree and each individual change is OR'd into
// the aggregate flag.
func (r *Reconciler) reconcileDirectory(ctx context.Context, p Params, res *Result) error {
	// Strip trailing slashes so later joins cannot produce double-slash
	// artifacts; a bare "/" stays itself.
	dest := strings.TrimRight(p.Dest, "/")
	if dest == "" {
		dest = "/"
	}
	res.Dest = dest

	if err := r.makedirs(p); err != nil {
		return err
	}

	if r.isDir(dest) && !r.isSymlink(dest) {
		changed, err := r.applyAttributes(dest, p, false)
		if err != nil {
			return err
		}

		if p.Recurse {
			walkErr := r.fs.WalkDir(dest, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if path == dest {
					return nil
				}
				changed, err = r.applyAttributes(path, p, changed)
				return err
			})
			if walkErr != nil {
				return walkErr
			}
		}

		res.Changed = changed
		if changed {
			res.Msg = "directory attributes changed"
		} else {
			res.Msg = "directory already exists"
		}
		return nil
	}

	if r.lexists(dest) {
		if !p.Force {
			return &ConflictError{Dest: dest, Reason: "path exists but is not a directory"}
		}
		if !p.CheckMode {
			if err := r.forceRemove(dest, p); err != nil {
				return err
			}
		}
	}

	res.Changed = true
	if p.CheckMode {
		res.Msg = "directory would be created"
		return nil
	}

	if err := r.fs.MkdirAll(dest, DefaultDirMode); err != nil {
		return err
	}
	changed, err := r.applyAttributes(dest, p, true)
	if err != nil {
		return err
	}
	res.Changed = changed
	res.Msg = "directory created"
	return nil
}
