package fsbuilder

import (
	"context"
	"fmt"
)

// reconcileLink handles state=link. The idempotency check compares the
// current symlink target string verbatim against the requested src; no
// path resolution or normalization is applied, so /a/b and /a/./b are
// different targets.
func (r *Reconciler) reconcileLink(ctx context.Context, p Params, res *Result) error {
	dest, src := p.Dest, p.Src

	if err := r.makedirs(p); err != nil {
		return err
	}

	if r.isSymlink(dest) {
		target, err := r.fs.Readlink(dest)
		if err != nil {
			return fmt.Errorf("failed to read link %s: %w", dest, err)
		}
		if target == src {
			changed, err := r.applyAttributes(dest, p, false)
			if err != nil {
				return err
			}
			res.Changed = changed
			res.Msg = "symlink already correct"
			return nil
		}
	}

	if r.lexists(dest) {
		if !p.Force {
			return &ConflictError{Dest: dest, Reason: "path exists but is not the correct symlink"}
		}
		res.Changed = true
		if !p.CheckMode {
			if err := r.forceRemove(dest, p); err != nil {
				return err
			}
		}
	} else {
		res.Changed = true
	}

	if p.CheckMode {
		res.Msg = "symlink would be created"
		return nil
	}

	if err := r.fs.Symlink(src, dest); err != nil {
		return err
	}
	changed, err := r.applyAttributes(dest, p, true)
	if err != nil {
		return err
	}
	res.Changed = changed
	res.Msg = "symlink created"
	return nil
}

// reconcileHard handles state=hard. Two paths are the same hard link
// only when both device and inode numbers match; an equal inode on a
// different device is a different file and must be relinked.
func (r *Reconciler) reconcileHard(ctx context.Context, p Params, res *Result) error {
	dest, src := p.Dest, p.Src

	if err := r.makedirs(p); err != nil {
		return err
	}

	if !r.pathExists(src) {
		return fmt.Errorf("source file does not exist: %s", src)
	}

	if r.pathExists(dest) {
		destID, err := r.fs.Identity(dest)
		if err != nil {
			return err
		}
		srcID, err := r.fs.Identity(src)
		if err != nil {
			return err
		}
		if destID == srcID {
			changed, err := r.applyAttributes(dest, p, false)
			if err != nil {
				return err
			}
			res.Changed = changed
			res.Msg = "hard link already correct"
			return nil
		}
	}

	if r.lexists(dest) {
		if !p.Force {
			return &ConflictError{Dest: dest, Reason: "path exists but is not the correct hard link"}
		}
		res.Changed = true
		if !p.CheckMode {
			if p.Backup && r.isFile(dest) {
				backup, err := r.backupLocal(dest)
				if err != nil {
					return err
				}
				res.BackupFile = backup
			}
			if err := r.forceRemove(dest, p); err != nil {
				return err
			}
		}
	} else {
		res.Changed = true
	}

	if p.CheckMode {
		res.Msg = "hard link would be created"
		return nil
	}

	if err := r.fs.Link(src, dest); err != nil {
		return err
	}
	changed, err := r.applyAttributes(dest, p, true)
	if err != nil {
		return err
	}
	res.Changed = changed
	res.Msg = "hard link created"
	return nil
}
