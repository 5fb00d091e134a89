package fsbuilder

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// reconcileCopy handles state=copy (and state=template, which the
// controller resolves to copy by rendering content before invocation).
// Exactly one of content or src must be set.
func (r *Reconciler) reconcileCopy(ctx context.Context, p Params, res *Result) error {
	if p.Content == nil && p.Src == "" {
		return &ValidationError{Dest: p.Dest, Reason: "either 'content' or 'src' must be provided for state=copy"}
	}

	if err := r.makedirs(p); err != nil {
		return err
	}

	if p.Content != nil {
		return r.copyFromContent(ctx, p, res)
	}
	return r.copyFromSrc(ctx, p, res)
}

// copyFromContent writes a content literal to dest.
func (r *Reconciler) copyFromContent(ctx context.Context, p Params, res *Result) error {
	dest := p.Dest

	if r.pathExists(dest) && !r.isFile(dest) {
		if !p.Force {
			return &ConflictError{Dest: dest, Reason: "destination exists but is not a regular file"}
		}
		if !p.CheckMode {
			if err := r.forceRemove(dest, p); err != nil {
				return err
			}
		}
	}

	changed, err := r.writeContent(ctx, dest, []byte(*p.Content), p, res)
	if err != nil {
		return err
	}
	if !p.CheckMode {
		if changed, err = r.applyAttributes(dest, p, changed); err != nil {
			return err
		}
	}
	res.Changed = changed
	if changed {
		res.Msg = "content updated"
	} else {
		res.Msg = "content already correct"
	}
	return nil
}

// copyFromSrc copies the bytes of src to dest. The source file is
// never consumed: content is staged from a read of src, so src is
// byte-identical before and after the call.
func (r *Reconciler) copyFromSrc(ctx context.Context, p Params, res *Result) error {
	dest, src := p.Dest, p.Src

	if !r.pathExists(src) {
		return fmt.Errorf("source file not found: %s", src)
	}

	if r.pathExists(dest) && !r.isFile(dest) {
		if !p.Force {
			return &ConflictError{Dest: dest, Reason: "destination exists but is not a regular file"}
		}
		if !p.CheckMode {
			if err := r.forceRemove(dest, p); err != nil {
				return err
			}
		}
	}

	srcSum, err := r.sha256Of(src)
	if err != nil {
		return err
	}
	if r.isFile(dest) {
		destSum, err := r.sha256Of(dest)
		if err != nil {
			return err
		}
		if srcSum == destSum {
			// Content matches; attributes may still drift.
			changed, err := r.applyAttributes(dest, p, false)
			if err != nil {
				return err
			}
			res.Changed = changed
			res.Msg = "file already correct"
			return nil
		}
	}

	res.Changed = true

	if p.DiffMode {
		after := "<binary or unreadable>"
		if data, err := r.fs.ReadFile(src); err == nil {
			after = string(data)
		}
		res.Diff = &Diff{
			Before:       r.diffBefore(dest),
			After:        after,
			BeforeHeader: dest,
			AfterHeader:  dest,
		}
	}

	if p.CheckMode {
		res.Msg = "file would be updated"
		return nil
	}

	data, err := r.fs.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read source %s: %w", src, err)
	}
	if err := r.commitContent(ctx, dest, data, p, res); err != nil {
		return err
	}

	changed, err := r.applyAttributes(dest, p, true)
	if err != nil {
		return err
	}
	res.Changed = changed
	res.Msg = "file updated"
	return nil
}

// writeContent compares content against the existing file and commits
// it when different. Returns the change decision; in check mode the
// decision is reported without committing.
func (r *Reconciler) writeContent(ctx context.Context, dest string, content []byte, p Params, res *Result) (bool, error) {
	if r.isFile(dest) {
		existing, err := r.fs.ReadFile(dest)
		if err != nil {
			return false, fmt.Errorf("failed to read %s: %w", dest, err)
		}
		if bytes.Equal(existing, content) {
			return false, nil
		}
	}

	if p.DiffMode {
		res.Diff = &Diff{
			Before:       r.diffBefore(dest),
			After:        string(content),
			BeforeHeader: dest,
			AfterHeader:  dest,
		}
	}

	if p.CheckMode {
		return true, nil
	}

	if err := r.commitContent(ctx, dest, content, p, res); err != nil {
		return false, err
	}
	return true, nil
}

// sha256Of returns the hex content digest of a file.
func (r *Reconciler) sha256Of(path string) (string, error) {
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for checksum: %w", path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
