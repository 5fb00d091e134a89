package fsbuilder

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"
)

// reconcileExists handles state=exists: create an empty file only if
// absent. The content of a pre-existing file is never altered.
func (r *Reconciler) reconcileExists(ctx context.Context, p Params, res *Result) error {
	dest := p.Dest

	if err := r.makedirs(p); err != nil {
		return err
	}

	if r.isFile(dest) && !r.isSymlink(dest) {
		changed, err := r.applyAttributes(dest, p, false)
		if err != nil {
			return err
		}
		res.Changed = changed
		res.Msg = "file already exists"
		return nil
	}

	// Anything else occupying the path, including a symlink to a
	// regular file, is a conflict rather than a truncation target.
	if r.lexists(dest) {
		if !p.Force {
			return &ConflictError{Dest: dest, Reason: "path exists but is not a regular file"}
		}
		if !p.CheckMode {
			if err := r.forceRemove(dest, p); err != nil {
				return err
			}
		}
	}

	res.Changed = true
	if p.CheckMode {
		res.Msg = "file would be created"
		return nil
	}

	if err := r.fs.WriteFile(dest, nil, DefaultFileMode); err != nil {
		return err
	}
	changed, err := r.applyAttributes(dest, p, true)
	if err != nil {
		return err
	}
	res.Changed = changed
	res.Msg = "file created"
	return nil
}

// reconcileTouch handles state=touch. Touch is defined as "ensure the
// access and modification times are current", which is inherently a
// mutation on every run, so it always reports changed=true. This is a
// deliberate exception to the idempotence contract.
func (r *Reconciler) reconcileTouch(ctx context.Context, p Params, res *Result) error {
	dest := p.Dest
	res.Changed = true

	now := time.Now()
	atime, err := parseTouchTime(p.AccessTime, now)
	if err != nil {
		return &ValidationError{Dest: dest, Reason: err.Error()}
	}
	mtime, err := parseTouchTime(p.ModificationTime, now)
	if err != nil {
		return &ValidationError{Dest: dest, Reason: err.Error()}
	}

	if err := r.makedirs(p); err != nil {
		return err
	}

	if p.CheckMode {
		res.Msg = "file would be touched"
		return nil
	}

	if !r.lexists(dest) {
		if err := r.fs.WriteFile(dest, nil, DefaultFileMode); err != nil {
			return err
		}
	}

	if err := r.fs.Chtimes(dest, atime, mtime); err != nil {
		return err
	}

	changed, err := r.applyAttributes(dest, p, true)
	if err != nil {
		return err
	}
	res.Changed = changed
	res.Msg = "file touched"
	return nil
}

// touchTimeLayouts are the accepted datetime formats for the touch
// access_time and modification_time parameters.
var touchTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTouchTime parses a touch time value: epoch seconds (fractions
// allowed) or one of the accepted datetime layouts. An empty value
// yields fallback; anything unparseable is a hard error.
func parseTouchTime(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		whole, frac := math.Modf(secs)
		return time.Unix(int64(whole), int64(frac*1e9)), nil
	}
	for _, layout := range touchTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time value: %q", value)
}
