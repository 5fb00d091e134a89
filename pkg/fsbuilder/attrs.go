package fsbuilder

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
)

// AttrSpec is a requested ownership/permission state for a path. Empty
// fields are left alone.
type AttrSpec struct {
	Owner  string
	Group  string
	Mode   string
	Follow bool
}

// Empty reports whether the spec requests nothing.
func (s AttrSpec) Empty() bool {
	return s.Owner == "" && s.Group == "" && s.Mode == ""
}

// AttributeApplier applies filesystem attributes to a path if they
// differ from the spec, folding its own change decision into the
// running changed flag. It is called after every successful operation,
// including no-op branches, so attribute drift alone can surface as a
// reported change. Implementations must not mutate when checkMode is
// set.
type AttributeApplier interface {
	Apply(path string, spec AttrSpec, changed bool, checkMode bool) (bool, error)
}

// NoopApplier ignores attribute requests. Useful for tests and for
// embedders that enforce attributes through another channel.
type NoopApplier struct{}

// Apply implements AttributeApplier.
func (NoopApplier) Apply(_ string, _ AttrSpec, changed bool, _ bool) (bool, error) {
	return changed, nil
}

// OSAttributeApplier enforces owner, group, and mode with chown/chmod
// against the host filesystem.
type OSAttributeApplier struct{}

// Apply implements AttributeApplier.
func (OSAttributeApplier) Apply(path string, spec AttrSpec, changed bool, checkMode bool) (bool, error) {
	if spec.Empty() {
		return changed, nil
	}

	info, err := os.Lstat(path)
	if err != nil {
		return changed, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	isLink := info.Mode()&os.ModeSymlink != 0
	if isLink && spec.Follow {
		info, err = os.Stat(path)
		if err != nil {
			return changed, fmt.Errorf("failed to stat symlink target of %s: %w", path, err)
		}
	}

	// Mode. Symlinks themselves carry no meaningful mode; only applied
	// through the link when following.
	if spec.Mode != "" && (!isLink || spec.Follow) {
		want, err := parseMode(spec.Mode)
		if err != nil {
			return changed, &ValidationError{Dest: path, Reason: err.Error()}
		}
		if info.Mode().Perm() != want {
			changed = true
			if !checkMode {
				if err := os.Chmod(path, want); err != nil {
					return changed, fmt.Errorf("failed to chmod %s: %w", path, err)
				}
			}
		}
	}

	// Ownership.
	if spec.Owner != "" || spec.Group != "" {
		curUID, curGID, ok := fileOwner(info)
		if !ok {
			return changed, fmt.Errorf("ownership not supported on this platform: %s", path)
		}
		wantUID, wantGID := -1, -1
		if spec.Owner != "" {
			if wantUID, err = resolveOwner(spec.Owner); err != nil {
				return changed, &ValidationError{Dest: path, Reason: err.Error()}
			}
		}
		if spec.Group != "" {
			if wantGID, err = resolveGroup(spec.Group); err != nil {
				return changed, &ValidationError{Dest: path, Reason: err.Error()}
			}
		}
		if (wantUID >= 0 && wantUID != curUID) || (wantGID >= 0 && wantGID != curGID) {
			changed = true
			if !checkMode {
				chown := os.Chown
				if isLink && !spec.Follow {
					chown = os.Lchown
				}
				if err := chown(path, wantUID, wantGID); err != nil {
					return changed, fmt.Errorf("failed to chown %s: %w", path, err)
				}
			}
		}
	}

	return changed, nil
}

// parseMode parses an octal mode string like "0644" or "755".
func parseMode(mode string) (os.FileMode, error) {
	v, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q: must be octal", mode)
	}
	return os.FileMode(v), nil
}

// resolveOwner resolves a user name or numeric uid to a uid.
func resolveOwner(owner string) (int, error) {
	if uid, err := strconv.Atoi(owner); err == nil {
		return uid, nil
	}
	u, err := user.Lookup(owner)
	if err != nil {
		return -1, fmt.Errorf("unknown owner %q", owner)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return -1, fmt.Errorf("non-numeric uid for owner %q", owner)
	}
	return uid, nil
}

// resolveGroup resolves a group name or numeric gid to a gid.
func resolveGroup(group string) (int, error) {
	if gid, err := strconv.Atoi(group); err == nil {
		return gid, nil
	}
	g, err := user.LookupGroup(group)
	if err != nil {
		return -1, fmt.Errorf("unknown group %q", group)
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return -1, fmt.Errorf("non-numeric gid for group %q", group)
	}
	return gid, nil
}
