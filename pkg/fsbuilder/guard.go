package fsbuilder

import (
	"fmt"
	"path/filepath"
	"strings"
)

// protectedPaths are denied for state=absent exactly, not their
// descendants. A mistyped task must not be able to wipe a core system
// directory.
var protectedPaths = map[string]bool{
	"/etc":  true,
	"/usr":  true,
	"/boot": true,
	"/dev":  true,
}

// checkCreatesRemoves evaluates the creates/removes guard conditions.
// Returns a skip result when the invocation should short-circuit, nil
// otherwise.
func (r *Reconciler) checkCreatesRemoves(p Params) *Result {
	if p.Creates != "" && r.pathExists(p.Creates) {
		return &Result{
			Dest:       p.Dest,
			State:      string(p.State),
			Changed:    false,
			Skipped:    true,
			SkipReason: fmt.Sprintf("'creates' path exists: %s", p.Creates),
			Msg:        fmt.Sprintf("Skipped: '%s' exists", p.Creates),
		}
	}
	if p.Removes != "" && !r.pathExists(p.Removes) {
		return &Result{
			Dest:       p.Dest,
			State:      string(p.State),
			Changed:    false,
			Skipped:    true,
			SkipReason: fmt.Sprintf("'removes' path does not exist: %s", p.Removes),
			Msg:        fmt.Sprintf("Skipped: '%s' does not exist", p.Removes),
		}
	}
	return nil
}

// safetyGate rejects destructive operations on the filesystem root and
// on the protected system directories, unless the unsafe override is
// set. For glob patterns the literal (non-pattern) root directory is
// checked, so /etc/* is denied just like /etc, while a plain
// /etc/subpath is allowed.
func safetyGate(p Params) error {
	if p.UnsafeAllowSystemPaths {
		return nil
	}

	dest := strings.TrimSpace(p.Dest)
	if dest == "" {
		return &SafetyError{Dest: p.Dest, Reason: "empty path"}
	}

	target := dest
	if hasGlobMeta(filepath.Base(dest)) {
		target = filepath.Dir(dest)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return &SafetyError{Dest: p.Dest, Reason: "cannot resolve path: " + err.Error()}
	}
	abs = filepath.Clean(abs)

	if abs == "/" {
		return &SafetyError{Dest: p.Dest, Reason: "refusing to remove the filesystem root (set unsafe_allow_system_paths to override)"}
	}
	if protectedPaths[abs] {
		return &SafetyError{Dest: p.Dest, Reason: fmt.Sprintf("%s is a protected system path (set unsafe_allow_system_paths to override)", abs)}
	}
	return nil
}

// hasGlobMeta reports whether s contains glob pattern characters.
func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
