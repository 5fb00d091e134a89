package fsbuilder

import (
	"fmt"
)

// --- Error Types ---

// ValidationError reports a bad combination of parameters or a missing
// required option. The invocation fails before any mutation is
// attempted.
type ValidationError struct {
	Dest   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Dest == "" {
		return fmt.Sprintf("invalid parameters: %s", e.Reason)
	}
	return fmt.Sprintf("invalid parameters for %s: %s", e.Dest, e.Reason)
}

// ConflictError reports that the destination exists with the wrong type
// and force was not set. Resolvable by the caller supplying force.
type ConflictError struct {
	Dest   string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict at %s: %s (use force=true to replace)", e.Dest, e.Reason)
}

// SafetyError reports a destructive operation aimed at a protected
// path. Resolvable only by the explicit unsafe override.
type SafetyError struct {
	Dest   string
	Reason string
}

func (e *SafetyError) Error() string {
	return fmt.Sprintf("refusing to operate on %q: %s", e.Dest, e.Reason)
}

// ValidateCmdError reports a validate command that exited non-zero. The
// staged file has been cleaned up and the destination is untouched.
//
// The primary message carries only the return code and captured output,
// never the command text, which may embed secrets; the expanded command
// is available in the Cmd field for diagnostics.
type ValidateCmdError struct {
	Cmd    string
	RC     int
	Stdout string
	Stderr string
}

func (e *ValidateCmdError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("validate command failed with rc=%d: %s", e.RC, e.Stderr)
	}
	return fmt.Sprintf("validate command failed with rc=%d", e.RC)
}
