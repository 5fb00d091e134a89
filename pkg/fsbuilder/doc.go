// Package fsbuilder is a declarative, idempotent filesystem-state
// reconciler. Given a target path and a desired state (file content,
// directory, link, hard link, absent, or line/block edits within a
// text file) it computes whether the on-disk state differs from the
// desired state and, if so, applies the minimal change atomically,
// reporting whether a change occurred.
//
// Each Reconcile invocation handles exactly one target path and is
// fully synchronous; callers own any parallelism across targets.
// Check mode computes and reports the change decision without touching
// the filesystem.
package fsbuilder
