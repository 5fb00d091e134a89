package fsbuilder

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestReconciler builds a reconciler with a quiet logger; extra
// options override the defaults.
func newTestReconciler(t *testing.T, opts ...Option) *Reconciler {
	t.Helper()
	base := []Option{WithLogger(NewTestLogger(io.Discard, 0))}
	return New(append(base, opts...)...)
}

func strptr(s string) *string {
	return &s
}

// paramsFor seeds default params for a state and destination.
func paramsFor(state State, dest string) Params {
	p := DefaultParams()
	p.State = state
	p.Dest = dest
	return p
}

// reconcile runs a single invocation and fails the test on error.
func reconcile(t *testing.T, r *Reconciler, p Params) Result {
	t.Helper()
	res, err := r.Reconcile(context.Background(), p)
	require.NoError(t, err)
	return res
}

// writeFile creates a file with content for test setup.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// readFile reads a file's content for assertions.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// dirEntries lists a directory's entry names, sorted, for
// before/after snapshots.
func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// noStagingLeftovers asserts no staging temp file survived in dir.
func noStagingLeftovers(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".fsbuilder-*"))
	require.NoError(t, err)
	require.Empty(t, matches, "staging file left behind in %s", dir)
}
