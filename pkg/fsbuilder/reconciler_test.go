package fsbuilder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileUnknownState(t *testing.T) {
	r := newTestReconciler(t)

	p := paramsFor(State("bogus"), "/tmp/whatever")
	_, err := r.Reconcile(context.Background(), p)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestReconcileCreatesGuardSkips(t *testing.T) {
	r := newTestReconciler(t)
	dir := t.TempDir()
	guard := filepath.Join(dir, "already-done")
	writeFile(t, guard, "")
	dest := filepath.Join(dir, "dest")

	p := paramsFor(StateCopy, dest)
	p.Content = strptr("data\n")
	p.Creates = guard

	res := reconcile(t, r, p)
	assert.True(t, res.Skipped)
	assert.False(t, res.Changed)
	assert.Contains(t, res.Msg, "exists")
	assert.NoFileExists(t, dest)

	// A missing creates path does not skip.
	p.Creates = filepath.Join(dir, "not-done")
	res = reconcile(t, r, p)
	assert.False(t, res.Skipped)
	assert.True(t, res.Changed)
	assert.FileExists(t, dest)
}

func TestReconcileRemovesGuardSkips(t *testing.T) {
	r := newTestReconciler(t)
	dir := t.TempDir()
	dest := filepath.Join(dir, "dest")

	p := paramsFor(StateCopy, dest)
	p.Content = strptr("data\n")
	p.Removes = filepath.Join(dir, "missing-trigger")

	res := reconcile(t, r, p)
	assert.True(t, res.Skipped)
	assert.Contains(t, res.SkipReason, "does not exist")
	assert.NoFileExists(t, dest)

	writeFile(t, p.Removes, "")
	res = reconcile(t, r, p)
	assert.False(t, res.Skipped)
	assert.True(t, res.Changed)
}

// Two consecutive runs of the same desired state: the first converges,
// the second reports no change. Touch is excluded by contract.
func TestReconcileIdempotence(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string) Params
	}{
		{
			name: "copy content",
			setup: func(t *testing.T, dir string) Params {
				p := paramsFor(StateCopy, filepath.Join(dir, "f"))
				p.Content = strptr("x\n")
				return p
			},
		},
		{
			name: "copy src",
			setup: func(t *testing.T, dir string) Params {
				src := filepath.Join(dir, "src")
				writeFile(t, src, "x\n")
				p := paramsFor(StateCopy, filepath.Join(dir, "f"))
				p.Src = src
				return p
			},
		},
		{
			name: "directory",
			setup: func(t *testing.T, dir string) Params {
				return paramsFor(StateDirectory, filepath.Join(dir, "d"))
			},
		},
		{
			name: "exists",
			setup: func(t *testing.T, dir string) Params {
				return paramsFor(StateExists, filepath.Join(dir, "f"))
			},
		},
		{
			name: "absent",
			setup: func(t *testing.T, dir string) Params {
				dest := filepath.Join(dir, "f")
				writeFile(t, dest, "x")
				return paramsFor(StateAbsent, dest)
			},
		},
		{
			name: "link",
			setup: func(t *testing.T, dir string) Params {
				src := filepath.Join(dir, "target")
				writeFile(t, src, "x")
				p := paramsFor(StateLink, filepath.Join(dir, "ln"))
				p.Src = src
				return p
			},
		},
		{
			name: "hard",
			setup: func(t *testing.T, dir string) Params {
				src := filepath.Join(dir, "target")
				writeFile(t, src, "x")
				p := paramsFor(StateHard, filepath.Join(dir, "hl"))
				p.Src = src
				return p
			},
		},
		{
			name: "lineinfile",
			setup: func(t *testing.T, dir string) Params {
				dest := filepath.Join(dir, "f")
				writeFile(t, dest, "a\n")
				p := paramsFor(StateLineInFile, dest)
				p.Line = strptr("b")
				return p
			},
		},
		{
			name: "blockinfile",
			setup: func(t *testing.T, dir string) Params {
				dest := filepath.Join(dir, "f")
				writeFile(t, dest, "a\n")
				p := paramsFor(StateBlockInFile, dest)
				p.Block = strptr("b")
				return p
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReconciler(t)
			p := tt.setup(t, t.TempDir())

			first := reconcile(t, r, p)
			assert.True(t, first.Changed, "first run should converge")

			second := reconcile(t, r, p)
			assert.False(t, second.Changed, "second run should be a no-op")
		})
	}
}

// Check mode must report the same change decision as a real run while
// leaving the tree untouched.
func TestReconcileCheckModeDoesNotMutate(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string) Params
	}{
		{
			name: "copy content",
			setup: func(t *testing.T, dir string) Params {
				p := paramsFor(StateCopy, filepath.Join(dir, "f"))
				p.Content = strptr("x\n")
				return p
			},
		},
		{
			name: "directory",
			setup: func(t *testing.T, dir string) Params {
				return paramsFor(StateDirectory, filepath.Join(dir, "d"))
			},
		},
		{
			name: "absent",
			setup: func(t *testing.T, dir string) Params {
				dest := filepath.Join(dir, "f")
				writeFile(t, dest, "x")
				return paramsFor(StateAbsent, dest)
			},
		},
		{
			name: "lineinfile",
			setup: func(t *testing.T, dir string) Params {
				dest := filepath.Join(dir, "f")
				writeFile(t, dest, "a\n")
				p := paramsFor(StateLineInFile, dest)
				p.Line = strptr("b")
				return p
			},
		},
		{
			name: "blockinfile",
			setup: func(t *testing.T, dir string) Params {
				dest := filepath.Join(dir, "f")
				writeFile(t, dest, "a\n")
				p := paramsFor(StateBlockInFile, dest)
				p.Block = strptr("b")
				return p
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReconciler(t)
			dir := t.TempDir()
			p := tt.setup(t, dir)
			p.CheckMode = true

			before := snapshotTree(t, dir)
			res := reconcile(t, r, p)
			assert.True(t, res.Changed)
			assert.Equal(t, before, snapshotTree(t, dir))
		})
	}
}

// snapshotTree captures every path and file content under root.
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	snap := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			snap[path] = string(data)
		} else {
			snap[path] = d.Type().String()
		}
		return nil
	})
	require.NoError(t, err)
	return snap
}

func TestReconcileValidateIgnoredWarning(t *testing.T) {
	r := newTestReconciler(t)
	dest := filepath.Join(t.TempDir(), "d")

	// Validate is ignored for non-content states; the call still
	// succeeds.
	p := paramsFor(StateDirectory, dest)
	p.ValidateCmd = "true %s"

	res := reconcile(t, r, p)
	assert.True(t, res.Changed)
	assert.DirExists(t, dest)
}

func TestForceRemoveBackupCollision(t *testing.T) {
	r := newTestReconciler(t)
	dir := t.TempDir()
	dest := filepath.Join(dir, "f")
	writeFile(t, dest, "current\n")
	writeFile(t, dest+".old", "earlier backup\n")

	p := paramsFor(StateCopy, dest)
	p.ForceBackup = true

	require.NoError(t, r.forceRemove(dest, p))
	assert.NoFileExists(t, dest)
	assert.Equal(t, "earlier backup\n", readFile(t, dest+".old"))
	matches, err := filepath.Glob(dest + ".old.*")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "current\n", readFile(t, matches[0]))
}
