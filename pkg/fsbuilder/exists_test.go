package fsbuilder

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExistsCreatesEmptyFile(t *testing.T) {
	r := newTestReconciler(t)
	dest := filepath.Join(t.TempDir(), "marker")

	p := paramsFor(StateExists, dest)
	res := reconcile(t, r, p)
	assert.True(t, res.Changed)
	assert.Equal(t, "file created", res.Msg)
	assert.Equal(t, "", readFile(t, dest))
}

func TestExistsPreservesContent(t *testing.T) {
	r := newTestReconciler(t)
	dest := filepath.Join(t.TempDir(), "marker")
	writeFile(t, dest, "precious data\n")

	p := paramsFor(StateExists, dest)
	res := reconcile(t, r, p)
	assert.False(t, res.Changed)
	assert.Equal(t, "file already exists", res.Msg)
	assert.Equal(t, "precious data\n", readFile(t, dest))
}

func TestExistsCheckMode(t *testing.T) {
	r := newTestReconciler(t)
	dest := filepath.Join(t.TempDir(), "marker")

	p := paramsFor(StateExists, dest)
	p.CheckMode = true

	res := reconcile(t, r, p)
	assert.True(t, res.Changed)
	assert.Equal(t, "file would be created", res.Msg)
	assert.NoFileExists(t, dest)
}

func TestExistsConflictWithDirectory(t *testing.T) {
	r := newTestReconciler(t)
	dest := filepath.Join(t.TempDir(), "marker")
	require.NoError(t, os.Mkdir(dest, 0o755))

	p := paramsFor(StateExists, dest)
	_, err := r.Reconcile(context.Background(), p)
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)
}

func TestExistsConflictWithSymlinkToFile(t *testing.T) {
	r := newTestReconciler(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	writeFile(t, target, "precious\n")
	dest := filepath.Join(dir, "marker")
	require.NoError(t, os.Symlink(target, dest))

	p := paramsFor(StateExists, dest)
	_, err := r.Reconcile(context.Background(), p)
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "precious\n", readFile(t, target), "link target untouched")

	p.Force = true
	res := reconcile(t, r, p)
	assert.True(t, res.Changed)
	info, lerr := os.Lstat(dest)
	require.NoError(t, lerr)
	assert.True(t, info.Mode().IsRegular())
	assert.Equal(t, "precious\n", readFile(t, target))
}

func TestTouchAlwaysChanged(t *testing.T) {
	r := newTestReconciler(t)
	dest := filepath.Join(t.TempDir(), "stamp")

	p := paramsFor(StateTouch, dest)

	first := reconcile(t, r, p)
	assert.True(t, first.Changed)
	assert.Equal(t, "file touched", first.Msg)
	assert.FileExists(t, dest)

	second := reconcile(t, r, p)
	assert.True(t, second.Changed, "touch reports changed on every run")
}

func TestTouchSetsModificationTime(t *testing.T) {
	r := newTestReconciler(t)
	dest := filepath.Join(t.TempDir(), "stamp")

	p := paramsFor(StateTouch, dest)
	p.ModificationTime = "2024-03-01 12:30:00"

	reconcile(t, r, p)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	want := time.Date(2024, 3, 1, 12, 30, 0, 0, time.Local)
	assert.True(t, info.ModTime().Equal(want), "got %v want %v", info.ModTime(), want)
}

func TestTouchEpochTime(t *testing.T) {
	r := newTestReconciler(t)
	dest := filepath.Join(t.TempDir(), "stamp")

	p := paramsFor(StateTouch, dest)
	p.ModificationTime = "1700000000"

	reconcile(t, r, p)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), info.ModTime().Unix())
}

func TestTouchBadTimeValue(t *testing.T) {
	r := newTestReconciler(t)
	dest := filepath.Join(t.TempDir(), "stamp")

	p := paramsFor(StateTouch, dest)
	p.ModificationTime = "not-a-time"

	_, err := r.Reconcile(context.Background(), p)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NoFileExists(t, dest, "bad time must fail before any mutation")
}

func TestTouchBadTimeValueCheckMode(t *testing.T) {
	r := newTestReconciler(t)

	p := paramsFor(StateTouch, filepath.Join(t.TempDir(), "stamp"))
	p.AccessTime = "tomorrow-ish"
	p.CheckMode = true

	_, err := r.Reconcile(context.Background(), p)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr, "time validation is a hard error even in check mode")
}

func TestTouchCheckMode(t *testing.T) {
	r := newTestReconciler(t)
	dest := filepath.Join(t.TempDir(), "stamp")

	p := paramsFor(StateTouch, dest)
	p.CheckMode = true

	res := reconcile(t, r, p)
	assert.True(t, res.Changed)
	assert.Equal(t, "file would be touched", res.Msg)
	assert.NoFileExists(t, dest)
}

func TestParseTouchTime(t *testing.T) {
	now := time.Now()

	got, err := parseTouchTime("", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(now))

	got, err = parseTouchTime("1700000000.5", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), got.Unix())
	assert.Equal(t, int64(5e8), int64(got.Nanosecond()))

	got, err = parseTouchTime("2024-03-01T12:30:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 0, time.Local), got)

	got, err = parseTouchTime("2024-03-01", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), got)

	_, err = parseTouchTime("garbage", now)
	require.Error(t, err)
}
