package fsbuilder

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/linsomniac/fsbuilder/pkg/fsbuilder/filesystem"
)

// Reconciler computes whether the on-disk state of a single path
// differs from a desired state and applies the minimal change
// atomically. It holds no state between invocations; each Reconcile
// call is independent and fully synchronous.
type Reconciler struct {
	fs     filesystem.FileSystem
	runner CommandRunner
	attrs  AttributeApplier
	logger zerolog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithFileSystem substitutes the OS wrapper.
func WithFileSystem(fsys filesystem.FileSystem) Option {
	return func(r *Reconciler) { r.fs = fsys }
}

// WithRunner substitutes the validate-command runner.
func WithRunner(runner CommandRunner) Option {
	return func(r *Reconciler) { r.runner = runner }
}

// WithAttributeApplier substitutes the ownership/permission applier.
func WithAttributeApplier(attrs AttributeApplier) Option {
	return func(r *Reconciler) { r.attrs = attrs }
}

// WithLogger substitutes the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Reconciler) { r.logger = logger }
}

// New creates a Reconciler operating on the host filesystem with a
// shell validate runner and chown/chmod attribute enforcement.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{
		fs:     filesystem.NewOSFileSystem(),
		runner: NewShellRunner(),
		attrs:  OSAttributeApplier{},
		logger: DefaultLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile runs a single invocation: validate parameters, evaluate the
// creates/removes guards, then dispatch to the handler for the desired
// state. A nil error with Result.Skipped=false is success; a nil error
// with Skipped=true means a guard short-circuited the call; a non-nil
// error is a failure with no partial success.
func (r *Reconciler) Reconcile(ctx context.Context, p Params) (Result, error) {
	res := Result{Dest: p.Dest, State: string(p.State)}

	if err := p.Validate(); err != nil {
		return res, err
	}

	if p.ValidateCmd != "" && p.State.ValidateIgnored() {
		r.logger.Warn().
			Str("state", string(p.State)).
			Str("dest", p.Dest).
			Msg("'validate' is ignored for this state (only applies to file-content states)")
	}

	if skip := r.checkCreatesRemoves(p); skip != nil {
		return *skip, nil
	}

	r.logger.Debug().
		Str("state", string(p.State)).
		Str("dest", p.Dest).
		Bool("check_mode", p.CheckMode).
		Msg("reconciling")

	var err error
	switch p.State {
	case StateCopy, StateTemplate:
		err = r.reconcileCopy(ctx, p, &res)
	case StateDirectory:
		err = r.reconcileDirectory(ctx, p, &res)
	case StateExists:
		err = r.reconcileExists(ctx, p, &res)
	case StateTouch:
		err = r.reconcileTouch(ctx, p, &res)
	case StateAbsent:
		err = r.reconcileAbsent(ctx, p, &res)
	case StateLink:
		err = r.reconcileLink(ctx, p, &res)
	case StateHard:
		err = r.reconcileHard(ctx, p, &res)
	case StateLineInFile:
		err = r.reconcileLineInFile(ctx, p, &res)
	case StateBlockInFile:
		err = r.reconcileBlockInFile(ctx, p, &res)
	default:
		err = &ValidationError{Dest: p.Dest, Reason: "unknown state: " + string(p.State)}
	}
	if err != nil {
		r.logger.Error().
			Str("state", string(p.State)).
			Str("dest", p.Dest).
			Err(err).
			Msg("reconcile failed")
		return res, err
	}

	r.logger.Info().
		Str("state", string(p.State)).
		Str("dest", p.Dest).
		Bool("changed", res.Changed).
		Msg(res.Msg)
	return res, nil
}

// makedirs creates missing parent directories of dest when requested.
// Ownership is propagated to the created parents if specified; mode is
// not, since the directories are scaffolding rather than the target.
func (r *Reconciler) makedirs(p Params) error {
	if !p.Makedirs {
		return nil
	}
	parent := filepath.Dir(p.Dest)
	if r.isDir(parent) {
		return nil
	}
	if p.CheckMode {
		return nil
	}
	if err := r.fs.MkdirAll(parent, DefaultDirMode); err != nil {
		return err
	}
	if p.Owner != "" || p.Group != "" {
		spec := AttrSpec{Owner: p.Owner, Group: p.Group, Follow: p.Follow}
		if _, err := r.attrs.Apply(parent, spec, false, false); err != nil {
			return err
		}
	}
	return nil
}

// applyAttributes folds attribute enforcement into the running changed
// flag.
func (r *Reconciler) applyAttributes(path string, p Params, changed bool) (bool, error) {
	return r.attrs.Apply(path, p.attrSpec(), changed, p.CheckMode)
}

// --- path predicates ---

func (r *Reconciler) pathExists(name string) bool {
	_, err := r.fs.Stat(name)
	return err == nil
}

// lexists reports existence without following symlinks, so a broken
// symlink still counts.
func (r *Reconciler) lexists(name string) bool {
	_, err := r.fs.Lstat(name)
	return err == nil
}

func (r *Reconciler) isFile(name string) bool {
	info, err := r.fs.Stat(name)
	return err == nil && info.Mode().IsRegular()
}

func (r *Reconciler) isDir(name string) bool {
	info, err := r.fs.Stat(name)
	return err == nil && info.IsDir()
}

func (r *Reconciler) isSymlink(name string) bool {
	info, err := r.fs.Lstat(name)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}
