package manifest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/linsomniac/fsbuilder/pkg/fsbuilder"
)

// Outcome is the result of one manifest item: the engine result, or
// the error that failed it.
type Outcome struct {
	Name   string
	Result fsbuilder.Result
	Err    error
}

// Label names the outcome for output.
func (o *Outcome) Label() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Result.Dest
}

// Runner invokes the reconciler once per manifest entry, in file
// order. Items with when=false are skipped; a failing item stops the
// run unless its on_error policy is continue.
type Runner struct {
	Reconciler *fsbuilder.Reconciler
	Logger     zerolog.Logger

	// CheckMode and DiffMode are applied to every item; they are
	// caller-side switches, never manifest keys.
	CheckMode bool
	DiffMode  bool
}

// Run executes the manifest. The returned outcomes cover every item
// attempted, including the failing one when an error is returned.
func (r *Runner) Run(ctx context.Context, m *Manifest) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(m.Entries))

	for i, entry := range m.Entries {
		if entry.When != nil && !*entry.When {
			r.Logger.Debug().
				Str("dest", entry.Params.Dest).
				Msg("skipping item: 'when' condition is false")
			outcomes = append(outcomes, Outcome{
				Name: entry.Name,
				Result: fsbuilder.Result{
					Dest:       entry.Params.Dest,
					State:      string(entry.Params.State),
					Skipped:    true,
					SkipReason: "'when' condition is false",
					Msg:        "Skipped: 'when' is false",
				},
			})
			continue
		}

		p := entry.Params
		p.CheckMode = r.CheckMode
		p.DiffMode = r.DiffMode

		result, err := r.Reconciler.Reconcile(ctx, p)
		outcomes = append(outcomes, Outcome{Name: entry.Name, Result: result, Err: err})

		if err != nil {
			if entry.OnError == OnErrorContinue {
				r.Logger.Warn().
					Str("dest", entry.Params.Dest).
					Err(err).
					Msg("item failed, continuing (on_error=continue)")
				continue
			}
			return outcomes, fmt.Errorf("item %d (%s): %w", i+1, entry.label(), err)
		}
	}

	return outcomes, nil
}
