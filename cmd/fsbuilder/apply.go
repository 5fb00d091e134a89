package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linsomniac/fsbuilder/pkg/fsbuilder"
	"github.com/linsomniac/fsbuilder/pkg/fsbuilder/manifest"
)

func newApplyCommand() *cobra.Command {
	var (
		check   bool
		diff    bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "apply [manifest-file]",
		Short: "Apply a manifest of filesystem state items",
		Long: `Apply reconciles every item in a manifest file (YAML or TOML) against
the filesystem, in file order. With --check, the would-be changes are
reported without mutating anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := fsbuilder.LogLevelFromString(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logger := fsbuilder.NewLogger(os.Stderr, level)

			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			runner := &manifest.Runner{
				Reconciler: fsbuilder.New(fsbuilder.WithLogger(logger)),
				Logger:     logger,
				CheckMode:  check,
				DiffMode:   diff,
			}
			outcomes, runErr := runner.Run(cmd.Context(), m)

			if jsonOut {
				if err := printJSON(cmd, outcomes); err != nil {
					return err
				}
			} else {
				printText(cmd, outcomes, check, diff)
			}

			if runErr != nil {
				return fmt.Errorf("apply failed: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Report would-be changes without mutating the filesystem")
	cmd.Flags().BoolVar(&diff, "diff", false, "Include before/after content for changed items")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")

	return cmd
}

// outcomeView is the JSON shape for one item's outcome.
type outcomeView struct {
	Name   string           `json:"name,omitempty"`
	Result fsbuilder.Result `json:"result"`
	Error  string           `json:"error,omitempty"`
}

func printJSON(cmd *cobra.Command, outcomes []manifest.Outcome) error {
	views := make([]outcomeView, 0, len(outcomes))
	for _, o := range outcomes {
		view := outcomeView{Name: o.Name, Result: o.Result}
		if o.Err != nil {
			view.Error = o.Err.Error()
		}
		views = append(views, view)
	}
	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func printText(cmd *cobra.Command, outcomes []manifest.Outcome, check, diff bool) {
	out := cmd.OutOrStdout()
	changed, failed, skipped := 0, 0, 0

	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
			fmt.Fprintf(out, "  ✗ %s (%s) - %v\n", o.Label(), o.Result.State, o.Err)
		case o.Result.Skipped:
			skipped++
			fmt.Fprintf(out, "  - %s (%s) - %s\n", o.Label(), o.Result.State, o.Result.SkipReason)
		case o.Result.Changed:
			changed++
			fmt.Fprintf(out, "  ✓ %s (%s) - %s\n", o.Label(), o.Result.State, o.Result.Msg)
		default:
			fmt.Fprintf(out, "  ✓ %s (%s) - %s\n", o.Label(), o.Result.State, o.Result.Msg)
		}
		if diff && o.Result.Diff != nil {
			fmt.Fprintf(out, "    --- %s\n", o.Result.Diff.BeforeHeader)
			fmt.Fprintf(out, "    +++ %s\n", o.Result.Diff.AfterHeader)
		}
		if o.Result.BackupFile != "" {
			fmt.Fprintf(out, "    backup: %s\n", o.Result.BackupFile)
		}
	}

	mode := ""
	if check {
		mode = " (check mode)"
	}
	fmt.Fprintf(out, "\n%d item(s): %d changed, %d skipped, %d failed%s\n",
		len(outcomes), changed, skipped, failed, mode)
}
