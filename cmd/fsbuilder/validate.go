package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linsomniac/fsbuilder/pkg/fsbuilder/manifest"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [manifest-file]",
		Short: "Validate a manifest without touching the filesystem",
		Long:  "Parse a manifest file and check every item's parameters for errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			errs := m.Validate()
			if len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(cmd.OutOrStdout(), "  ✗ %v\n", e)
				}
				return fmt.Errorf("manifest validation failed: %d error(s)", len(errs))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Manifest is valid\n")
			fmt.Fprintf(cmd.OutOrStdout(), "Items: %d\n", len(m.Entries))
			return nil
		},
	}

	return cmd
}
