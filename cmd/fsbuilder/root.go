package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fsbuilder",
	Short: "Declarative, idempotent filesystem state management",
	Long: `fsbuilder reconciles filesystem paths against a desired state: file
content, directories, symlinks, hard links, removal, and line or block
edits within text files. Each item is checked against the current
on-disk state and only changed when it differs, atomically.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newValidateCommand())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the version number of fsbuilder`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fsbuilder version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
