package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/fieldsync"
)

func init() {
	rootCmd.AddCommand(newDirtyCmd())
}

func newDirtyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dirty <state-file>",
		Short: "List value paths that differ from their initial value",
		Long: `The dirty command compares "values" with "initial" leaf by leaf using the
selected adapter's equality, so "" and a missing value count as equal.

Example:
  fieldsync dirty state.json
  fieldsync dirty state.json --structure immutable`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirty(args[0])
		},
	}
}

func runDirty(path string) error {
	s, state, err := loadFormState(path)
	if err != nil {
		return err
	}
	dirty := fieldsync.DirtyPaths(s, state)
	logger.Info("dirty paths", "count", len(dirty))
	for _, p := range dirty {
		fmt.Fprintln(stdout, p)
	}
	return nil
}
