package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/fieldsync"
)

func init() {
	rootCmd.AddCommand(newPathsCmd())
}

func newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths <state-file>",
		Short: "List the leaf value paths of a form state",
		Long: `The paths command lists every leaf under "values", one per line, in the
dotted/bracket syntax fields are named with.

Example:
  fieldsync paths state.json
  fieldsync paths state.yaml --form form.signup`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaths(args[0])
		},
	}
}

func runPaths(path string) error {
	s, state, err := loadFormState(path)
	if err != nil {
		return err
	}
	for _, p := range fieldsync.LeafPaths(s, s.GetIn(state, "values")) {
		fmt.Fprintln(stdout, p)
	}
	return nil
}
