package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/fieldsync"
	"github.com/reoring/fieldsync/structure"
	_ "github.com/reoring/fieldsync/structure/immutable"
)

var projectInitial string

func init() {
	cmd := newProjectCmd()
	cmd.Flags().StringVar(&projectInitial, "initial", "", "JSON or YAML file with external initial values")
	rootCmd.AddCommand(cmd)
}

func newProjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project <state-file> <field>...",
		Short: "Print the props a mounted field would see",
		Long: `The project command mounts each named field against the saved form state
and prints its projected props and status as JSON.

Example:
  fieldsync project state.json email
  fieldsync project state.yaml "members[0].first" --form form.signup
  fieldsync project state.json price --structure immutable --initial defaults.json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(args[0], args[1:])
		},
	}
}

// snapshotStore serves one fixed state. Dispatched actions are logged and
// dropped.
type snapshotStore struct {
	state any
}

func (st *snapshotStore) Dispatch(a fieldsync.Action) {
	logger.Debug("action dropped", "type", a.Type, "field", a.Field)
}

func (st *snapshotStore) GetState() any { return st.state }

func runProject(path string, names []string) error {
	s, state, err := loadFormState(path)
	if err != nil {
		return err
	}
	var initial any
	if projectInitial != "" {
		tree, err := loadTree(projectInitial)
		if err != nil {
			return err
		}
		initial = s.FromJS(tree)
	}

	form, err := fieldsync.NewForm(fieldsync.FormOpt{
		Name:          cfg.FormPath,
		Store:         &snapshotStore{state: state},
		Structure:     s,
		InitialValues: initial,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	out := make(map[string]any, len(names))
	for _, name := range names {
		f, err := fieldsync.NewField(form, name)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		if err := f.Mount(); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		out[name] = fieldReport(s, f)
		f.Unmount()
	}
	return printJSON(out)
}

func fieldReport(s structure.Structure, f *fieldsync.Field) map[string]any {
	props := f.Props().Map()
	for k, v := range props {
		props[k] = s.ToJS(v)
	}
	delete(props, "_value")
	meta := f.View().Meta
	props["touched"] = meta.Touched
	props["visited"] = meta.Visited
	props["active"] = meta.Active
	props["error"] = s.ToJS(meta.Error)
	props["warning"] = s.ToJS(meta.Warning)
	props["valid"] = meta.Valid
	return props
}
