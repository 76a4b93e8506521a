package cli

import (
	"github.com/spf13/cobra"
)

func newFieldsCmd(a *app) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "fields <model>",
		Short: "List the fields of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			core, err := a.newCore(cfg)
			if err != nil {
				return err
			}
			defer core.Close()

			fields, err := core.Fields().Fields(cmd.Context(), args[0], refresh)
			if err != nil {
				return err
			}
			rows := [][]string{{"name", "type", "label", "required", "readonly", "relation"}}
			for _, name := range fields.Names() {
				f := fields[name]
				rows = append(rows, []string{f.Name, f.Type, f.Label, yesNo(f.Required), yesNo(f.Readonly), f.Relation})
			}
			return printTable(cmd, rows)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the schema cache")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
