package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the server version and connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			core, err := a.newCore(cfg)
			if err != nil {
				return err
			}
			defer core.Close()

			ctx := cmd.Context()
			h, err := core.Healthcheck(ctx)
			if err != nil {
				return err
			}
			var authenticated string
			if s, err := core.Connect(ctx); err == nil {
				authenticated = "yes (uid " + strconv.FormatInt(s.UID, 10) + ")"
			} else {
				authenticated = "no: " + err.Error()
			}

			compat := "tested"
			if warn := h.Version.Compatible(); warn != "" {
				compat = warn
			}
			return printKV(cmd.OutOrStdout(), [][]string{
				{"odooctl", Version},
				{"server", cfg.URL},
				{"database", cfg.Database},
				{"version", h.Version.String()},
				{"compatibility", compat},
				{"protocol", strconv.Itoa(h.Version.Protocol)},
				{"authenticated", authenticated},
				{"latency", h.Latency.String()},
			})
		},
	}
}
