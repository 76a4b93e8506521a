package cli

import (
	"errors"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/shamank/odoo-sdk-go/pkg/config"
)

func newLoginCmd(a *app) *cobra.Command {
	var apiKey string
	var noVerify bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify an API key and store it in the OS keyring",
		Long: `login authenticates against the configured server with the given API key
and, on success, stores the key in the OS keyring under --profile. Later
commands pick it up when neither the config file nor ODOO_API_KEY provide one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key := strings.TrimSpace(apiKey)
			if key == "" {
				entered, err := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Odoo API key")
				if err != nil {
					return err
				}
				key = strings.TrimSpace(entered)
			}
			if key == "" {
				return errors.New("no API key given")
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			cfg.APIKey = key
			if !noVerify {
				if err := a.verify(cmd, cfg); err != nil {
					return err
				}
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.SetAPIKey(a.profile, key); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "API key stored for profile %q", a.profile)
			return nil
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (prompted when omitted)")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "store without authenticating first")
	return cmd
}

func (a *app) verify(cmd *cobra.Command, cfg *config.Config) error {
	core, err := a.newCore(cfg)
	if err != nil {
		return err
	}
	defer core.Close()
	s, err := core.Connect(cmd.Context())
	if err != nil {
		return err
	}
	success(cmd.OutOrStdout(), "authenticated as %s (uid %d) on %s", cfg.Username, s.UID, cfg.Database)
	return nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.Delete(a.profile); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "API key removed for profile %q", a.profile)
			return nil
		},
	}
}
