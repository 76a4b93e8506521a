// Package cli implements the odooctl commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shamank/odoo-sdk-go/pkg/config"
	"github.com/shamank/odoo-sdk-go/pkg/sdk"
	"github.com/shamank/odoo-sdk-go/pkg/secrets"
)

// Version is set at build time with -ldflags.
var Version = "0.0.0-dev"

// app carries the persistent flags and the collaborators tests replace.
type app struct {
	configPath string
	profile    string
	debug      bool

	lookupEnv func(string) (string, bool)
	openStore func() (*secrets.Store, error)
	sdkOpts   []sdk.Option
}

func newApp() *app {
	return &app{
		lookupEnv: os.LookupEnv,
		openStore: secrets.Open,
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "odooctl",
		Short:         "Inspect and call an Odoo server over XML-RPC",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVarP(&a.profile, "profile", "p", "default", "keyring profile holding the API key")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "verbose logging")

	root.AddCommand(
		newVersionCmd(a),
		newFieldsCmd(a),
		newCallCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
	)
	return root
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err.Error())
		os.Exit(1)
	}
}

// loadConfig resolves the config: file, then ODOO_* environment overrides,
// then the keyring when no API key was found.
func (a *app) loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	merged := cfg.Merge(config.FromEnv(a.lookupEnv))
	cfg = &merged
	if a.debug {
		cfg.Debug = true
	}
	if cfg.APIKey == "" && a.openStore != nil {
		if store, err := a.openStore(); err == nil {
			if key, err := store.APIKey(a.profile); err == nil {
				cfg.APIKey = key
			}
		} else {
			zap.L().Debug("keyring unavailable", zap.Error(err))
		}
	}
	return cfg, nil
}

// newCore builds an SDK core from the resolved config.
func (a *app) newCore(cfg *config.Config) (*sdk.Core, error) {
	opts := append([]sdk.Option{sdk.WithLogger(newLogger(cfg.Debug))}, a.sdkOpts...)
	return sdk.NewSDK(cfg, opts...)
}

// newLogger logs to stderr so command output stays clean; warnings only
// unless debug is set.
func newLogger(debug bool) *zap.Logger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

func printKV(w io.Writer, rows [][]string) error {
	return pterm.DefaultTable.WithData(rows).WithWriter(w).Render()
}

func success(w io.Writer, format string, args ...any) {
	pterm.Success.WithWriter(w).Println(fmt.Sprintf(format, args...))
}
