package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/reglet-dev/drawhost"
	"github.com/reglet-dev/drawhost/capability"
	"github.com/reglet-dev/drawhost/capability/overridestore"
	"github.com/reglet-dev/drawhost/config"
	"github.com/reglet-dev/drawhost/diag"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is what every subcommand works with once configuration is loaded.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *overridestore.FileStore
	adapter *drawhost.Adapter
}

type rootOptions struct {
	cfgFile string
	app     *app
}

func newRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "drawhostctl",
		Short:         "Inspect and control drawing host services",
		Long:          `Inspect and toggle the host capabilities a drawing engine calls back into, and test how file references resolve.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), opts.cfgFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts.app = a
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "",
		"config file (default: ~/.drawhost/config.yaml)")

	root.AddCommand(
		newResolveCmd(opts),
		newCapabilitiesCmd(opts),
		newConsoleCmd(opts),
		newSchemaCmd(),
		newWatchCmd(opts),
	)
	return root
}

func buildApp(ctx context.Context, cfgFile string, stderr io.Writer) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(viper.New(), cfgFile)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	var reporter diag.Reporter
	switch cfg.Diagnostics {
	case "stderr":
		reporter = diag.NewWriterReporter(stderr)
	case "both":
		reporter = diag.Multi(diag.NewLogReporter(logger), diag.NewWriterReporter(stderr))
	default:
		reporter = diag.NewLogReporter(logger)
	}

	machineKey, err := cfg.MachineKey()
	if err != nil {
		return nil, err
	}
	userKey, err := cfg.UserKey()
	if err != nil {
		return nil, err
	}

	var storeOpts []overridestore.FileStoreOption
	if cfg.Overrides.Path != "" {
		storeOpts = append(storeOpts, overridestore.WithPath(cfg.Overrides.Path))
	}
	store := overridestore.NewFileStore(storeOpts...)

	base := drawhost.NewBaseServices()
	base.Company = cfg.Company
	base.Logger = logger

	adapter, err := drawhost.New(base,
		drawhost.WithLogger(logger),
		drawhost.WithReporter(reporter),
		drawhost.WithAlternateFont(cfg.AlternateFont),
		drawhost.WithMachineRootKey(machineKey),
		drawhost.WithUserRootKey(userKey),
		drawhost.WithSearchPaths(cfg.SearchPaths...),
		drawhost.WithStore(store),
	)
	if err != nil {
		return nil, fmt.Errorf("creating adapter: %w", err)
	}

	if len(cfg.Capabilities) > 0 {
		table := make(map[capability.Name]bool, len(cfg.Capabilities))
		for name, enabled := range cfg.Capabilities {
			table[capability.Name(name)] = enabled
		}
		adapter.ApplyOverrides(ctx, table)
	}

	return &app{cfg: cfg, logger: logger, store: store, adapter: adapter}, nil
}
