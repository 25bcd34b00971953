package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/reglet-dev/drawhost/capability"
	"github.com/reglet-dev/drawhost/capability/overridestore"
	"github.com/reglet-dev/drawhost/console"
	"github.com/reglet-dev/drawhost/resolve"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var reload bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream host calls for file names read from stdin",
		Long: `Read lines of the form <file>[:<hint>] from stdin, resolve each one and stream
every host call event. With --reload, edits to the overrides file take
effect immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := opts.app
			if reload || a.cfg.Overrides.Watch {
				if err := os.MkdirAll(filepath.Dir(a.store.ConfigPath()), 0o700); err != nil {
					return fmt.Errorf("creating overrides directory: %w", err)
				}
				w, err := overridestore.NewWatcher(a.store,
					func(overrides map[capability.Name]bool) { a.adapter.ApplyOverrides(ctx, overrides) },
					overridestore.WithDebounce(a.cfg.Overrides.Debounce),
					overridestore.WithLogger(a.logger),
				)
				if err != nil {
					return err
				}
				if err := w.Start(); err != nil {
					_ = w.Stop()
					return err
				}
				defer func() { _ = w.Stop() }()
			}

			// The tap channel closes once tapCtx ends, which lets the printer drain.
			tapCtx, cancelTap := context.WithCancel(ctx)
			events := a.adapter.Tap(tapCtx, 64)
			printed := make(chan struct{})
			go func() {
				defer close(printed)
				console.PrintEvents(context.Background(), cmd.OutOrStdout(), events)
			}()

			err := resolveLines(ctx, cmd.InOrStdin(), func(name string, hint resolve.Hint) {
				a.adapter.FindFile(ctx, name, nil, hint)
			})
			cancelTap()
			<-printed
			return err
		},
	}

	cmd.Flags().BoolVar(&reload, "reload", false, "reload the overrides file when it changes")
	return cmd
}

func resolveLines(ctx context.Context, in io.Reader, fn func(string, resolve.Hint)) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Drive letters also use ':', so only a suffix without separators is a hint.
		hint := resolve.HintDefault
		if i := strings.LastIndex(line, ":"); i >= 0 && !strings.ContainsAny(line[i+1:], `/\`) {
			h, err := resolve.ParseHint(line[i+1:])
			if err != nil {
				return fmt.Errorf("line %q: %w", line, err)
			}
			line, hint = line[:i], h
		}
		fn(line, hint)
	}
	return scanner.Err()
}
