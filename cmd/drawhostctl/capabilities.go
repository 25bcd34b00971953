package main

import (
	"fmt"
	"strings"

	"github.com/reglet-dev/drawhost/capability"
	"github.com/reglet-dev/drawhost/console"
	"github.com/spf13/cobra"
)

func newCapabilitiesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "capabilities",
		Aliases: []string{"caps"},
		Short:   "List or toggle host capabilities",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every capability with its shape and state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				console.PrintCapabilities(cmd.OutOrStdout(), opts.app.adapter.Capabilities())
				return nil
			},
		},
		newCapabilitiesSetCmd(opts),
	)
	return cmd
}

func newCapabilitiesSetCmd(opts *rootOptions) *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "set <name|glob> on|off",
		Short: "Switch capabilities between custom behavior (on) and the engine default (off)",
		Long: `Switch one capability, or every capability matching a glob, and persist the result.

Examples:
  drawhostctl capabilities set FindFile off
  drawhostctl capabilities set 'get_*RootKey' on`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseSwitch(args[1])
			if err != nil {
				return err
			}

			adapter := opts.app.adapter
			var changed []capability.Name
			if strings.ContainsAny(args[0], "*?[{") {
				changed, err = adapter.SetMatching(args[0], enabled)
				if err != nil {
					return err
				}
				if len(changed) == 0 {
					return fmt.Errorf("no capability matches %q", args[0])
				}
			} else {
				if err := adapter.SetEnabled(capability.Name(args[0]), enabled); err != nil {
					return err
				}
				changed = []capability.Name{capability.Name(args[0])}
			}

			out := cmd.OutOrStdout()
			for _, name := range changed {
				fmt.Fprintf(out, "%s %s\n", name, args[1])
			}

			if noSave {
				return nil
			}
			if err := adapter.SaveOverrides(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Overrides saved to %s\n", opts.app.store.ConfigPath())
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "apply without persisting")
	return cmd
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "custom", "1":
		return true, nil
	case "off", "false", "default", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid state %q: want on or off", s)
	}
}
