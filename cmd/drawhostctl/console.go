package main

import (
	"github.com/reglet-dev/drawhost/console"
	"github.com/spf13/cobra"
)

func newConsoleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Toggle capabilities interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := console.NewSession(opts.app.adapter, console.WithOutput(cmd.ErrOrStderr()))
			_, err := session.Run(cmd.Context())
			return err
		},
	}
}
