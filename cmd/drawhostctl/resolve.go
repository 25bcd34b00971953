package main

import (
	"fmt"
	"os"
	"time"

	"github.com/reglet-dev/drawhost/resolve"
	"github.com/spf13/cobra"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var (
		hintName   string
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "resolve <file>...",
		Short: "Resolve file references the way the engine would",
		Long: `Resolve each file name through the host search order and print the result.

Examples:
  # Find a shape file; the .shx extension is inferred
  drawhostctl resolve --hint CompiledShapeFile txt

  # Resolve several references and export the ones that failed
  drawhostctl resolve --hint XRefDrawing site plan --report misses.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hint, err := resolve.ParseHint(hintName)
			if err != nil {
				return err
			}

			adapter := opts.app.adapter
			out := cmd.OutOrStdout()
			for _, name := range args {
				path := adapter.FindFile(cmd.Context(), name, nil, hint)
				if path == "" {
					path = "(not found)"
				}
				fmt.Fprintf(out, "%s => %s\n", name, path)
			}

			if reportPath == "" {
				return nil
			}
			f, err := os.Create(reportPath)
			if err != nil {
				return fmt.Errorf("creating report: %w", err)
			}
			defer func() { _ = f.Close() }()
			return resolve.WriteMissReport(f, resolve.NewMissReport(adapter.Misses(), time.Now().UTC()))
		},
	}

	cmd.Flags().StringVar(&hintName, "hint", resolve.HintDefault.String(), "resolution hint (e.g. CompiledShapeFile, TrueTypeFontFile)")
	cmd.Flags().StringVar(&reportPath, "report", "", "write unresolved files to this YAML file")
	return cmd
}
