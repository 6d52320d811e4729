package cli

import (
	"fmt"
	"io"
	"os"

	"workforce/reports"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func ExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:       "export [jobs|allocations]",
		Short:     "Write jobs or allocations as CSV",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"jobs", "allocations"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			engine, err := openEngine(cfg)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			ctx := cmd.Context()
			switch args[0] {
			case "jobs":
				jobs, err := engine.Jobs(ctx, nil)
				if err != nil {
					return err
				}
				if err := reports.WriteJobsCSV(w, jobs); err != nil {
					return err
				}
			case "allocations":
				allocations, err := engine.Allocations(ctx, nil)
				if err != nil {
					return err
				}
				if err := reports.WriteAllocationsCSV(w, allocations); err != nil {
					return err
				}
			}

			if out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s written to %s\n", color.New(color.FgGreen).Sprint("✓"), args[0], out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
