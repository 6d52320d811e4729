package cli

import (
	"fmt"
	"io"
	"time"

	"workforce/models"
	"workforce/reports"
	"workforce/store"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func DeadlinesCmd() *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "deadlines",
		Short: "List in-progress jobs that are due soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("window") {
				cfg.DeadlineWindowDays = window
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			engine, err := openEngine(cfg)
			if err != nil {
				return err
			}
			jobs, err := engine.Jobs(cmd.Context(), store.Filter{"status": models.JobInProgress})
			if err != nil {
				return err
			}
			printDeadlines(cmd.OutOrStdout(), reports.UpcomingDeadlines(jobs, time.Now(), cfg.DeadlineWindowDays))
			return nil
		},
	}
	cmd.Flags().IntVar(&window, "window", 1, "days ahead to look")
	return cmd
}

func printDeadlines(w io.Writer, deadlines []reports.Deadline) {
	if len(deadlines) == 0 {
		fmt.Fprintln(w, "No upcoming deadlines")
		return
	}
	for _, d := range deadlines {
		label := color.New(color.FgYellow).Sprint(d.Label)
		if d.DaysRemaining == 0 {
			label = color.New(color.FgRed, color.Bold).Sprint(d.Label)
		}
		fmt.Fprintf(w, "%-6d %-30s %s  %s\n", d.JobID, d.Title, d.DueDate.Format(models.DateLayout), label)
	}
}
