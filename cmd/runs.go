package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/horizon/app"
	"github.com/kilianp07/horizon/core/runlog"
)

var (
	runsScenario string
	runsLimit    int
	runsSince    time.Duration
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	RunE:  listRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsScenario, "scenario", "", "only runs of this scenario")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "most recent runs to show")
	runsCmd.Flags().DurationVar(&runsSince, "since", 0, "only runs newer than this")
	rootCmd.AddCommand(runsCmd)
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// The publisher is not needed to read the store.
	cfg.Publish.Broker = ""
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer closeService(svc)

	q := runlog.RunQuery{Scenario: runsScenario, Limit: runsLimit}
	if runsSince > 0 {
		q.Start = time.Now().Add(-runsSince)
	}
	recs, err := svc.Runs(cmd.Context(), q)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tRUN\tSCENARIO\tSTEPS\tSCHEDULES\tBEST\tVALUE\tDURATION")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%.2f\t%dms\n",
			r.Timestamp.Local().Format(time.DateTime), r.RunID, r.Scenario, r.Steps, r.Schedules, r.BestID, r.BestValue, r.DurationMS)
	}
	return tw.Flush()
}
