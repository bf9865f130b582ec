package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/horizon/app"
	"github.com/kilianp07/horizon/scenario"
)

var (
	scenarioPath string
	outDir       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search the schedules of a scenario",
	RunE:  runScenario,
}

func init() {
	runCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario file (defaults to simulation.scenario)")
	runCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (defaults to output.dir)")
	rootCmd.AddCommand(runCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	path := scenarioPath
	if path == "" {
		path = cfg.Simulation.Scenario
	}
	if path == "" {
		return errors.New("no scenario: pass --scenario or set simulation.scenario")
	}
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	svc, err := app.New(cfg, app.WithConsole(cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	defer closeService(svc)

	res, err := svc.Run(ctx, sc)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if best := res.Run.Best(); best != nil {
		fmt.Fprintf(out, "run %s: %d schedules, best %s (%.2f)\n", res.Run.ID, len(res.Run.Schedules), best.ID, best.Value)
	} else {
		fmt.Fprintf(out, "run %s: no schedules\n", res.Run.ID)
	}
	for _, p := range res.Artifacts {
		fmt.Fprintln(out, p)
	}
	return nil
}
