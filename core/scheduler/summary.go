package scheduler

import (
	"fmt"
	"io"
	"strings"

	"github.com/kilianp07/horizon/core/metrics"
	"github.com/kilianp07/horizon/core/schedule"
)

const ruleWidth = 80

// writeSummary prints the status of a step. Write errors are ignored; the
// console is informational.
func writeSummary(w io.Writer, mode ConsoleMode, p Params, st metrics.StepStats, list []*schedule.SystemSchedule, final bool) {
	if w == nil || mode == ConsoleOff {
		return
	}
	done := 100 * (st.Time + p.Step - p.Start) / (p.End - p.Start)
	if final {
		done = 100
		fmt.Fprintf(w, "\n%s\nFINAL SCHEDULES (after final crop)\n%s\n", strings.Repeat("█", ruleWidth), strings.Repeat("█", ruleWidth))
	}
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", ruleWidth))
	fmt.Fprintf(w, "SCHEDULE SUMMARY - Step: %d | Total Schedules: %d\n", st.Step, st.Total)
	fmt.Fprintf(w, "Scheduler Status: %.2f%% done; Generated: %d | Carried Over: %d | Cropped: %d | Total: %d\n",
		min(done, 100), st.Generated, st.CarriedOver, st.Cropped, st.Total)
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", ruleWidth))
	if mode != ConsoleAll && !final {
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(w, "No schedules to display.")
		return
	}
	total := p.TotalSteps()
	for _, s := range list {
		fmt.Fprintf(w, "Schedule %s: Events=%2d | Value=%8.2f | Pattern: %s\n",
			s.ID, s.History.Len(), s.Value, schedule.EventPattern(s, total, p.Start, p.Step, st.Step-1))
	}
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("-", ruleWidth))
}
