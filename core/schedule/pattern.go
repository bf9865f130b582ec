package schedule

import (
	"math"
	"strings"
)

// EventPattern renders one cell per step: "[1]" when the branch holds an
// event starting on that step, "[0]" when it was carried over, "[-]" for
// steps after currentStep.
func EventPattern(s *SystemSchedule, totalSteps int, start, step float64, currentStep int) string {
	has := make(map[int]bool)
	for _, e := range s.History.Events() {
		has[int(math.Round((e.Start()-start)/step))] = true
	}
	var b strings.Builder
	for k := 0; k < totalSteps; k++ {
		switch {
		case k > currentStep:
			b.WriteString("[-]")
		case has[k]:
			b.WriteString("[1]")
		default:
			b.WriteString("[0]")
		}
	}
	return b.String()
}
