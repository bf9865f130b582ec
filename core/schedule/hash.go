package schedule

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/kilianp07/horizon/core/state"
)

// StateHashLength is the number of hex characters kept in state hash links.
const StateHashLength = 16

// Hash returns the content hash of the branch: SHA-256 over its events in
// order, with assets sorted by name, timings at two decimals and the samples
// each event wrote. The ID and value do not take part, so two branches built
// from the same assignments hash identically whatever order they were
// generated in.
func (s *SystemSchedule) Hash() string {
	sum := sha256.Sum256([]byte(s.canonical()))
	return hex.EncodeToString(sum[:])
}

func (s *SystemSchedule) canonical() string {
	var b strings.Builder
	for i, e := range s.History.Events() {
		b.WriteString("E")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("|")
		b.WriteString(state.FormatFixed(e.Start()))
		b.WriteString("|")
		b.WriteString(state.FormatFixed(e.End()))
		b.WriteString("\n")
		for _, a := range e.sortedAssignments() {
			b.WriteString("A|")
			b.WriteString(a.Asset.Name)
			b.WriteString("|")
			if a.Task == nil {
				b.WriteString("-")
			} else {
				b.WriteString(a.Task.Name)
				b.WriteString("|")
				b.WriteString(a.Task.Type)
			}
			b.WriteString("|")
			b.WriteString(state.FormatFixed(a.TaskStart))
			b.WriteString("|")
			b.WriteString(state.FormatFixed(a.TaskEnd))
			b.WriteString("\n")
		}
		for _, p := range e.State.LayerParts() {
			b.WriteString("S|")
			b.WriteString(p)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ChainStateHash links the state written by the branch's last event to the
// previous hash of the chain. The check outcome takes part so that a branch
// that failed and one that passed never share a link.
func ChainStateHash(prev string, s *SystemSchedule, t float64, passed bool) string {
	var b strings.Builder
	b.WriteString(prev)
	b.WriteString("time")
	b.WriteString(state.FormatFixed(t))
	b.WriteString("||checkResult")
	b.WriteString(strconv.FormatBool(passed))
	b.WriteString("||")
	b.WriteString(strings.Join(s.History.LastState().LayerParts(), "|"))
	return shortHash(b.String())
}

// ChainEvalHash links the branch value after evaluation.
func ChainEvalHash(prev string, value float64) string {
	return shortHash(prev + "||eval" + state.FormatFixed(value))
}

func shortHash(in string) string {
	sum := sha256.Sum256([]byte(in))
	return hex.EncodeToString(sum[:])[:StateHashLength]
}
