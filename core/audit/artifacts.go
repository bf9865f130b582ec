package audit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kilianp07/horizon/core/schedule"
)

// WriteScheduleHashes writes the sorted, de-duplicated content hashes of
// list to dir/schedule_hashes.txt and returns the file path.
func WriteScheduleHashes(dir string, list []*schedule.SystemSchedule) (string, error) {
	hashes := make([]string, 0, len(list))
	for _, s := range list {
		hashes = append(hashes, s.Hash())
	}
	slices.Sort(hashes)
	hashes = slices.Compact(hashes)

	path := filepath.Join(dir, ScheduleHashesFile)
	var b strings.Builder
	for _, h := range hashes {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write schedule hashes: %w", err)
	}
	return path, nil
}

// WriteBlockchainSummary writes one row per branch, in list order, with its
// ID, value, event count and content hash.
func WriteBlockchainSummary(dir string, list []*schedule.SystemSchedule) (path string, err error) {
	path = filepath.Join(dir, BlockchainSummaryFile)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("write hash summary: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "ScheduleHash Blockchain Summary - %d schedules\n", len(list))
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "%-20s %-12s %-8s %-20s\n", "ScheduleID", "Value", "Events", "ScheduleHash")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, s := range list {
		fmt.Fprintf(w, "%-20s %-12s %-8d %-20s\n", s.ID, fmt.Sprintf("%.2f", s.Value), s.History.Len(), s.Hash())
	}
	return path, w.Flush()
}

// ReadHashes loads a schedule_hashes.txt file, skipping blank lines.
func ReadHashes(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

// DiffHashes returns the hashes only present in a and only present in b.
func DiffHashes(a, b []string) (onlyA, onlyB []string) {
	inA := make(map[string]bool, len(a))
	for _, h := range a {
		inA[h] = true
	}
	inB := make(map[string]bool, len(b))
	for _, h := range b {
		inB[h] = true
		if !inA[h] {
			onlyB = append(onlyB, h)
		}
	}
	for _, h := range a {
		if !inB[h] {
			onlyA = append(onlyA, h)
		}
	}
	slices.Sort(onlyA)
	slices.Sort(onlyB)
	return slices.Compact(onlyA), slices.Compact(onlyB)
}
