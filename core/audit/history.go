package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kilianp07/horizon/core/schedule"
)

// File names written under the output directory.
const (
	HashDataDir           = "HashData"
	StateHistoryFile      = "FullStateHistoryHash.txt"
	ScheduleHashesFile    = "schedule_hashes.txt"
	BlockchainSummaryFile = "scheduleHashBlockchainSummary.txt"
)

// HashHistory appends one line per recorded branch list to
// HashData/FullStateHistoryHash.txt:
//
//	[   3: Check    ] <state hashes ordered by content hash>
type HashHistory struct {
	mu   sync.Mutex
	path string
}

// NewHashHistory creates the HashData directory under dir and truncates any
// previous history file.
func NewHashHistory(dir string) (*HashHistory, error) {
	hd := filepath.Join(dir, HashDataDir)
	if err := os.MkdirAll(hd, 0o755); err != nil {
		return nil, fmt.Errorf("hash history: %w", err)
	}
	path := filepath.Join(hd, StateHistoryFile)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return nil, fmt.Errorf("hash history: %w", err)
	}
	return &HashHistory{path: path}, nil
}

// Path returns the history file path.
func (h *HashHistory) Path() string { return h.path }

// Record appends the state hash tips of list. Branches sharing a content
// hash collapse to the last one listed.
func (h *HashHistory) Record(step int, context string, list []*schedule.SystemSchedule) error {
	byHash := make(map[string]string, len(list))
	for _, s := range list {
		if s.StateHash != "" {
			byHash[s.Hash()] = s.StateHash
		}
	}
	keys := make([]string, 0, len(byHash))
	for k := range byHash {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tips := make([]string, len(keys))
	for i, k := range keys {
		tips[i] = byHash[k]
	}
	if len(context) > 9 {
		context = context[:9]
	}
	line := fmt.Sprintf("[%4d: %-9s] %s\n", step, context, strings.Join(tips, " "))

	h.mu.Lock()
	defer h.mu.Unlock()
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
