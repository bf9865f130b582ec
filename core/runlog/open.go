package runlog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Backends understood by the built-in openers.
const (
	BackendJSONL    = "jsonl"
	BackendRotating = "rotating"
	BackendSQLite   = "sqlite"
)

// Config selects and configures a run store. An empty backend disables run
// logging.
type Config struct {
	Backend    string `json:"backend" yaml:"backend"`
	Path       string `json:"path" yaml:"path"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
}

// Enabled reports whether a backend is configured.
func (c Config) Enabled() bool { return c.Backend != "" }

// SetDefaults fills the rotation limits and a path derived from the backend.
func (c *Config) SetDefaults() {
	if !c.Enabled() {
		return
	}
	if c.Path == "" {
		if c.Backend == BackendSQLite {
			c.Path = "runs.db"
		} else {
			c.Path = "runs.jsonl"
		}
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 28
	}
}

// Validate checks the backend against the registered openers.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	mu.RLock()
	_, ok := openers[c.Backend]
	mu.RUnlock()
	if !ok {
		return fmt.Errorf("run store: unknown backend %q", c.Backend)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return errors.New("run store: rotation limits must be non-negative")
	}
	return nil
}

// Opener builds a store for a backend.
type Opener func(Config) (RunStore, error)

var (
	mu      sync.RWMutex
	openers = map[string]Opener{}
)

func init() {
	Register(BackendJSONL, func(c Config) (RunStore, error) { return NewJSONLStore(c.Path) })
	Register(BackendRotating, func(c Config) (RunStore, error) {
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})
	Register(BackendSQLite, func(c Config) (RunStore, error) { return NewSQLiteStore(c.Path) })
}

// Register adds an opener for backend, replacing any previous one.
func Register(backend string, o Opener) {
	mu.Lock()
	defer mu.Unlock()
	openers[backend] = o
}

// Backends lists the registered backends.
func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(openers))
	for b := range openers {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// Open builds the configured store.
func Open(cfg Config) (RunStore, error) {
	if !cfg.Enabled() {
		return nil, errors.New("run store: no backend configured")
	}
	mu.RLock()
	o, ok := openers[cfg.Backend]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("run store: unknown backend %q", cfg.Backend)
	}
	return o(cfg)
}
