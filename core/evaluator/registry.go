package evaluator

import (
	"github.com/kilianp07/horizon/core/factory"
	"github.com/kilianp07/horizon/core/schedule"
)

var registry = factory.NewRegistry[schedule.Evaluator]()

func init() {
	registry.MustRegister("target_value", func(c factory.ComponentConfig) (schedule.Evaluator, error) {
		var p Params
		if err := factory.Decode(c.Params, &p); err != nil {
			return nil, err
		}
		return NewTargetValue(p.Scope)
	})
}

// Register adds an evaluator constructor identified by type.
func Register(typ string, c factory.Constructor[schedule.Evaluator]) error {
	return registry.Register(typ, c)
}

// Types lists the registered evaluator types.
func Types() []string { return registry.Types() }

// New builds the evaluator described by cfg.
func New(cfg factory.ComponentConfig) (schedule.Evaluator, error) {
	return registry.Create(cfg)
}
