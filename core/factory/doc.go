// Package factory instantiates pluggable scheduler components (subsystems,
// constraints, evaluators, metric sinks) from configuration. A component is
// described by a type string, an optional instance name and a map of raw
// parameters; registered constructors decode the parameters into typed
// structs.
//
//	reg := factory.NewRegistry[schedule.Evaluator]()
//	_ = reg.Register("target_value", func(c factory.ComponentConfig) (schedule.Evaluator, error) {
//	    var p struct{ Scope string `json:"scope"` }
//	    if err := factory.Decode(c.Params, &p); err != nil {
//	        return nil, err
//	    }
//	    return evaluator.NewTargetValue(p.Scope)
//	})
package factory
