// Package subsystems ships the built-in feasibility models: a power budget,
// an imaging payload, a downlink antenna, a task window shifter and a
// pass-through used as a dependency anchor.
//
// Every model writes its new values at task start plus WriteOffset so that a
// write never lands on the sample it was derived from.
package subsystems

// WriteOffset separates a subsystem write from the task start.
const WriteOffset = 0.1

// Task types understood by the built-in models.
const (
	TaskRecharge = "RECHARGE"
	TaskImaging  = "IMAGING"
	TaskTransmit = "TRANSMIT"
)
