// Package system holds the feasibility side of the search: the subsystem
// contract, the per-scenario arena of subsystems with its dependency order,
// global constraints and the Checker that evaluates a candidate branch.
package system
