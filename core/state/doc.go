// Package state holds time-indexed state variables.
//
// A Profile is an append-only series of (time, value) samples. A SystemState
// maps state-variable keys to profiles and is layered: forking a branch
// creates an empty child layer on top of the parent, so the fork is O(1) and
// writes made by one branch are never visible to its siblings. Parent layers
// must not be written once a child exists; the scheduler only writes to the
// layer of the event under evaluation.
package state
