// Package schedule models candidate plans ("branches") of the search.
//
// An Event is one timestep's outcome for a branch, a StateHistory is the
// persistent chain of events of a branch, and a SystemSchedule wraps a
// history with its value and identity. Histories share their prefix with the
// parent branch: extending a branch allocates one node and never mutates the
// parent chain.
package schedule
