// Package scheduler runs the exhaustive schedule search. Each time step it
// enumerates every asset/task combination, forks every surviving branch with
// each combination, checks the candidates against the system in parallel,
// ranks the feasible ones and merges them with the branches carried over.
// The candidate pool is cropped back to a configured size before every step,
// always keeping the empty baseline branch.
package scheduler
