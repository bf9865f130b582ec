// Package audit writes the hash artifacts used to compare runs: the per-step
// state hash history and the content hashes of the final branches.
package audit
