// Package indent provides the pure text transforms behind region
// narrowing: computing the common leading indentation of a block,
// stripping it for isolated editing, restoring it on write-back, and
// recomputing a range end after replacement text of arbitrary shape.
//
// All functions are pure and total. Line splitting accepts both LF and
// CRLF input; output is always joined with LF, so a strip/restore round
// trip normalizes line endings as a side effect.
package indent
