// Package narrow implements the narrowing session state machine.
//
// A session moves between two states: Idle (no narrow active) and
// Narrowed (a region of a source document is mirrored in a detached
// buffer). The Controller owns at most one session at a time and is the
// session's single writer context; all host notifications and commands
// funnel through it.
//
//   - Narrow: Idle -> Narrowed. Captures the selection, strips its common
//     indentation, creates the detached buffer.
//   - Sync: Narrowed -> Narrowed. Restores indentation, replaces the
//     tracked range in the source, then remaps the range end. In auto
//     mode syncs are debounced; only the latest buffer content is ever
//     written back.
//   - Widen: Narrowed -> Idle. Final sync (per mode and configuration),
//     cleanup, focus restored to the source.
//
// All transform work is delegated to the pure engine packages; every
// failure surface here is at the host I/O boundary and is recoverable.
package narrow
