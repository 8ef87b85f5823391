// Package session implements the per-page session state machine.
//
// A session is in exactly one mode: Editing, Viewing or Failed. Each session
// runs one event loop goroutine that owns its Document, Mode and latest render
// Outcome; edits, faults and snapshot requests are events on that loop, so
// renders never interleave. Pending edits are coalesced and only the newest
// text is rendered.
//
//	(start, no token)        -> Editing
//	(start, token decodes)   -> Viewing + render
//	(start, token malformed) -> Failed
//	Editing --edit-->           Editing + render
//	Editing|Viewing --render failure or runtime fault--> Failed (terminal)
//
// Manager keeps live sessions in memory, keyed by a random UUID, and evicts
// idle ones.
package session
