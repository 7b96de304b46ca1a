// trace.go - deterministic, opt-in diagnostic tracing.
//
// The original engine scatters debug prints behind ad-hoc booleans (see
// debugMFP in the teacher's sndh_playback_bus_68k.go). Several of those
// reference half-finished state machines and are nondeterministic between
// runs; spec.md's Design Notes call those out as diagnostic artifacts to
// drop. This file keeps the same "boolean-gated print" shape but routes
// everything through one helper so the core's actual sample output never
// depends on whether tracing is on.

package sc68core

import "log"

// Trace gates diagnostic logging. Off by default; never consulted by any
// code path that affects CPU state, memory contents, or PCM output.
var Trace bool

func tracef(format string, args ...any) {
	if !Trace {
		return
	}
	log.Printf(format, args...)
}
