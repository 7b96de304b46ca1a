// errors.go - sentinel error taxonomy for the sc68/sndh playback core.

package sc68core

import "errors"

// Error taxonomy from spec.md §7. CPU-level faults (illegal instruction,
// bus/address error, privilege violation, zero-divide, trap) are never
// returned as Go errors - they are raised as 68k exceptions and dispatched
// through the ExceptionUnit instead.
var (
	// ErrBadInstance names a call against a nil or destroyed handle. No
	// function in this package returns it.
	ErrBadInstance = errors.New("sc68core: bad or destroyed instance")

	// ErrMemoryRange is returned when memptr-style access is requested for
	// a range that is not entirely backed by plain RAM.
	ErrMemoryRange = errors.New("sc68core: address range is not plain memory")

	// ErrLoadFailure is surfaced by the loader (an external collaborator),
	// never by the core itself; kept here as a stable sentinel the core's
	// tests and the loader's adapter can both compare against.
	ErrLoadFailure = errors.New("sc68core: music file format not recognized or truncated")

	// ErrOutOfMemory is returned when the allocator hook fails during
	// instance creation. The instance is not constructed.
	ErrOutOfMemory = errors.New("sc68core: allocator returned no memory")

	// ErrUnrecognizedChip names an access to an address with no chip bound
	// and no backing RAM. MemoryBus wraps every address into its RAM, so no
	// access reaches that case; nothing in this package returns or logs it.
	ErrUnrecognizedChip = errors.New("sc68core: access to unbound address")

	// ErrNoTracks names a disk with zero tracks. NewPlaybackDriver does not
	// check the track count and does not return it.
	ErrNoTracks = errors.New("sc68core: no tracks to play")
)
