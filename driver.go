// driver.go - PlaybackDriver: the per-quantum loop that schedules the CPU
// against the audio sample clock (spec.md §4.8).
//
// Grounded on the teacher's sndh68KPlayer.RenderFrames/callPlay/
// runUntilReturn in sndh_68k_player.go (frame-accumulator sample-position
// bookkeeping, run-until-return execution loop) and sndh_68k_render.go
// (chip sampling at frame boundaries), adapted from the teacher's
// sentinel-return-address convention to the stack-watermark convention
// spec.md §4.8 calls for directly: "execute until a7 > a7_start" rather
// than comparing PC to a magic sentinel.

package sc68core

// Process-status bits returned by PlaybackDriver.Process (spec.md §4.8).
const (
	StatusIdle   uint32 = 1 << iota // no CPU progress this pass
	StatusChange                    // track advanced
	StatusLoop                      // track looped
	StatusEnd                       // no more tracks
	StatusError                     // a track failed to make progress
)

// TrackEntry is one track's INIT/PLAY entry points, plus the optional
// per-track time/loop-count metadata the loader contract allows (spec.md
// §4.8 Loader contract, point (c)). LoopLimit is 0 when the loader didn't
// author one (use Disk.ForceLoop or the single-play-through default
// instead), -1 when the track explicitly asks to loop forever, and a
// positive count otherwise. DurationCycles is 0 when the loader didn't
// author one (fall back to the session's configured default-time).
type TrackEntry struct {
	InitOffset uint32
	PlayOffset uint32

	LoopLimit      int
	DurationCycles uint64
}

// Disk is the pre-parsed track table the PlaybackDriver plays from. File
// parsing itself is an external collaborator (spec.md §1 Non-goals).
type Disk struct {
	Tracks   []TrackEntry
	ReplayHz uint16

	// ForceLoop mirrors Config.ForceLoop's own convention (spec.md §6):
	// -1 forces every track to loop forever regardless of its own
	// metadata, 0 leaves each track's authored LoopLimit (or, lacking
	// one, a single play-through) in effect, and a positive value forces
	// that loop count on every track.
	ForceLoop int
}

// resolveLoopLimit applies spec.md §6's force-loop semantics on top of a
// track's own authored loop count, producing the value TrackState.LoopLimit
// expects (0 = forever, N = explicit count). An explicit forceLoop (nonzero)
// always wins; "off" (0) falls back to the track's own metadata, defaulting
// to a single play-through when the track didn't author one either (spec.md
// §8 S5: "play track 1 with default loop=1").
func resolveLoopLimit(forceLoop, trackLoopLimit int) int {
	switch {
	case forceLoop < 0:
		return 0
	case forceLoop > 0:
		return forceLoop
	case trackLoopLimit < 0:
		return 0
	case trackLoopLimit > 0:
		return trackLoopLimit
	default:
		return 1
	}
}

// resolveDuration prefers a track's own authored duration over the
// session-wide default: spec.md §6's default-time is exactly that, the
// value used when a track doesn't supply its own.
func resolveDuration(sessionDefault, trackAuthored uint64) uint64 {
	if trackAuthored > 0 {
		return trackAuthored
	}
	return sessionDefault
}

// Sampler is implemented by chips that render PCM (YMChip, PaulaChip).
// It is distinct from the bus-facing Chip interface because not every
// attached chip produces audio (e.g. a pure timer/GPIO adapter).
type Sampler interface {
	Render(elapsedCycles uint64, out []float32)
}

// PlaybackDriver orchestrates CPU execution, chip rendering, and track
// advancement for one playback session (spec.md §4.8, §2 data flow).
type PlaybackDriver struct {
	cpu        *CPUState
	bus        *MemoryBus
	disk       *Disk
	cpuClockHz uint32
	sampleRate int

	track   *TrackState
	started bool
	ended   bool

	// sessionDurationCycles is Config's default-time, converted to cycles;
	// applied to any track that doesn't author its own duration.
	sessionDurationCycles uint64

	mixBuf []float32
}

const stackTop = 0x3FF00 // matches the teacher's SNDH_STACK_ADDR convention

// NewPlaybackDriver builds a driver over an already-loaded bus/CPU and a
// parsed track table, starting on disk.Tracks[startTrack-1].
func NewPlaybackDriver(cpu *CPUState, bus *MemoryBus, disk *Disk, cpuClockHz uint32, sampleRate int, startTrack int) *PlaybackDriver {
	d := &PlaybackDriver{
		cpu:        cpu,
		bus:        bus,
		disk:       disk,
		cpuClockHz: cpuClockHz,
		sampleRate: sampleRate,
	}
	d.track = d.buildTrackState(startTrack)
	return d
}

// buildTrackState resolves track index's own authored loop/duration
// metadata against the disk-wide force-loop override and the session's
// default-time, producing a fresh TrackState for it.
func (d *PlaybackDriver) buildTrackState(index int) *TrackState {
	entry := d.disk.Tracks[index-1]
	loopLimit := resolveLoopLimit(d.disk.ForceLoop, entry.LoopLimit)
	ts := NewTrackState(index, len(d.disk.Tracks), d.disk.ReplayHz, loopLimit)
	ts.DurationCycles = resolveDuration(d.sessionDurationCycles, entry.DurationCycles)
	return ts
}

// SampleRate returns the host PCM rate this driver was configured for.
func (d *PlaybackDriver) SampleRate() int { return d.sampleRate }

// CurrentTrack exposes the active track's bookkeeping (read-only use by
// callers that report playback position, e.g. a terminal UI).
func (d *PlaybackDriver) CurrentTrack() TrackState { return *d.track }

// SetTrackDuration sets the session-wide default-end duration (Config's
// default-time, converted to cycles). It only takes effect for a track
// that doesn't author its own duration (resolveDuration); it re-resolves
// the active track immediately, and every subsequently entered track
// resolves against it too.
func (d *PlaybackDriver) SetTrackDuration(cycles uint64) {
	d.sessionDurationCycles = cycles
	d.track.DurationCycles = resolveDuration(cycles, d.currentEntry().DurationCycles)
}

// CPU exposes the underlying CPU core to external tooling (e.g. a gdb
// debug stub); the quantum loop above only ever drives it internally.
func (d *PlaybackDriver) CPU() *CPUState { return d.cpu }

// Bus exposes the underlying memory bus to external tooling.
func (d *PlaybackDriver) Bus() *MemoryBus { return d.bus }

// Process fills out with nFrames of 16-bit signed stereo PCM and returns
// the process-status bitmask (spec.md §4.8, Host PCM contract §6). Per
// spec.md §4.8, one call to Process is one quantum: the PLAY routine
// fires exactly once, producing the cycle span that the chips then
// render into the entire requested buffer.
func (d *PlaybackDriver) Process(out []int16, nFrames int) uint32 {
	if d.ended {
		return StatusEnd
	}
	if nFrames <= 0 {
		return StatusIdle
	}

	status := uint32(0)

	if !d.started {
		d.runRoutine(d.currentEntry().InitOffset)
		d.track.StartCycle = d.cpu.Cycles
		d.started = true
	}

	cyclesPerPass := d.track.CyclesPerPass(d.cpuClockHz)

	before := d.cpu.Cycles
	d.runRoutine(d.currentEntry().PlayOffset)
	if d.cpu.CheckAndDeliverInterrupt() {
		if used := d.cpu.Cycles - before; used < cyclesPerPass {
			d.runUntilCycleBudget(cyclesPerPass - used)
		}
	}
	if d.cpu.Cycles == before {
		status |= StatusIdle
	}

	// Pad the cycle counter out to the full quantum: on real hardware
	// the CPU idles out the rest of the video-frame interval once PLAY
	// returns rather than jumping ahead, and both the chips' render
	// step and the track's duration bookkeeping live in this same
	// cycle domain.
	if used := d.cpu.Cycles - before; used < cyclesPerPass {
		d.cpu.Cycles += cyclesPerPass - used
	}

	d.renderBuffer(cyclesPerPass, out, nFrames)
	d.checkTrackEnd(&status)

	return status
}

func (d *PlaybackDriver) currentEntry() TrackEntry {
	return d.disk.Tracks[d.track.Index-1]
}

// runRoutine implements spec.md §4.8 steps 2-3: set a stack watermark,
// jump to offset, and execute until the stack pointer rises back past
// the watermark (the routine's RTS has fired).
func (d *PlaybackDriver) runRoutine(offset uint32) {
	c := d.cpu
	c.A[7] = stackTop
	c.Push32(0) // return address; never jumped to, only popped by RTS
	a7Start := c.A[7]
	c.PC = offset

	const maxInstructions = 1_000_000
	for i := 0; i < maxInstructions; i++ {
		if c.A[7] > a7Start {
			return
		}
		if c.Step() == 0 {
			return // halted or stopped
		}
	}
}

// runUntilCycleBudget lets a delivered interrupt's handler run for the
// remainder of the current quantum (spec.md §4.8 step 5).
func (d *PlaybackDriver) runUntilCycleBudget(budget uint64) {
	start := d.cpu.Cycles
	for d.cpu.Cycles-start < budget {
		if d.cpu.Step() == 0 {
			return
		}
	}
}

// renderBuffer samples every attached Sampler chip across the whole
// buffer and sums their output into 16-bit signed stereo PCM (spec.md
// §4.8 step 4, Host PCM contract §6).
func (d *PlaybackDriver) renderBuffer(elapsedCycles uint64, out []int16, nFrames int) {
	if cap(d.mixBuf) < nFrames {
		d.mixBuf = make([]float32, nFrames)
	}
	mix := d.mixBuf[:nFrames]
	for i := range mix {
		mix[i] = 0
	}

	var tmp []float32
	for _, bind := range d.bus.Chips().Bindings() {
		sampler, ok := bind.Chip.(Sampler)
		if !ok {
			continue
		}
		if cap(tmp) < nFrames {
			tmp = make([]float32, nFrames)
		}
		tmp = tmp[:nFrames]
		sampler.Render(elapsedCycles, tmp)
		for i, v := range tmp {
			mix[i] += v
		}
	}

	for i, s := range mix {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		out[i*2] = v
		out[i*2+1] = v
	}
}

// checkTrackEnd advances or ends the track per S5's observable contract:
// loop sets StatusLoop, advancing to the next track sets StatusChange,
// running off the last track sets StatusEnd. Returns true if playback
// should stop producing frames for the remainder of this Process call
// (the track or disk just changed state).
func (d *PlaybackDriver) checkTrackEnd(status *uint32) bool {
	t := d.track
	if t.DurationCycles == 0 {
		return false
	}
	if d.cpu.Cycles-t.StartCycle < t.DurationCycles {
		return false
	}

	if t.RegisterLoop() {
		t.StartCycle = d.cpu.Cycles
		*status |= StatusLoop
		return false
	}

	if !t.HasMoreTracks() {
		d.ended = true
		*status |= StatusEnd
		return true
	}

	d.track = d.buildTrackState(t.Index + 1)
	d.runRoutine(d.currentEntry().InitOffset)
	d.track.StartCycle = d.cpu.Cycles
	*status |= StatusChange
	return true
}
