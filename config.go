// config.go - Config: the key/value playback configuration surface
// (spec.md §6): sampling rate, aSIDifier mode, forced track/loop, and
// default per-track duration, plus passthrough storage for keys this
// core does not itself interpret.
//
// Grounded on original_source/libsc68/conf68.c's option table (the
// "sc68-sampling-rate"/"sc68-asid"/"sc68-force-track"/"sc68-force-loop"/
// "sc68-default-time" key set, and its "unknown keys are kept, not
// rejected" load_from_file behaviour) and the teacher's registry-style
// constant tables (program_executor_constants.go) for the enum shape of
// AsidMode.

package sc68core

import (
	"fmt"
	"strconv"
)

// AsidMode mirrors conf68.c's f_asids enum: aSIDifier emulation is off,
// on when the loaded track asks for it, or forced on regardless.
type AsidMode int

const (
	AsidOff AsidMode = iota
	AsidOn
	AsidForce
)

func (m AsidMode) String() string {
	switch m {
	case AsidOn:
		return "on"
	case AsidForce:
		return "force"
	default:
		return "off"
	}
}

func parseAsidMode(s string) (AsidMode, error) {
	switch s {
	case "off":
		return AsidOff, nil
	case "on":
		return AsidOn, nil
	case "force":
		return AsidForce, nil
	default:
		return 0, fmt.Errorf("config: invalid asid mode %q", s)
	}
}

// Sampling rate bounds, matching conf68.c's SPR_MIN/SPR_MAX range check
// on the "sampling-rate" option (OPT68_IRNG).
const (
	MinSamplingRate = 4000
	MaxSamplingRate = 192000
)

// MaxTime is conf68.c's MAX_TIME: the largest allowed default-time value,
// one second short of 24 hours.
const MaxTime = 24*60*60 - 1

// Config holds the playback-session settings spec.md §6 exposes as a
// key/value surface, plus whatever caller-supplied keys this core does
// not itself interpret (conf68.c's "unknown key" passthrough).
type Config struct {
	SamplingRate int      // Hz, 0 means "caller decides"
	Asid         AsidMode
	ForceTrack   int // 0 = off, else 1-based track index
	ForceLoop    int // 0 = off, -1 = infinite, else loop count
	DefaultTime  int // seconds; 0 = no automatic end-of-track

	Extra map[string]string // pass-through keys this core does not own
}

// NewConfig returns a Config with the same defaults conf68.c's option
// table declares (sampling rate and asid left at their zero values,
// default-time of zero meaning "never ends a track automatically").
func NewConfig() *Config {
	return &Config{Extra: make(map[string]string)}
}

// Set applies a single "key=value" style config key, parsing and range-
// checking it the way conf68.c's option68_(i)set does. Unknown keys are
// stored verbatim in Extra rather than rejected, matching conf68.c's
// load_from_file behaviour of keeping (not erroring on) keys it does
// not recognize.
func (c *Config) Set(key, value string) error {
	switch key {
	case "sampling-rate":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: sampling-rate: %w", err)
		}
		if v < MinSamplingRate || v > MaxSamplingRate {
			return fmt.Errorf("config: sampling-rate %d out of range [%d,%d]", v, MinSamplingRate, MaxSamplingRate)
		}
		c.SamplingRate = v

	case "asid":
		mode, err := parseAsidMode(value)
		if err != nil {
			return err
		}
		c.Asid = mode

	case "force-track":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: force-track: %w", err)
		}
		if v < 0 {
			return fmt.Errorf("config: force-track must be >= 0")
		}
		c.ForceTrack = v

	case "force-loop":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: force-loop: %w", err)
		}
		if v < -1 || v > 100 {
			return fmt.Errorf("config: force-loop %d out of range [-1,100]", v)
		}
		c.ForceLoop = v

	case "default-time":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: default-time: %w", err)
		}
		if v < 0 || v > MaxTime {
			return fmt.Errorf("config: default-time %d out of range [0,%d]", v, MaxTime)
		}
		c.DefaultTime = v

	default:
		if c.Extra == nil {
			c.Extra = make(map[string]string)
		}
		c.Extra[key] = value
	}
	return nil
}

// Get returns the string form of any key this Config understands, or an
// Extra passthrough value, and whether the key was found at all.
func (c *Config) Get(key string) (string, bool) {
	switch key {
	case "sampling-rate":
		return strconv.Itoa(c.SamplingRate), true
	case "asid":
		return c.Asid.String(), true
	case "force-track":
		return strconv.Itoa(c.ForceTrack), true
	case "force-loop":
		return strconv.Itoa(c.ForceLoop), true
	case "default-time":
		return strconv.Itoa(c.DefaultTime), true
	default:
		v, ok := c.Extra[key]
		return v, ok
	}
}

// DurationCycles converts DefaultTime (or an explicit per-track override
// in seconds, when override > 0) into the cycle count TrackState.
// DurationCycles expects, at the given CPU clock.
func (c *Config) DurationCycles(overrideSeconds int, cpuClockHz uint32) uint64 {
	seconds := c.DefaultTime
	if overrideSeconds > 0 {
		seconds = overrideSeconds
	}
	if seconds <= 0 {
		return 0
	}
	return uint64(seconds) * uint64(cpuClockHz)
}
