// sc68play is a small demo host for the core68k playback engine: it
// synthesizes a static two-voice YM-2149 drone in memory (no SNDH/sc68
// loader - that parsing step is out of scope, spec.md §1 Non-goals),
// drives it through core.PlaybackDriver, and streams the result to the
// default audio device via oto. It optionally exposes the CPU core to a
// gdb client instead of playing audio, for poking at the core directly.
//
// Flag parsing follows the teacher's urfave/cli.v2 App/Flags/Action shape
// (see master-g-childhood/go/chr2png/main.go in the retrieval pack); the
// raw-stdin keypress handling follows terminal_host.go's
// term.MakeRaw/non-blocking-read loop; audio output follows
// audio_backend_oto.go's oto.Context/oto.Player wiring, adapted from mono
// float32 to stereo signed 16-bit since that is PlaybackDriver's PCM
// contract.
package main

import (
	"fmt"
	"net"
	"os"
	"sort"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ebitengine/oto/v3"
	core "github.com/sc68/core68k"
	"golang.org/x/term"
	"gopkg.in/urfave/cli.v2"
)

const (
	cpuClockHz = 8_000_000 // Atari ST 68000 bus clock
	initOffset = 0x1000
	playOffset = 0x1400
	frameSize  = 512 // PCM frames rendered per oto buffer fill
)

func main() {
	app := &cli.App{
		Name:    "sc68play",
		Usage:   "play a synthesized two-voice YM-2149 drone through the core68k engine",
		Version: "v0.1.0",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "sampling-rate", Aliases: []string{"r"}, Usage: "host PCM sample rate", Value: 44100},
			&cli.StringFlag{Name: "asid", Usage: "aSIDifier mode: off, on, force", Value: "off"},
			&cli.IntFlag{Name: "force-track", Usage: "force starting track (0 = default)", Value: 0},
			&cli.IntFlag{Name: "force-loop", Usage: "force loop count (0 = off, -1 = infinite)", Value: 0},
			&cli.IntFlag{Name: "default-time", Usage: "seconds before a track auto-ends (0 = never)", Value: 0},
			&cli.StringFlag{Name: "gdb", Usage: "serve the CPU core over gdb remote protocol at host:port instead of playing audio"},
		},
		Action: run,
	}
	sort.Sort(cli.FlagsByName(app.Flags))

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "sc68play:", err)
		os.Exit(1)
	}
}

func buildConfig(c *cli.Context) (*core.Config, error) {
	cfg := core.NewConfig()
	settings := map[string]string{
		"sampling-rate": fmt.Sprintf("%d", c.Int("sampling-rate")),
		"asid":          c.String("asid"),
		"force-track":   fmt.Sprintf("%d", c.Int("force-track")),
		"force-loop":    fmt.Sprintf("%d", c.Int("force-loop")),
		"default-time":  fmt.Sprintf("%d", c.Int("default-time")),
	}
	for key, value := range settings {
		if err := cfg.Set(key, value); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func buildDriver(cfg *core.Config) (*core.PlaybackDriver, error) {
	bus, err := core.NewMemoryBus(16 * 1024 * 1024)
	if err != nil {
		return nil, err
	}
	ym := core.NewYMChip(cfg.SamplingRate, 0)
	if err := bus.Attach(ym, ymAddrPort, ymDataPort+1); err != nil {
		return nil, err
	}

	entry := buildTwoVoiceDrone(bus, initOffset, playOffset, twoVoiceDroneRegisters)
	disk := &core.Disk{
		Tracks:    []core.TrackEntry{entry},
		ReplayHz:  50,
		ForceLoop: cfg.ForceLoop,
	}

	cpu := core.NewCPUState(bus)
	startTrack := 1
	if cfg.ForceTrack > 0 {
		startTrack = cfg.ForceTrack
	}
	driver := core.NewPlaybackDriver(cpu, bus, disk, cpuClockHz, cfg.SamplingRate, startTrack)
	if cfg.DefaultTime > 0 {
		driver.SetTrackDuration(cfg.DurationCycles(0, cpuClockHz))
	}
	return driver, nil
}

func run(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	driver, err := buildDriver(cfg)
	if err != nil {
		return err
	}

	if addr := c.String("gdb"); addr != "" {
		return serveGDB(addr, driver)
	}

	return playInteractive(driver)
}

// driverReader adapts PlaybackDriver.Process to io.Reader, the shape
// oto.Context.NewPlayer wants, packing stereo 16-bit little-endian PCM.
type driverReader struct {
	driver *core.PlaybackDriver
	paused *atomic.Bool
	frames []int16
}

func newDriverReader(driver *core.PlaybackDriver) *driverReader {
	paused := &atomic.Bool{}
	return &driverReader{driver: driver, paused: paused, frames: make([]int16, frameSize*2)}
}

func (r *driverReader) Read(p []byte) (int, error) {
	nFrames := len(p) / 4
	if nFrames == 0 {
		return 0, nil
	}
	if nFrames > frameSize {
		nFrames = frameSize
	}
	if r.paused.Load() {
		for i := 0; i < nFrames*4; i++ {
			p[i] = 0
		}
		return nFrames * 4, nil
	}

	out := r.frames[:nFrames*2]
	r.driver.Process(out, nFrames)
	for i, v := range out {
		p[i*2] = byte(v)
		p[i*2+1] = byte(v >> 8)
	}
	return nFrames * 4, nil
}

func playInteractive(driver *core.PlaybackDriver) error {
	reader := newDriverReader(driver)

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   driver.SampleRate(),
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   frameSize * 4,
	})
	if err != nil {
		return fmt.Errorf("sc68play: audio context: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(reader)
	player.Play()
	defer player.Close()

	fmt.Println("playing synthesized two-voice drone - space: pause/resume, q: quit")
	runKeypressLoop(reader.paused)
	return nil
}

// runKeypressLoop puts stdin in raw mode and blocks until 'q' is pressed,
// toggling pause on space, following terminal_host.go's
// MakeRaw/SetNonblock/syscall.Read pattern.
func runKeypressLoop(paused *atomic.Bool) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		// Not an interactive terminal (e.g. piped stdin); just block.
		select {}
	}
	defer term.Restore(fd, oldState)
	_ = syscall.SetNonblock(fd, true)
	defer syscall.SetNonblock(fd, false)

	buf := make([]byte, 1)
	for {
		n, err := syscall.Read(fd, buf)
		if n > 0 {
			switch buf[0] {
			case ' ':
				paused.Store(!paused.Load())
			case 'q', 'Q', 3: // 3 = Ctrl-C
				return
			}
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(20 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
	}
}

// serveGDB accepts one gdb `target remote` connection at addr and serves
// the CPU core directly, single-stepping or free-running it between
// commands (core.DebugStub's g/G/m/M/c/s/?/k/q set). The playback
// driver's own quantum loop is not used here: a debug session drives the
// CPU directly, one instruction or one free run at a time.
func serveGDB(addr string, driver *core.PlaybackDriver) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("sc68play: gdb listen: %w", err)
	}
	defer ln.Close()
	fmt.Println("sc68play: waiting for gdb to connect on", addr)

	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("sc68play: gdb accept: %w", err)
	}
	defer conn.Close()

	cpu := driver.CPU()
	cpu.PC = initOffset

	stub := core.NewDebugStub(cpu, driver.Bus(), conn)
	const maxInstructionsPerContinue = 1_000_000

	vector := int(cpu.LastVector)
	for {
		status, err := stub.Handle(vector)
		if err != nil {
			return fmt.Errorf("sc68play: gdb session: %w", err)
		}
		if status == core.StubKilled {
			return nil
		}
		if status == core.StubStep {
			cpu.Step()
		} else {
			for i := 0; i < maxInstructionsPerContinue; i++ {
				if cpu.Step() == 0 {
					break
				}
			}
		}
		vector = int(cpu.LastVector)
	}
}
