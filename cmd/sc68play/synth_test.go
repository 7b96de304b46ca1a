package main

import (
	"testing"

	core "github.com/sc68/core68k"
)

func newSynthTestBus(t *testing.T) (*core.MemoryBus, *core.YMChip) {
	t.Helper()
	bus, err := core.NewMemoryBus(16 * 1024 * 1024)
	if err != nil {
		t.Fatalf("NewMemoryBus: %v", err)
	}
	ym := core.NewYMChip(44100, 0)
	if err := bus.Attach(ym, ymAddrPort, ymDataPort+1); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return bus, ym
}

func TestEmitMoveBImmAbsLongEncoding(t *testing.T) {
	bus, _ := newSynthTestBus(t)
	const pc = 0x2000
	next := emitMoveBImmAbsLong(bus, pc, 0x7, 0x00FF00AA)

	if next != pc+8 {
		t.Fatalf("next pc = %#x, want %#x", next, pc+8)
	}
	if op := bus.ReadW(pc); op != moveBImmAbsLong {
		t.Errorf("opcode word = %#x, want %#x", op, moveBImmAbsLong)
	}
	if imm := bus.ReadW(pc + 2); imm != 0x0007 {
		t.Errorf("immediate word = %#x, want 0x0007", imm)
	}
	if hi := bus.ReadW(pc + 4); hi != 0x00FF {
		t.Errorf("address high word = %#x, want 0x00FF", hi)
	}
	if lo := bus.ReadW(pc + 6); lo != 0x00AA {
		t.Errorf("address low word = %#x, want 0x00AA", lo)
	}
}

func TestEmitRTSEncoding(t *testing.T) {
	bus, _ := newSynthTestBus(t)
	next := emitRTS(bus, 0x3000)
	if next != 0x3002 {
		t.Fatalf("next pc = %#x, want 0x3002", next)
	}
	if op := bus.ReadW(0x3000); op != rtsOpcode {
		t.Errorf("opcode word = %#x, want %#x", op, rtsOpcode)
	}
}

// TestBuildTwoVoiceDroneProgramsYMRegisters runs the synthesized INIT
// routine on a real CPU and checks every register in
// twoVoiceDroneRegisters landed in the chip.
func TestBuildTwoVoiceDroneProgramsYMRegisters(t *testing.T) {
	bus, ym := newSynthTestBus(t)
	_ = ym

	const initOffset = 0x1000
	const playOffset = 0x1400
	entry := buildTwoVoiceDrone(bus, initOffset, playOffset, twoVoiceDroneRegisters)

	cpu := core.NewCPUState(bus)
	cpu.A[7] = 0x3FF00
	cpu.Push32(0)
	a7Start := cpu.A[7]
	cpu.PC = entry.InitOffset

	for i := 0; i < 10000 && cpu.A[7] <= a7Start; i++ {
		if cpu.Step() == 0 {
			t.Fatalf("CPU halted/stopped while running INIT")
		}
	}
	if cpu.A[7] <= a7Start {
		t.Fatalf("INIT routine never returned")
	}

	for _, w := range twoVoiceDroneRegisters {
		bus.WriteB(ymAddrPort, w.reg)
		if got := bus.ReadB(ymDataPort); got != w.value {
			t.Errorf("YM register %d = %#x, want %#x", w.reg, got, w.value)
		}
	}

	// PLAY must be a single RTS: executing it should return immediately
	// without touching any registers.
	cpu.A[7] = 0x3FF00
	cpu.Push32(0)
	a7Start = cpu.A[7]
	cpu.PC = entry.PlayOffset
	if cpu.Step() == 0 {
		t.Fatalf("CPU halted/stopped while running PLAY")
	}
	if cpu.A[7] <= a7Start {
		t.Fatalf("PLAY routine did not return after a single step")
	}
}
