// synth.go - hand-assembles a tiny 68000 INIT/PLAY pair directly into the
// bus, in lieu of an SNDH/sc68 file loader (out of scope per spec §1).
//
// INIT programs the YM-2149 for a static two-voice drone by walking its
// address-latch/data-port register pair; PLAY is a bare RTS, since there
// is no sequencer here to advance - the drone keeps sounding because
// PlaybackDriver renders the chips every quantum regardless of what PLAY
// itself did (core.TrackState/PlaybackDriver's cycles_per_pass contract).

package main

import core "github.com/sc68/core68k"

const (
	ymAddrPort = 0xFF8800
	ymDataPort = 0xFF8802

	rtsOpcode = 0x4E75

	// moveBImmAbsLong is "MOVE.B #imm8,ABS.L": byte-size immediate-to-
	// absolute-long move, opcode bits 15-14=00 (MOVE), size=01 (byte),
	// dest mode/reg=111/001 (abs.L), src mode/reg=111/100 (immediate).
	moveBImmAbsLong = 0x13FC
)

// ymRegWrite is one YM-2149 register/value pair programmed by INIT.
type ymRegWrite struct {
	reg   uint8
	value uint8
}

// twoVoiceDroneRegisters sets channel A and B tone periods a fifth apart,
// disables channel C and all noise, and runs A/B at fixed maximum volume.
var twoVoiceDroneRegisters = []ymRegWrite{
	{0, 0x00}, // channel A period, low byte
	{1, 0x01}, // channel A period, high nibble (period = 0x0100)
	{2, 0xAC}, // channel B period, low byte
	{3, 0x00}, // channel B period, high nibble (period = 0x00AC)
	{7, 0x3C}, // mixer: tone A/B on, tone C off, all noise off
	{8, 0x0F}, // channel A volume, fixed (envelope bit clear)
	{9, 0x0F}, // channel B volume, fixed
	{10, 0x00}, // channel C volume, silent
}

// emitMoveBImmAbsLong assembles "MOVE.B #imm,addr" at pc and returns the
// offset immediately following it (8 bytes: opcode, imm extension word,
// two address words).
func emitMoveBImmAbsLong(bus *core.MemoryBus, pc uint32, imm uint8, addr uint32) uint32 {
	bus.WriteW(pc, moveBImmAbsLong)
	bus.WriteW(pc+2, uint16(imm))
	bus.WriteW(pc+4, uint16(addr>>16))
	bus.WriteW(pc+6, uint16(addr&0xFFFF))
	return pc + 8
}

// emitRTS assembles RTS at pc and returns the offset following it.
func emitRTS(bus *core.MemoryBus, pc uint32) uint32 {
	bus.WriteW(pc, rtsOpcode)
	return pc + 2
}

// buildTwoVoiceDrone writes the INIT routine (one address/data MOVE.B
// pair per register in regs) and a bare-RTS PLAY routine into bus,
// returning their entry offsets.
func buildTwoVoiceDrone(bus *core.MemoryBus, initOffset, playOffset uint32, regs []ymRegWrite) core.TrackEntry {
	pc := initOffset
	for _, w := range regs {
		pc = emitMoveBImmAbsLong(bus, pc, w.reg, ymAddrPort)
		pc = emitMoveBImmAbsLong(bus, pc, w.value, ymDataPort)
	}
	emitRTS(bus, pc)
	emitRTS(bus, playOffset)
	return core.TrackEntry{InitOffset: initOffset, PlayOffset: playOffset}
}
