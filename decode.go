// decode.go - the 1024-entry instruction dispatch table (spec.md's Design
// Notes: "tabulate handlers by opcode-line as a fixed array of closures
// keyed on (line, opmode, mode), with the 64 per-line entries filled at
// module init"; confirmed against the real sc68 dispatch shape in
// original_source/tools/gen68.c, the instruction-table generator for the
// reference emu68 core).
//
// Each slot is selected by opcode bits 15..6 (1024 combinations). The
// handler stored in a slot receives the FULL fetched opcode word (not
// just the table index) and is responsible for decoding the addressing
// mode/register fields in bits 5..0 (and, where the instruction's format
// requires it, further sub-fields inside 15..6 that the classification
// below has already used to pick this handler). This mirrors the
// teacher's decodeGroupN functions in cpu_m68k.go, generalized into
// direct O(1) table dispatch instead of per-line switches.

package sc68core

type opHandler func(c *CPUState, opcode uint16)

type decodeEntry struct {
	exec   opHandler
	cycles uint32
}

var decodeTable [1024]decodeEntry

func init() {
	buildDecodeTable()
}

func illegalEntry() decodeEntry {
	return decodeEntry{exec: execIllegal, cycles: 4}
}

// buildDecodeTable fills every one of the 1024 slots exactly once, using
// the same bit-pattern classification the 68000 decodes by, reproduced
// from the top 10 bits synthesized for each index (idx<<6) the way a real
// fetch would present them.
func buildDecodeTable() {
	for idx := 0; idx < 1024; idx++ {
		opcode := uint16(idx) << 6
		decodeTable[idx] = classify(opcode)
	}
}

// classify picks the handler for a synthetic opcode whose low 6 bits are
// zero; only bits 15..6 are meaningful to this function, matching what
// the table index encodes.
func classify(opcode uint16) decodeEntry {
	line := opcode >> 12
	switch line {
	case 0x0:
		return classifyLine0(opcode)
	case 0x1, 0x2, 0x3:
		return classifyMove(opcode)
	case 0x4:
		return classifyLine4(opcode)
	case 0x5:
		return classifyLine5(opcode)
	case 0x6:
		return decodeEntry{exec: execBcc, cycles: 10}
	case 0x7:
		if opcode&0x0100 != 0 {
			return illegalEntry()
		}
		return decodeEntry{exec: execMoveq, cycles: 4}
	case 0x8:
		return classifyLine8C(opcode, false)
	case 0x9:
		return classifyLine9D(opcode, true)
	case 0xA:
		return decodeEntry{exec: execLineTrap(VecLineA), cycles: 4}
	case 0xB:
		return classifyLineB(opcode)
	case 0xC:
		return classifyLine8C(opcode, true)
	case 0xD:
		return classifyLine9D(opcode, false)
	case 0xE:
		return classifyLineE(opcode)
	case 0xF:
		return decodeEntry{exec: execLineTrap(VecLineF), cycles: 4}
	}
	return illegalEntry()
}

func execLineTrap(vector uint8) opHandler {
	return func(c *CPUState, opcode uint16) {
		c.RaiseException(vector)
	}
}

func execIllegal(c *CPUState, opcode uint16) {
	c.RaiseException(VecIllegal)
}

// Step fetches, decodes, and executes exactly one instruction, returning
// the number of cycles it cost. This is the CORE's only entry point that
// advances the CPU by an instruction; the PlaybackDriver calls it in a
// loop bounded by a cycle budget (spec.md §4.8).
func (c *CPUState) Step() int {
	if c.Halted || c.Stopped {
		return 0
	}

	startPC := c.PC
	opcode := c.bus.ReadW(c.PC)
	c.bus.MarkExecuted(c.PC)
	c.PC += 2

	entry := decodeTable[opcode>>6]
	if entry.exec == nil {
		execIllegal(c, opcode)
		return int(M68kCycleException)
	}

	defer func() {
		if r := recover(); r != nil {
			tracef("sc68core: recovered from panic executing opcode %04X at %06X: %v", opcode, startPC, r)
			c.RaiseException(VecIllegal)
		}
	}()

	entry.exec(c, opcode)
	cost := int(entry.cycles)
	c.Cycles += uint64(cost)
	return cost
}

// M68kCycleException is the nominal cost charged for an exception entry,
// matching the "includes stack frame creation overhead" note the teacher
// carries on its own M68K_CYCLE_EXCEPTION constant.
const M68kCycleException = 20
