// ops_move.go - MOVE/MOVEA/MOVEQ and the LEA/PEA/EXT/SWAP/CLR/TST/MOVEM
// data-movement family (spec.md §4.3, lines 1-3 and part of line 4).
//
// Grounded on the teacher's ExecMove/ExecMoveq/ExecLea/ExecPea/ExecSwap/
// ExecExt/ExecClr/ExecTst/ExecMovem in cpu_m68k.go, adapted to route
// through the shared AddressingUnit/flags primitives instead of inline
// per-instruction EA and CCR logic.

package sc68core

func moveSizeForLine(opcode uint16) Size {
	switch opcode & 0x3000 {
	case 0x1000:
		return SizeByte
	case 0x3000:
		return SizeWord
	default:
		return SizeLong
	}
}

func classifyMove(opcode uint16) decodeEntry {
	size := moveSizeForLine(opcode)
	destMode := uint8((opcode >> 6) & 7)
	if destMode == ModeAddrDirect {
		return decodeEntry{exec: movaHandler(size), cycles: 4}
	}
	return decodeEntry{exec: moveHandler(size), cycles: 4}
}

func moveHandler(size Size) opHandler {
	return func(c *CPUState, opcode uint16) {
		srcMode := uint8((opcode >> 3) & 7)
		srcReg := uint8(opcode & 7)
		destReg := uint8((opcode >> 9) & 7)
		destMode := uint8((opcode >> 6) & 7)

		value := c.ReadOperand(srcMode, srcReg, size)
		c.WriteOperand(destMode, destReg, size, value)
		c.flagsMove(value, size)
	}
}

// movaHandler implements MOVEA: the destination is an address register,
// the value is sign-extended to 32 bits, and condition codes are left
// untouched (spec.md §4.3: "except when the destination is An").
func movaHandler(size Size) opHandler {
	return func(c *CPUState, opcode uint16) {
		srcMode := uint8((opcode >> 3) & 7)
		srcReg := uint8(opcode & 7)
		destReg := uint8((opcode >> 9) & 7)

		value := c.ReadOperand(srcMode, srcReg, size)
		c.A[destReg] = uint32(signExtend(value, size))
	}
}

// execMoveq implements MOVEQ: an 8-bit signed immediate sign-extended
// into a data register (bit 8 set is illegal per spec.md §4.3 line 7).
func execMoveq(c *CPUState, opcode uint16) {
	reg := (opcode >> 9) & 7
	data := int8(opcode & 0xFF)
	c.D[reg] = uint32(int32(data))
	c.flagsMove(c.D[reg], SizeLong)
}

// classifyLine4 covers the "miscellaneous" line 4: NEGX/CLR/NEG/NOT/TST/
// NBCD/SWAP/EXT/PEA/TAS/JMP/JSR/LEA/CHK/MOVEM/MOVE from|to SR|CCR, plus
// the "funky" group (RESET/NOP/STOP/RTE/RTS/RTR/TRAPV/LINK/UNLK/MOVE
// USP/TRAP).
func classifyLine4(opcode uint16) decodeEntry {
	switch {
	case opcode&0xFB80 == 0x4880: // MOVEM; EXT (mode 0) shares these slots and execMovem runs it
		return decodeEntry{exec: execMovem(opcode), cycles: 8}
	case opcode&0xFFC0 == 0x4E40: // TRAP/LINK/UNLK/MOVE USP/NOP/RTS/...: one slot, split at run time
		return decodeEntry{exec: execLine4Funky, cycles: 4}
	case opcode&0xFFC0 == 0x40C0: // MOVE from SR
		return decodeEntry{exec: execMoveFromSR, cycles: 6}
	case opcode&0xFFC0 == 0x44C0: // MOVE to CCR
		return decodeEntry{exec: execMoveToCCR, cycles: 12}
	case opcode&0xFFC0 == 0x46C0: // MOVE to SR
		return decodeEntry{exec: execMoveToSR, cycles: 12}
	case opcode&0xF1C0 == 0x41C0: // LEA
		return decodeEntry{exec: execLea, cycles: 4}
	case opcode&0xF1C0 == 0x4180: // CHK.W
		return decodeEntry{exec: execChk, cycles: 10}
	case opcode&0xFF00 == 0x4200: // CLR
		return decodeEntry{exec: execClr(sizeField0006(opcode)), cycles: 4}
	case opcode&0xFF00 == 0x4400: // NEG
		return decodeEntry{exec: execNeg(sizeField0006(opcode)), cycles: 4}
	case opcode&0xFF00 == 0x4000: // NEGX
		return decodeEntry{exec: execNegx(sizeField0006(opcode)), cycles: 4}
	case opcode&0xFF00 == 0x4600: // NOT
		return decodeEntry{exec: execNot(sizeField0006(opcode)), cycles: 4}
	case opcode&0xFFC0 == 0x4AC0: // TAS
		return decodeEntry{exec: execTas, cycles: 14}
	case opcode&0xFF00 == 0x4A00: // TST
		return decodeEntry{exec: execTst(sizeField0006(opcode)), cycles: 4}
	case opcode&0xFFC0 == 0x4840: // PEA; SWAP (mode 0) shares this slot and execPea runs it
		return decodeEntry{exec: execPea, cycles: 12}
	case opcode&0xFFF8 == 0x4840: // SWAP: never reached, the PEA case above takes this slot
		return decodeEntry{exec: execSwap, cycles: 4}
	case opcode&0xFFC0 == 0x4880 || opcode&0xFFC0 == 0x48C0: // EXT.W / EXT.L: never reached, the MOVEM case takes these slots
		return decodeEntry{exec: execExt, cycles: 4}
	case opcode&0xFFC0 == 0x4800: // NBCD
		return decodeEntry{exec: execNbcd, cycles: 6}
	case opcode&0xFFC0 == 0x4EC0: // JMP
		return decodeEntry{exec: execJmp, cycles: 8}
	case opcode&0xFFC0 == 0x4E80: // JSR
		return decodeEntry{exec: execJsr, cycles: 16}
	}
	return illegalEntry()
}

func sizeField0006(opcode uint16) Size {
	switch (opcode >> 6) & 3 {
	case 0:
		return SizeByte
	case 1:
		return SizeWord
	default:
		return SizeLong
	}
}

func classifyLine4Funky(opcode uint16) decodeEntry {
	switch opcode {
	case 0x4E70:
		return decodeEntry{exec: execReset, cycles: 132}
	case 0x4E71:
		return decodeEntry{exec: execNop, cycles: 4}
	case 0x4E72:
		return decodeEntry{exec: execStop, cycles: 4}
	case 0x4E73:
		return decodeEntry{exec: execRte, cycles: 20}
	case 0x4E75:
		return decodeEntry{exec: execRts, cycles: 16}
	case 0x4E76:
		return decodeEntry{exec: execTrapv, cycles: 4}
	case 0x4E77:
		return decodeEntry{exec: execRtr, cycles: 20}
	}
	switch opcode & 0xFFF0 {
	case 0x4E40:
		return decodeEntry{exec: execTrap, cycles: 34}
	case 0x4E50:
		if opcode&0x8 == 0 {
			return decodeEntry{exec: execLink, cycles: 16}
		}
		return decodeEntry{exec: execUnlk, cycles: 12}
	case 0x4E60:
		return decodeEntry{exec: execMoveUSP, cycles: 4}
	}
	return illegalEntry()
}

// execLine4Funky picks the funky-group handler from the full opcode: all of
// 0x4E40..0x4E7F falls in one table slot. The slot charges 4 cycles; the
// rest of the chosen instruction's cost is added here.
func execLine4Funky(c *CPUState, opcode uint16) {
	entry := classifyLine4Funky(opcode)
	entry.exec(c, opcode)
	c.Cycles += uint64(entry.cycles) - 4
}
