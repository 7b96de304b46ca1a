// ops_misc.go - the line-4 "miscellaneous" instruction bodies: LEA/PEA/
// SWAP/EXT/MOVEM, CLR/NEG/NEGX/NOT/TST/TAS/NBCD, CHK, MOVE to/from SR/CCR,
// JMP/JSR, and the "funky" no-operand group (NOP/RESET/STOP/RTE/RTS/RTR/
// TRAPV/TRAP/LINK/UNLK/MOVE USP).
//
// Grounded on the teacher's ExecLea/ExecPea/ExecSwap/ExecExt/ExecMovem/
// ExecClr/ExecTst/ExecNeg/ExecNegx/ExecNot/ExecTas/ExecNbcd/ExecChk/
// ExecLink/ExecUnlk/ExecMoveFromSR/ExecMoveToSR in cpu_m68k.go, rerouted
// through the shared AddressingUnit/flags primitives.

package sc68core

func execLea(c *CPUState, opcode uint16) {
	destReg := (opcode >> 9) & 7
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)
	c.A[destReg] = c.EffectiveAddress(mode, reg, SizeLong)
}

func execPea(c *CPUState, opcode uint16) {
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)
	if mode == ModeDataDirect { // SWAP (mode 0) shares the PEA table slot
		execSwap(c, opcode)
		return
	}
	addr := c.EffectiveAddress(mode, reg, SizeLong)
	c.Push32(addr)
}

// execSwap exchanges the upper and lower words of a data register.
func execSwap(c *CPUState, opcode uint16) {
	reg := opcode & 7
	v := c.D[reg]
	c.D[reg] = (v << 16) | (v >> 16)
	c.flagsMove(c.D[reg], SizeLong)
}

// execExt sign-extends byte->word (opmode 2) or word->long (opmode 3)
// within a single data register.
func execExt(c *CPUState, opcode uint16) {
	reg := opcode & 7
	opmode := (opcode >> 6) & 7
	switch opmode {
	case 2: // EXT.W
		c.D[reg] = mergeSize(c.D[reg], uint32(int32(int8(c.D[reg]))), SizeWord)
		c.flagsMove(c.D[reg], SizeWord)
	case 3: // EXT.L
		c.D[reg] = uint32(int32(int16(c.D[reg])))
		c.flagsMove(c.D[reg], SizeLong)
	default:
		c.RaiseException(VecIllegal)
	}
}

// execMovem builds the handler for MOVEM: direction and size come from the
// opcode bits the classifier already used to route here; the addressing
// mode and register come from the full opcode, and the register mask is a
// second instruction word, both read at execution time. EXT.W/EXT.L
// (register-to-memory direction, mode 0) share these table slots and are
// handed to execExt.
func execMovem(opcode uint16) opHandler {
	toMemory := opcode&0x0400 == 0
	isLong := opcode&0x0040 != 0

	return func(c *CPUState, opcode uint16) {
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)
		if toMemory && mode == ModeDataDirect {
			execExt(c, opcode)
			return
		}

		mask := c.fetch16()
		size := SizeWord
		if isLong {
			size = SizeLong
		}

		if toMemory && mode == ModeAddrPreDec {
			// Predecrement: mask bit 0 is A7, bit 15 is D0; registers are
			// stored A7..A0,D7..D0, decrementing before each write.
			for i := 0; i < 16; i++ {
				if mask&(1<<uint(i)) == 0 {
					continue
				}
				c.A[reg] -= uint32(size)
				if i < 8 {
					writeMovemReg(c, c.A[reg], 7-i, true, size)
				} else {
					writeMovemReg(c, c.A[reg], 15-i, false, size)
				}
			}
			return
		}

		if toMemory {
			addr := c.EffectiveAddress(mode, reg, size)
			for i := 0; i < 16; i++ {
				if mask&(1<<uint(i)) == 0 {
					continue
				}
				if i < 8 {
					writeMovemReg(c, addr, i, false, size)
				} else {
					writeMovemReg(c, addr, i-8, true, size)
				}
				addr += uint32(size)
			}
			return
		}

		// Memory to register, always low-to-high (D0..D7,A0..A7).
		addr := c.EffectiveAddress(mode, reg, size)
		for i := 0; i < 16; i++ {
			if mask&(1<<uint(i)) == 0 {
				continue
			}
			v := c.readMem(addr, size)
			if size == SizeWord {
				v = uint32(int32(int16(v)))
			}
			if i < 8 {
				c.D[i] = v
			} else {
				c.A[i-8] = v
			}
			addr += uint32(size)
		}
		if mode == ModeAddrPostInc {
			c.A[reg] = addr
		}
	}
}

func writeMovemReg(c *CPUState, addr uint32, reg int, isAddr bool, size Size) {
	var v uint32
	if isAddr {
		v = c.A[reg]
	} else {
		v = c.D[reg]
	}
	if size == SizeWord {
		c.bus.WriteW(addr, uint16(v))
	} else {
		c.bus.WriteL(addr, v)
	}
}

func execClr(size Size) opHandler {
	return func(c *CPUState, opcode uint16) {
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)
		c.WriteOperand(mode, reg, size, 0)
		c.flagsMove(0, size)
	}
}

func execTst(size Size) opHandler {
	return func(c *CPUState, opcode uint16) {
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)
		v := c.ReadOperand(mode, reg, size)
		c.flagsNZ(v, size)
	}
}

func execNeg(size Size) opHandler {
	return func(c *CPUState, opcode uint16) {
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)
		src := c.ReadOperand(mode, reg, size)
		result := maskSize(0-src, size)
		c.flagsSub(0, src, result, size)
		c.WriteOperand(mode, reg, size, result)
	}
}

func execNegx(size Size) opHandler {
	return func(c *CPUState, opcode uint16) {
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)
		src := c.ReadOperand(mode, reg, size)
		x := uint32(0)
		if c.flagX() {
			x = 1
		}
		result := maskSize(0-src-x, size)
		c.flagsSubX(0, src, result, size, false)
		c.WriteOperand(mode, reg, size, result)
	}
}

func execNot(size Size) opHandler {
	return func(c *CPUState, opcode uint16) {
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)
		v := c.ReadOperand(mode, reg, size)
		result := maskSize(^v, size)
		c.WriteOperand(mode, reg, size, result)
		c.flagsNZ(result, size)
	}
}

// execTas sets N/Z from the original operand, then sets the operand's
// high bit as an indivisible read-modify-write (spec.md treats the bus as
// single-threaded, so no explicit lock is needed here).
func execTas(c *CPUState, opcode uint16) {
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)
	v := c.ReadOperand(mode, reg, SizeByte)
	c.flagsNZ(v, SizeByte)
	c.WriteOperand(mode, reg, SizeByte, v|0x80)
}

// execNbcd computes 0 - src - X in BCD, matching the teacher's digit-wise
// adjustment algorithm.
func execNbcd(c *CPUState, opcode uint16) {
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)
	src := uint8(c.ReadOperand(mode, reg, SizeByte))

	x := int16(0)
	if c.flagX() {
		x = 1
	}

	res := -int16(src&0x0F) - x
	if res < 0 {
		res -= 6
	}
	res -= int16(src & 0xF0)

	setBit(&c.SR, SRFlagX, false)
	setBit(&c.SR, SRFlagC, false)
	setBit(&c.SR, SRFlagN, false)
	setBit(&c.SR, SRFlagV, false)

	if res < 0 {
		res += 0xA0
		setBit(&c.SR, SRFlagX, true)
		setBit(&c.SR, SRFlagC, true)
	}

	result := uint8(res)
	if result != 0 {
		setBit(&c.SR, SRFlagZ, false)
	}
	setBit(&c.SR, SRFlagN, result&0x80 != 0)

	c.WriteOperand(mode, reg, SizeByte, uint32(result))
}

// execChk raises the CHK exception when the data register is negative or
// exceeds the upper bound operand (spec.md §4.3 line 4 edge case).
func execChk(c *CPUState, opcode uint16) {
	destReg := (opcode >> 9) & 7
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	bound := int32(int16(c.ReadOperand(mode, reg, SizeWord)))
	value := int32(int16(c.D[destReg]))

	setBit(&c.SR, SRFlagN, value < 0)
	if value < 0 || value > bound {
		c.RaiseException(VecCHK)
	}
}

func execMoveFromSR(c *CPUState, opcode uint16) {
	if !c.Supervisor() {
		c.RaiseException(VecPrivilege)
		return
	}
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)
	c.WriteOperand(mode, reg, SizeWord, uint32(c.SR))
}

func execMoveToSR(c *CPUState, opcode uint16) {
	if !c.Supervisor() {
		c.RaiseException(VecPrivilege)
		return
	}
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)
	newSR := uint16(c.ReadOperand(mode, reg, SizeWord))
	c.setSR(newSR)
}

func execMoveToCCR(c *CPUState, opcode uint16) {
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)
	v := uint16(c.ReadOperand(mode, reg, SizeWord))
	c.SR = (c.SR &^ SRMaskCCR) | (v & SRMaskCCR)
}

func execJmp(c *CPUState, opcode uint16) {
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)
	c.PC = c.EffectiveAddress(mode, reg, SizeLong)
}

func execJsr(c *CPUState, opcode uint16) {
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)
	target := c.EffectiveAddress(mode, reg, SizeLong)
	c.Push32(c.PC)
	c.PC = target
}

func execReset(c *CPUState, opcode uint16) {
	if !c.Supervisor() {
		c.RaiseException(VecPrivilege)
		return
	}
	for _, bind := range c.bus.chips.Bindings() {
		bind.Chip.Reset()
	}
}

func execNop(c *CPUState, opcode uint16) {}

func execStop(c *CPUState, opcode uint16) {
	if !c.Supervisor() {
		c.RaiseException(VecPrivilege)
		return
	}
	newSR := c.fetch16()
	c.SR = newSR
	c.Halted = true
}

func execRte(c *CPUState, opcode uint16) {
	if !c.Supervisor() {
		c.RaiseException(VecPrivilege)
		return
	}
	c.Rte()
}

func execRts(c *CPUState, opcode uint16) {
	c.PC = c.Pop32()
}

func execTrapv(c *CPUState, opcode uint16) {
	if c.flagV() {
		c.RaiseException(VecTrapV)
	}
}

func execRtr(c *CPUState, opcode uint16) {
	ccr := c.Pop16()
	c.PC = c.Pop32()
	c.SR = (c.SR &^ SRMaskCCR) | (ccr & SRMaskCCR)
}

func execTrap(c *CPUState, opcode uint16) {
	vector := uint8(VecTrapBase) + uint8(opcode&0xF)
	c.RaiseException(vector)
}

func execLink(c *CPUState, opcode uint16) {
	reg := opcode & 7
	disp := int16(c.fetch16())
	c.Push32(c.A[reg])
	c.A[reg] = c.A[7]
	c.A[7] = uint32(int32(c.A[7]) + int32(disp))
}

func execUnlk(c *CPUState, opcode uint16) {
	reg := opcode & 7
	c.A[7] = c.A[reg]
	c.A[reg] = c.Pop32()
}

// execMoveUSP moves data between an address register and the user stack
// pointer; only valid in supervisor mode (opcode bit 3 selects direction).
func execMoveUSP(c *CPUState, opcode uint16) {
	if !c.Supervisor() {
		c.RaiseException(VecPrivilege)
		return
	}
	reg := opcode & 7
	if opcode&0x8 == 0 {
		c.USP = c.A[reg]
	} else {
		c.A[reg] = c.USP
	}
}
