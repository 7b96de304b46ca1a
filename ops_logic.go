// ops_logic.go - line 8 (OR/DIVU/DIVS/SBCD/PACK/UNPK) and line C (AND/
// MULU/MULS/ABCD/EXG), reached from classify() for both 0x8 and 0xC via
// classifyLine8C with an `isAndSide` flag distinguishing OR from AND.
//
// Grounded on the teacher's decodeGroup8/decodeGroupC/ExecOr/ExecAnd/
// ExecMulu/ExecMuls/ExecDivu/ExecDivs/ExecAbcd/ExecSbcd in cpu_m68k.go.

package sc68core

// classifyLine8C covers both line 8 (OR family, isAndSide=false) and line
// C (AND family, isAndSide=true): the two lines share the same opmode/EXG
// layout, differing only in which logic operator the general case uses.
func classifyLine8C(opcode uint16, isAndSide bool) decodeEntry {
	if opcode&0x00C0 == 0x00C0 { // MULU/MULS or DIVU/DIVS (line selects which)
		if isAndSide {
			if opcode&0x0100 == 0 {
				return decodeEntry{exec: execMulu, cycles: 70}
			}
			return decodeEntry{exec: execMuls, cycles: 70}
		}
		if opcode&0x0100 == 0 {
			return decodeEntry{exec: execDivu, cycles: 140}
		}
		return decodeEntry{exec: execDivs, cycles: 158}
	}

	if isAndSide {
		if opcode&0xF1F0 == 0xC100 { // ABCD
			return decodeEntry{exec: withLogicFallback(execAbcd, true), cycles: 6}
		}
		if opcode&0xF130 == 0xC100 { // EXG
			return decodeEntry{exec: withLogicFallback(execExg, true), cycles: 6}
		}
	} else {
		if opcode&0xF1F0 == 0x8100 { // SBCD
			return decodeEntry{exec: withLogicFallback(execSbcd, false), cycles: 6}
		}
		if opcode&0xF1F0 == 0x8140 { // PACK
			return decodeEntry{exec: withLogicFallback(execPack, false), cycles: 6}
		}
		if opcode&0xF1F0 == 0x8180 { // UNPK
			return decodeEntry{exec: withLogicFallback(execUnpk, false), cycles: 6}
		}
	}

	return decodeEntry{exec: logicHandler(isAndSide), cycles: 4}
}

// withLogicFallback runs special when the opcode's mode field (bits 5..3)
// is 0 or 1 and the general OR/AND handler otherwise: SBCD/PACK/UNPK/ABCD/
// EXG share their table slots with OR/AND Dn,<ea>, which use modes 2..7.
func withLogicFallback(special opHandler, isAnd bool) opHandler {
	logic := logicHandler(isAnd)
	return func(c *CPUState, opcode uint16) {
		if opcode&0x0030 != 0 {
			logic(c, opcode)
			return
		}
		special(c, opcode)
	}
}

// logicHandler implements the general OR/AND <ea>,Dn and Dn,<ea> forms.
func logicHandler(isAnd bool) opHandler {
	return func(c *CPUState, opcode uint16) {
		reg := (opcode >> 9) & 7
		opmode := (opcode >> 6) & 7
		mode := uint8((opcode >> 3) & 7)
		xreg := uint8(opcode & 7)
		size := sizeField0006(opcode)
		toMemory := opmode&0x4 != 0

		if toMemory {
			src := c.D[reg]
			dst := c.ReadOperand(mode, xreg, size)
			var result uint32
			if isAnd {
				result = maskSize(dst&src, size)
			} else {
				result = maskSize(dst|src, size)
			}
			c.WriteOperand(mode, xreg, size, result)
			c.flagsNZ(result, size)
			return
		}

		src := c.ReadOperand(mode, xreg, size)
		dst := c.D[reg]
		var result uint32
		if isAnd {
			result = maskSize(dst&src, size)
		} else {
			result = maskSize(dst|src, size)
		}
		c.D[reg] = mergeSize(c.D[reg], result, size)
		c.flagsNZ(result, size)
	}
}

func execMulu(c *CPUState, opcode uint16) {
	reg := (opcode >> 9) & 7
	mode := uint8((opcode >> 3) & 7)
	xreg := uint8(opcode & 7)

	src := c.ReadOperand(mode, xreg, SizeWord)
	dst := c.D[reg] & 0xFFFF
	result := dst * src
	c.D[reg] = result
	c.flagsNZ(result, SizeLong)
}

func execMuls(c *CPUState, opcode uint16) {
	reg := (opcode >> 9) & 7
	mode := uint8((opcode >> 3) & 7)
	xreg := uint8(opcode & 7)

	src := int32(int16(c.ReadOperand(mode, xreg, SizeWord)))
	dst := int32(int16(c.D[reg]))
	result := uint32(dst * src)
	c.D[reg] = result
	c.flagsNZ(result, SizeLong)
}

// execDivu implements 32/16 unsigned division: quotient to the low word,
// remainder to the high word; overflow sets V and leaves the register
// unchanged (spec.md §4.3 DIVU/DIVS edge case).
func execDivu(c *CPUState, opcode uint16) {
	reg := (opcode >> 9) & 7
	mode := uint8((opcode >> 3) & 7)
	xreg := uint8(opcode & 7)

	src := c.ReadOperand(mode, xreg, SizeWord)
	if src == 0 {
		c.RaiseException(VecZeroDivide)
		return
	}

	dst := c.D[reg]
	quotient := dst / src
	if quotient > 0xFFFF {
		setBit(&c.SR, SRFlagV, true)
		return
	}
	remainder := dst % src
	c.D[reg] = (remainder << 16) | (quotient & 0xFFFF)
	setBit(&c.SR, SRFlagV, false)
	setBit(&c.SR, SRFlagC, false)
	setBit(&c.SR, SRFlagZ, quotient == 0)
	setBit(&c.SR, SRFlagN, quotient&0x8000 != 0)
}

func execDivs(c *CPUState, opcode uint16) {
	reg := (opcode >> 9) & 7
	mode := uint8((opcode >> 3) & 7)
	xreg := uint8(opcode & 7)

	src := int32(int16(c.ReadOperand(mode, xreg, SizeWord)))
	if src == 0 {
		c.RaiseException(VecZeroDivide)
		return
	}

	dst := int32(c.D[reg])
	if dst == -0x80000000 && src == -1 {
		setBit(&c.SR, SRFlagV, true)
		return
	}
	quotient := dst / src
	if quotient < -32768 || quotient > 32767 {
		setBit(&c.SR, SRFlagV, true)
		return
	}
	remainder := dst % src
	c.D[reg] = (uint32(remainder) << 16) | uint32(quotient)&0xFFFF
	setBit(&c.SR, SRFlagV, false)
	setBit(&c.SR, SRFlagC, false)
	setBit(&c.SR, SRFlagZ, quotient == 0)
	setBit(&c.SR, SRFlagN, quotient < 0)
}

func execExg(c *CPUState, opcode uint16) {
	rx := (opcode >> 9) & 7
	ry := opcode & 7
	switch (opcode >> 3) & 0x1F {
	case 0x08:
		c.D[rx], c.D[ry] = c.D[ry], c.D[rx]
	case 0x09:
		c.A[rx], c.A[ry] = c.A[ry], c.A[rx]
	case 0x11:
		c.D[rx], c.A[ry] = c.A[ry], c.D[rx]
	default:
		c.RaiseException(VecIllegal)
	}
}

// bcdAdd is the digit-wise BCD addition used by ABCD (spec.md groups
// these as "decimal arithmetic"); SBCD and NBCD carry their own
// subtraction code.
func bcdAdd(c *CPUState, src, dst uint8) uint8 {
	x := uint16(0)
	if c.flagX() {
		x = 1
	}
	res := uint16(src&0x0F) + uint16(dst&0x0F) + x
	if res > 9 {
		res += 6
	}
	res += uint16(src&0xF0) + uint16(dst&0xF0)

	setBit(&c.SR, SRFlagX, false)
	setBit(&c.SR, SRFlagC, false)
	setBit(&c.SR, SRFlagV, false)

	if res > 0x99 {
		res += 0x60
		setBit(&c.SR, SRFlagX, true)
		setBit(&c.SR, SRFlagC, true)
	}

	result := uint8(res)
	setBit(&c.SR, SRFlagN, result&0x80 != 0)
	if result != 0 {
		setBit(&c.SR, SRFlagZ, false)
	}
	return result
}

func execAbcd(c *CPUState, opcode uint16) {
	rx := opcode & 7
	ry := (opcode >> 9) & 7
	memForm := opcode&0x0008 != 0

	if !memForm {
		src := uint8(c.D[rx])
		dst := uint8(c.D[ry])
		result := bcdAdd(c, src, dst)
		c.D[ry] = mergeSize(c.D[ry], uint32(result), SizeByte)
		return
	}

	c.A[rx] -= 1
	src := c.bus.ReadB(c.A[rx])
	c.A[ry] -= 1
	dst := c.bus.ReadB(c.A[ry])
	result := bcdAdd(c, src, dst)
	c.bus.WriteB(c.A[ry], result)
}

func execSbcd(c *CPUState, opcode uint16) {
	rx := opcode & 7
	ry := (opcode >> 9) & 7
	memForm := opcode&0x0008 != 0

	var src, dst uint8
	if !memForm {
		src = uint8(c.D[rx])
		dst = uint8(c.D[ry])
	} else {
		c.A[rx] -= 1
		src = c.bus.ReadB(c.A[rx])
		c.A[ry] -= 1
		dst = c.bus.ReadB(c.A[ry])
	}

	x := int16(0)
	if c.flagX() {
		x = 1
	}
	res := int16(dst&0x0F) - int16(src&0x0F) - x
	if res < 0 {
		res -= 6
	}
	res += int16(dst&0xF0) - int16(src&0xF0)

	setBit(&c.SR, SRFlagX, false)
	setBit(&c.SR, SRFlagC, false)
	setBit(&c.SR, SRFlagV, false)

	if res < 0 {
		res -= 0x60
		setBit(&c.SR, SRFlagX, true)
		setBit(&c.SR, SRFlagC, true)
	}

	result := uint8(res)
	setBit(&c.SR, SRFlagN, result&0x80 != 0)
	if result != 0 {
		setBit(&c.SR, SRFlagZ, false)
	}

	if !memForm {
		c.D[ry] = mergeSize(c.D[ry], uint32(result), SizeByte)
	} else {
		c.bus.WriteB(c.A[ry], result)
	}
}

// execPack converts two unpacked BCD digits (plus a 16-bit adjustment) to
// one packed BCD byte; execUnpk is its inverse. Both operate register-to-
// register or via predecrement memory, selected the same way as ABCD/SBCD.
func execPack(c *CPUState, opcode uint16) {
	rx := opcode & 7
	ry := (opcode >> 9) & 7
	memForm := opcode&0x0008 != 0
	adj := c.fetch16()

	var src uint16
	if !memForm {
		src = uint16(c.D[rx])
	} else {
		c.A[rx] -= 1
		lo := c.bus.ReadB(c.A[rx])
		c.A[rx] -= 1
		hi := c.bus.ReadB(c.A[rx])
		src = uint16(hi)<<8 | uint16(lo)
	}

	sum := src + adj
	result := uint8((sum>>4)&0xF0) | uint8(sum&0x0F)

	if !memForm {
		c.D[ry] = mergeSize(c.D[ry], uint32(result), SizeByte)
	} else {
		c.A[ry] -= 1
		c.bus.WriteB(c.A[ry], result)
	}
}

func execUnpk(c *CPUState, opcode uint16) {
	rx := opcode & 7
	ry := (opcode >> 9) & 7
	memForm := opcode&0x0008 != 0
	adj := c.fetch16()

	var src uint8
	if !memForm {
		src = uint8(c.D[rx])
	} else {
		c.A[rx] -= 1
		src = c.bus.ReadB(c.A[rx])
	}

	unpacked := uint16(src&0x0F) | (uint16(src&0xF0) << 4)
	result := unpacked + adj

	if !memForm {
		c.D[ry] = mergeSize(c.D[ry], uint32(result), SizeWord)
	} else {
		c.A[ry] -= 1
		c.bus.WriteB(c.A[ry], uint8(result))
		c.A[ry] -= 1
		c.bus.WriteB(c.A[ry], uint8(result>>8))
	}
}
