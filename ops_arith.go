// ops_arith.go - line 9 (SUB/SUBA/SUBX) and line D (ADD/ADDA/ADDX), reached
// via classifyLine9D(opcode, isSub); and line B (CMP/CMPA/CMPM/EOR) via
// classifyLineB.
//
// Grounded on the teacher's decodeGroup9/decodeGroupD/decodeGroupB and
// ExecAdd/ExecSub/ExecAdda/ExecSuba/ExecAddx/ExecSubx/ExecCmp/ExecCmpa/
// ExecCmpm/ExecEor in cpu_m68k.go.

package sc68core

// classifyLine9D handles both SUB-family (isSub true, line 9) and
// ADD-family (isSub false, line D) opcodes; the two lines share layout.
func classifyLine9D(opcode uint16, isSub bool) decodeEntry {
	xbit := uint16(0x9100)
	if !isSub {
		xbit = 0xD100
	}
	if opcode&0xF130 == xbit && opcode&0x00C0 != 0x00C0 {
		return decodeEntry{exec: execAddSubX(isSub), cycles: 8}
	}

	opmode := (opcode >> 6) & 7
	if opmode == 3 || opmode == 7 {
		return decodeEntry{exec: execAddSubA(isSub), cycles: 8}
	}

	return decodeEntry{exec: addSubHandler(isSub), cycles: 4}
}

// addSubHandler implements the general ADD/SUB <ea>,Dn and Dn,<ea> forms.
func addSubHandler(isSub bool) opHandler {
	return func(c *CPUState, opcode uint16) {
		reg := (opcode >> 9) & 7
		opmode := (opcode >> 6) & 7
		mode := uint8((opcode >> 3) & 7)
		xreg := uint8(opcode & 7)
		size := Size(1 << (opmode & 3))
		toMemory := opmode&0x4 != 0

		if toMemory {
			src := c.D[reg]
			dst := c.ReadOperand(mode, xreg, size)
			var result uint32
			if isSub {
				result = maskSize(dst-src, size)
				c.flagsSub(dst, src, result, size)
			} else {
				result = maskSize(dst+src, size)
				c.flagsAdd(dst, src, result, size)
			}
			c.WriteOperand(mode, xreg, size, result)
			return
		}

		src := c.ReadOperand(mode, xreg, size)
		dst := c.D[reg]
		var result uint32
		if isSub {
			result = maskSize(dst-src, size)
			c.flagsSub(dst, src, result, size)
		} else {
			result = maskSize(dst+src, size)
			c.flagsAdd(dst, src, result, size)
		}
		c.D[reg] = mergeSize(c.D[reg], result, size)
	}
}

// execAddSubA implements ADDA/SUBA: word sources are sign-extended, the
// full 32-bit An destination is always used, and no flags are affected.
func execAddSubA(isSub bool) opHandler {
	return func(c *CPUState, opcode uint16) {
		destReg := (opcode >> 9) & 7
		opmode := (opcode >> 6) & 7
		mode := uint8((opcode >> 3) & 7)
		xreg := uint8(opcode & 7)

		size := SizeWord
		if opmode == 7 {
			size = SizeLong
		}
		src := uint32(signExtend(c.ReadOperand(mode, xreg, size), size))
		if isSub {
			c.A[destReg] -= src
		} else {
			c.A[destReg] += src
		}
	}
}

// execAddSubX implements ADDX/SUBX: register-to-register or predecrement
// memory-to-memory, with sticky Z across a multi-precision chain.
func execAddSubX(isSub bool) opHandler {
	general := addSubHandler(isSub)
	return func(c *CPUState, opcode uint16) {
		// Modes 2..7 are ADD/SUB Dn,<ea>, which share this table slot.
		if opcode&0x0030 != 0 {
			general(c, opcode)
			return
		}
		rx := opcode & 7
		ry := (opcode >> 9) & 7
		size := sizeField0006(opcode)
		memForm := opcode&0x0008 != 0

		var src, dst uint32
		if !memForm {
			src = maskSize(c.D[rx], size)
			dst = maskSize(c.D[ry], size)
		} else {
			c.A[rx] -= uint32(size)
			c.A[ry] -= uint32(size)
			src = c.readMem(c.A[rx], size)
			dst = c.readMem(c.A[ry], size)
		}

		x := uint32(0)
		if c.flagX() {
			x = 1
		}

		var result uint32
		if isSub {
			result = maskSize(dst-src-x, size)
			c.flagsSubX(dst, src, result, size, false)
		} else {
			result = maskSize(dst+src+x, size)
			c.flagsAddX(dst, src, result, size, false)
		}

		if !memForm {
			c.D[ry] = mergeSize(c.D[ry], result, size)
		} else {
			c.writeMem(c.A[ry], size, result)
		}
	}
}

// classifyLineB covers CMP/CMPA/CMPM/EOR.
func classifyLineB(opcode uint16) decodeEntry {
	if opcode&0xF1F8 == 0xB108 { // CMPM
		return decodeEntry{exec: execCmpm, cycles: 12}
	}
	if opcode&0xF138 == 0xB100 { // EOR
		return decodeEntry{exec: eorHandler(), cycles: 4}
	}

	opmode := (opcode >> 6) & 7
	if opmode == 3 || opmode == 7 { // CMPA
		return decodeEntry{exec: execCmpa, cycles: 6}
	}
	return decodeEntry{exec: execCmp, cycles: 4}
}

func execCmp(c *CPUState, opcode uint16) {
	reg := (opcode >> 9) & 7
	opmode := (opcode >> 6) & 7
	mode := uint8((opcode >> 3) & 7)
	xreg := uint8(opcode & 7)
	size := Size(1 << (opmode & 3))

	src := c.ReadOperand(mode, xreg, size)
	dst := c.D[reg]
	result := maskSize(dst-src, size)
	c.flagsCmp(dst, src, result, size)
}

func execCmpa(c *CPUState, opcode uint16) {
	reg := (opcode >> 9) & 7
	opmode := (opcode >> 6) & 7
	mode := uint8((opcode >> 3) & 7)
	xreg := uint8(opcode & 7)

	size := SizeWord
	if opmode == 7 {
		size = SizeLong
	}
	src := uint32(signExtend(c.ReadOperand(mode, xreg, size), size))
	dst := c.A[reg]
	result := dst - src
	c.flagsCmp(dst, src, result, SizeLong)
}

func execCmpm(c *CPUState, opcode uint16) {
	rx := opcode & 7
	ry := (opcode >> 9) & 7
	size := sizeField0006(opcode)

	src := c.readMem(c.A[rx], size)
	dst := c.readMem(c.A[ry], size)

	step := uint32(size)
	if size == SizeByte && (rx == 7 || ry == 7) {
		step = 2
	}
	c.A[rx] += step
	c.A[ry] += step

	result := maskSize(dst-src, size)
	c.flagsCmp(dst, src, result, size)
}

func eorHandler() opHandler {
	return func(c *CPUState, opcode uint16) {
		reg := (opcode >> 9) & 7
		mode := uint8((opcode >> 3) & 7)
		xreg := uint8(opcode & 7)
		// CMPA.L (opmode 7) and CMPM (mode 1) share EOR's table slots.
		if (opcode>>6)&7 == 7 {
			execCmpa(c, opcode)
			return
		}
		if mode == ModeAddrDirect {
			execCmpm(c, opcode)
			return
		}
		size := sizeField0006(opcode)

		dst := c.ReadOperand(mode, xreg, size)
		result := maskSize(dst^c.D[reg], size)
		c.WriteOperand(mode, xreg, size, result)
		c.flagsNZ(result, size)
	}
}
