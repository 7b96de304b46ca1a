// ops_shift.go - line E: the shift/rotate family (ASx/LSx/ROXx/ROx),
// register form (variable count, Dn or immediate 1..8) and memory form
// (always a single-bit word shift on a memory operand).
//
// Grounded on the teacher's decodeGroupE/ExecShiftRotateMemory/
// GetShiftCount in cpu_m68k.go. 68020 bit-field instructions (BFTST etc,
// which share line E's opcode space) are out of scope for this 68000 core
// and fall through to the illegal-instruction path.

package sc68core

type shiftKind int

const (
	shiftArith shiftKind = iota
	shiftLogical
	shiftRotateX
	shiftRotate
)

func classifyLineE(opcode uint16) decodeEntry {
	if opcode&0xF8C0 == 0xE0C0 { // memory form: single bit, word size
		op := (opcode >> 8) & 7
		kind := shiftKind(op >> 1)
		left := op&1 != 0
		return decodeEntry{exec: memShiftHandler(kind, left), cycles: 8}
	}

	if opcode&0x08C0 == 0x08C0 { // 68020 bit-field instructions, out of scope
		return illegalEntry()
	}
	if opcode&0x00C0 == 0x00C0 {
		return illegalEntry()
	}

	left := opcode&0x0100 != 0
	return decodeEntry{exec: regShiftHandler(left), cycles: 6}
}

// shiftOnce applies a single-bit shift/rotate of the given kind/direction
// to value at the given size, returning the new value, the bit shifted
// out (the new C/X), and whether the sign bit flipped (meaningful only for
// arithmetic left shifts, which is how 68000 ASL detects overflow).
func shiftOnce(kind shiftKind, left bool, value uint32, size Size, x bool) (result uint32, carryOut, signFlip bool) {
	signMask := uint32(1) << (uint(size)*8 - 1)
	full := maskSize(^uint32(0), size)

	if left {
		carryOut = value&signMask != 0
		shifted := (value << 1) & full
		switch kind {
		case shiftRotateX:
			if x {
				shifted |= 1
			}
		case shiftRotate:
			if carryOut {
				shifted |= 1
			}
		}
		oldSign := value&signMask != 0
		newSign := shifted&signMask != 0
		signFlip = kind == shiftArith && oldSign != newSign
		return shifted, carryOut, signFlip
	}

	carryOut = value&1 != 0
	shifted := value >> 1
	switch kind {
	case shiftArith:
		if value&signMask != 0 {
			shifted |= signMask
		}
	case shiftRotateX:
		if x {
			shifted |= signMask
		}
	case shiftRotate:
		if carryOut {
			shifted |= signMask
		}
	}
	return shifted, carryOut, false
}

// shiftCount resolves the count field per spec.md §4.3: an immediate of 0
// encodes 8; a register-specified count is taken modulo 64 then reduced
// per operation (shifts clamp to the operand width, rotates wrap modulo
// the width, ROX modulo width+1 to account for the X bit in the cycle).
func shiftCount(c *CPUState, opcode uint16, useReg bool, kind shiftKind, size Size) uint32 {
	var n uint32
	if useReg {
		reg := (opcode >> 9) & 7
		n = c.D[reg] & 0x3F
	} else {
		n = uint32((opcode >> 9) & 7)
		if n == 0 {
			n = 8
		}
	}

	width := uint32(size) * 8
	switch kind {
	case shiftRotate:
		if width > 0 {
			n %= width
		}
	case shiftRotateX:
		n %= width + 1
	default:
		if n > width {
			n = width
		}
	}
	return n
}

// regShiftHandler reads the operation (bits 4..3) and the count source
// (bit 5) from the full opcode: both lie below the table index.
func regShiftHandler(left bool) opHandler {
	return func(c *CPUState, opcode uint16) {
		kind := shiftKind((opcode >> 3) & 3)
		useReg := opcode&0x0020 != 0
		reg := opcode & 7
		size := sizeField0006(opcode)
		n := shiftCount(c, opcode, useReg, kind, size)

		value := maskSize(c.D[reg], size)
		x := c.flagX()
		carry := x
		overflow := false

		for i := uint32(0); i < n; i++ {
			var flip bool
			value, carry, flip = shiftOnce(kind, left, value, size, x)
			x = carry
			overflow = overflow || flip
		}

		c.D[reg] = mergeSize(c.D[reg], value, size)
		c.flagsShift(value, size, carry, overflow, n != 0, kind != shiftRotate)
	}
}

func memShiftHandler(kind shiftKind, left bool) opHandler {
	return func(c *CPUState, opcode uint16) {
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)

		value := uint32(c.ReadOperand(mode, reg, SizeWord))
		x := c.flagX()
		result, carry, flip := shiftOnce(kind, left, value, SizeWord, x)

		c.WriteOperand(mode, reg, SizeWord, result)
		c.flagsShift(result, SizeWord, carry, flip, true, kind != shiftRotate)
	}
}
