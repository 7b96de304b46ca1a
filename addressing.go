// addressing.go - the AddressingUnit: effective-address computation and
// operand read/write for the eight 68000 addressing modes (spec.md §4.2).
//
// Grounded on the teacher's GetEffectiveAddress/GetIndexWithExtWords in
// cpu_m68k.go, simplified to the 68000 addressing modes spec.md names
// (Dn, An, (An), (An)+, -(An), d(An), d(An,Xi), absolute/PC-relative/
// immediate under mode 7) and stripped of the 68020 memory-indirect/
// scaled-index extensions the teacher supports but spec.md does not ask
// for.

package sc68core

// Size is the operand width for an addressing-mode access.
type Size uint8

const (
	SizeByte Size = 1
	SizeWord Size = 2
	SizeLong Size = 4
)

// Standard 68000 mode field values.
const (
	ModeDataDirect = iota
	ModeAddrDirect
	ModeAddrIndirect
	ModeAddrPostInc
	ModeAddrPreDec
	ModeAddrDisp
	ModeAddrIndex
	ModeOther // mode 7: sub-forms selected by reg
)

// mode-7 sub-forms (the "reg" field when mode == ModeOther).
const (
	Mode7AbsShort = iota
	Mode7AbsLong
	Mode7PCDisp
	Mode7PCIndex
	Mode7Immediate
)

// stepSize returns the addressing increment/decrement for post-inc/pre-dec
// on register `reg`: byte accesses to A7 step by 2 to preserve stack word
// alignment (spec.md §4.2 edge case).
func stepSize(reg uint8, size Size) uint32 {
	if size == SizeByte && reg == 7 {
		return 2
	}
	return uint32(size)
}

// EffectiveAddress computes the memory address for a memory-form operand.
// It must not be called for ModeDataDirect/ModeAddrDirect, which have no
// address (callers use ReadOperand/WriteOperand for those).
func (c *CPUState) EffectiveAddress(mode, reg uint8, size Size) uint32 {
	switch mode {
	case ModeAddrIndirect:
		return c.A[reg]
	case ModeAddrPostInc:
		addr := c.A[reg]
		c.A[reg] += stepSize(reg, size)
		return addr
	case ModeAddrPreDec:
		c.A[reg] -= stepSize(reg, size)
		return c.A[reg]
	case ModeAddrDisp:
		disp := int16(c.fetch16())
		return c.A[reg] + uint32(int32(disp))
	case ModeAddrIndex:
		base := c.A[reg]
		return c.indexedAddress(base)
	case ModeOther:
		switch reg {
		case Mode7AbsShort:
			return uint32(int32(int16(c.fetch16())))
		case Mode7AbsLong:
			return c.fetch32()
		case Mode7PCDisp:
			pc := c.PC
			disp := int16(c.fetch16())
			return pc + uint32(int32(disp))
		case Mode7PCIndex:
			pc := c.PC
			return c.indexedAddress(pc)
		}
	}
	panic("sc68core: EffectiveAddress called on a register-direct mode")
}

// indexedAddress reads the brief extension word for d8(An,Xi) / d8(PC,Xi)
// and returns base + index + 8-bit signed displacement (spec.md §4.2:
// "a second extension word whose bits select index register, size, and
// displacement").
func (c *CPUState) indexedAddress(base uint32) uint32 {
	ext := c.fetch16()
	xreg := uint8((ext >> 12) & 7)
	isAddr := ext&0x8000 != 0
	isLong := ext&0x0800 != 0
	disp := int8(ext & 0xFF)

	var xval uint32
	if isAddr {
		xval = c.A[xreg]
	} else {
		xval = c.D[xreg]
	}
	if !isLong {
		xval = uint32(int32(int16(xval)))
	}
	return base + xval + uint32(int32(disp))
}

// ReadOperand fetches the value of the operand named by (mode, reg) at the
// given size, including immediates and data/address register direct forms.
// PC-relative forms are computed against the PC at the start of the
// operand fetch (i.e. after the opcode word), per spec.md §4.2.
func (c *CPUState) ReadOperand(mode, reg uint8, size Size) uint32 {
	switch mode {
	case ModeDataDirect:
		return maskSize(c.D[reg], size)
	case ModeAddrDirect:
		if size == SizeWord {
			return uint32(int32(int16(c.A[reg])))
		}
		return c.A[reg]
	case ModeOther:
		if reg == Mode7Immediate {
			switch size {
			case SizeByte:
				return uint32(uint8(c.fetch16()))
			case SizeWord:
				return uint32(c.fetch16())
			default:
				return c.fetch32()
			}
		}
	}
	addr := c.EffectiveAddress(mode, reg, size)
	return c.readMem(addr, size)
}

// WriteOperand stores value into the operand named by (mode, reg). Writing
// to An stores value as given, with no sign extension (68000 MOVEA
// semantics are handled by the instruction handler, not here; this is the
// raw store).
func (c *CPUState) WriteOperand(mode, reg uint8, size Size, value uint32) {
	switch mode {
	case ModeDataDirect:
		c.D[reg] = mergeSize(c.D[reg], value, size)
		return
	case ModeAddrDirect:
		c.A[reg] = value
		return
	}
	addr := c.EffectiveAddress(mode, reg, size)
	c.writeMem(addr, size, value)
}

func (c *CPUState) readMem(addr uint32, size Size) uint32 {
	switch size {
	case SizeByte:
		return uint32(c.bus.ReadB(addr))
	case SizeWord:
		return uint32(c.bus.ReadW(addr))
	default:
		return c.bus.ReadL(addr)
	}
}

func (c *CPUState) writeMem(addr uint32, size Size, value uint32) {
	switch size {
	case SizeByte:
		c.bus.WriteB(addr, uint8(value))
	case SizeWord:
		c.bus.WriteW(addr, uint16(value))
	default:
		c.bus.WriteL(addr, value)
	}
}

func maskSize(v uint32, size Size) uint32 {
	switch size {
	case SizeByte:
		return v & 0xFF
	case SizeWord:
		return v & 0xFFFF
	default:
		return v
	}
}

// mergeSize writes `value` into the low `size` bytes of dest, leaving the
// upper bytes untouched (a byte/word write to a data register only
// changes that sub-field).
func mergeSize(dest, value uint32, size Size) uint32 {
	switch size {
	case SizeByte:
		return (dest &^ 0xFF) | (value & 0xFF)
	case SizeWord:
		return (dest &^ 0xFFFF) | (value & 0xFFFF)
	default:
		return value
	}
}

// signExtend sign-extends a size-wide value to 32 bits.
func signExtend(v uint32, size Size) int32 {
	switch size {
	case SizeByte:
		return int32(int8(v))
	case SizeWord:
		return int32(int16(v))
	default:
		return int32(v)
	}
}

// fetch16/fetch32 read the next instruction-stream word(s) at PC and
// advance PC. Used for extension words, displacements, and immediates.
func (c *CPUState) fetch16() uint16 {
	v := c.bus.ReadW(c.PC)
	c.bus.MarkExecuted(c.PC)
	c.PC += 2
	return v
}

func (c *CPUState) fetch32() uint32 {
	hi := c.fetch16()
	lo := c.fetch16()
	return uint32(hi)<<16 | uint32(lo)
}
