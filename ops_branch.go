// ops_branch.go - line 5 (ADDQ/SUBQ/Scc/DBcc) and line 6 (Bcc/BSR/BRA).
//
// Grounded on the teacher's decodeGroup5/decodeGroup6/ExecScc/ExecAddq/
// ExecSubq/ExecBRA in cpu_m68k.go, collapsed to the table-dispatch shape:
// the classifier distinguishes ADDQ/SUBQ from Scc/DBcc using the same
// opcode&0x00C0==0x00C0 test the teacher does, then the handler itself
// reads the size/condition/displacement fields.

package sc68core

func classifyLine5(opcode uint16) decodeEntry {
	if opcode&0x00F8 == 0x00C8 { // DBcc
		return decodeEntry{exec: execDbcc, cycles: 10}
	}
	if opcode&0x00C0 == 0x00C0 { // Scc
		return decodeEntry{exec: execScc, cycles: 4}
	}
	size := sizeField0006(opcode)
	isSub := opcode&0x0100 != 0
	return decodeEntry{exec: quickArithHandler(isSub, size), cycles: 4}
}

// quickArithHandler implements ADDQ/SUBQ: a 3-bit immediate (0 encodes 8)
// added to or subtracted from the destination. An destinations affect the
// full 32-bit register and set no flags (spec.md §4.3 edge case).
func quickArithHandler(isSub bool, size Size) opHandler {
	return func(c *CPUState, opcode uint16) {
		data := uint32((opcode >> 9) & 7)
		if data == 0 {
			data = 8
		}
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)

		if mode == ModeAddrDirect {
			if isSub {
				c.A[reg] -= data
			} else {
				c.A[reg] += data
			}
			return
		}

		dest := c.ReadOperand(mode, reg, size)
		var result uint32
		if isSub {
			result = maskSize(dest-data, size)
			c.flagsSub(dest, data, result, size)
		} else {
			result = maskSize(dest+data, size)
			c.flagsAdd(dest, data, result, size)
		}
		c.WriteOperand(mode, reg, size, result)
	}
}

// execScc sets the destination byte to all-ones if the condition holds,
// all-zeros otherwise.
func execScc(c *CPUState, opcode uint16) {
	cond := uint8((opcode >> 8) & 0xF)
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)
	if mode == ModeAddrDirect { // DBcc (mode 1) shares the Scc table slot
		execDbcc(c, opcode)
		return
	}

	var v uint32
	if c.CheckCondition(cond) {
		v = 0xFF
	}
	c.WriteOperand(mode, reg, SizeByte, v)
}

// execDbcc decrements the low word of Dn and branches back while the
// condition is false and the counter has not wrapped past -1 (spec.md
// §4.3 DBcc edge case: DBF/DBRA never test a condition, only the counter).
func execDbcc(c *CPUState, opcode uint16) {
	reg := opcode & 7
	cond := uint8((opcode >> 8) & 0xF)
	disp := int16(c.fetch16())

	if c.CheckCondition(cond) {
		return
	}

	counter := int16(c.D[reg]&0xFFFF) - 1
	c.D[reg] = mergeSize(c.D[reg], uint32(uint16(counter)), SizeWord)
	if counter != -1 {
		c.PC = c.PC - 2 + uint32(int32(disp))
	}
}

// execBcc implements Bcc/BSR/BRA: the displacement is the opcode's low
// byte unless that byte is 0 (word displacement follows) or 0xFF (the
// 68020 long-displacement form, not part of this 68000 core, treated as
// illegal).
func execBcc(c *CPUState, opcode uint16) {
	cond := uint8((opcode >> 8) & 0xF)
	disp8 := int8(opcode & 0xFF)

	base := c.PC
	var disp int32
	switch disp8 {
	case 0:
		disp = int32(int16(c.fetch16()))
	case -1:
		c.RaiseException(VecIllegal)
		return
	default:
		disp = int32(disp8)
	}

	if cond == 1 { // BSR
		c.Push32(c.PC)
		c.PC = uint32(int32(base) + disp)
		return
	}

	if c.CheckCondition(cond) { // BRA (cond 0 == T) or a true Bcc
		c.PC = uint32(int32(base) + disp)
	}
}
