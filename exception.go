// exception.go - the ExceptionUnit: exception-frame push, vector fetch,
// and the interrupt priority latch (spec.md §3 ExceptionFrame, §4.4).
//
// Grounded on the teacher's pushExceptionFrame/swapStacksForMode/
// ProcessException/ProcessInterrupt in cpu_m68k.go, trimmed to the plain
// 68000 2-word (SR,PC) frame - this core does not emulate the 68010+
// long-format fault frames the teacher's 68020 core builds.

package sc68core

// RaiseException implements the generic exception entry sequence from
// spec.md §4.4: swap to the supervisor stack if not already there, push
// PC then SR, clear the trace bit, and load the new PC from the vector
// table at vector*4.
func (c *CPUState) RaiseException(vector uint8) {
	oldSR := c.SR
	c.LastVector = vector

	if !c.Supervisor() {
		c.SwapStack(true)
		setBit(&c.SR, SRFlagS, true)
	}

	c.Push32(c.PC)
	c.Push16(oldSR)

	setBit(&c.SR, SRFlagT, false)

	c.PC = c.bus.ReadL(uint32(vector) * 4)
	c.Halted = false
}

// RaiseInterrupt delivers a hardware interrupt at the given level: like
// RaiseException but also raises the IPL mask in SR to the level taken
// (spec.md §4.4), and uses the autovector for levels 1..7.
func (c *CPUState) RaiseInterrupt(level uint8) {
	c.RaiseException(uint8(VecAutoLevel1) + (level - 1))
	c.SetIPL(level)
}

// Rte implements RTE: pops SR then PC, restoring the pre-exception state
// exactly (spec.md §8 property 3).
func (c *CPUState) Rte() {
	sr := c.Pop16()
	pc := c.Pop32()

	c.setSR(sr) // swaps USP/SSP before the S bit changes
	c.PC = pc
}

// Push16/Push32/Pop16/Pop32 operate on the currently active stack (A7,
// whichever of USP/SSP it presently aliases).
func (c *CPUState) Push16(v uint16) {
	c.A[7] -= 2
	c.bus.WriteW(c.A[7], v)
}

func (c *CPUState) Push32(v uint32) {
	c.A[7] -= 4
	c.bus.WriteL(c.A[7], v)
}

func (c *CPUState) Pop16() uint16 {
	v := c.bus.ReadW(c.A[7])
	c.A[7] += 2
	return v
}

func (c *CPUState) Pop32() uint32 {
	v := c.bus.ReadL(c.A[7])
	c.A[7] += 4
	return v
}

// PendingInterrupt latches the highest-priority interrupt currently
// requested by any attached chip, resolving ties by registration order
// (spec.md §4.4: "Ties are broken by chip priority in registration
// order").
func (c *CPUState) PendingInterrupt() (level uint8, ok bool) {
	best := uint8(0)
	for _, bind := range c.bus.chips.Bindings() {
		lvl := bind.Chip.Interrupt()
		if lvl > best {
			best = lvl
		}
	}
	if best == 0 {
		return 0, false
	}
	return best, true
}

// CheckAndDeliverInterrupt takes the pending interrupt if its level
// strictly exceeds the current IPL mask, per spec.md §4.4. Returns true if
// an interrupt was delivered.
func (c *CPUState) CheckAndDeliverInterrupt() bool {
	level, ok := c.PendingInterrupt()
	if !ok {
		return false
	}
	if level <= c.IPL() {
		return false
	}
	c.RaiseInterrupt(level)
	return true
}
