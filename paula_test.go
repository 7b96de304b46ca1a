package sc68core

import "testing"

func TestClearSetBit15Convention(t *testing.T) {
	if got := clearset(0x00FF, 0x800F); got != 0x00FF {
		t.Errorf("clearset(0x00FF, set 0x000F) = %#x, want 0x00FF (already set)", got)
	}
	if got := clearset(0x000F, 0x8100); got != 0x010F {
		t.Errorf("clearset(0x000F, set 0x0100) = %#x, want 0x010F", got)
	}
	if got := clearset(0x00FF, 0x000F); got != 0x00F0 {
		t.Errorf("clearset(0x00FF, clear 0x000F) = %#x, want 0x00F0", got)
	}
}

func TestDmaEnabledGatedByMasterBit(t *testing.T) {
	if got := dmaEnabled(0x000F); got != 0 {
		t.Errorf("dmaEnabled without master bit 9 = %#x, want 0", got)
	}
	if got := dmaEnabled(0x020F); got != 0x0F {
		t.Errorf("dmaEnabled with master bit 9 = %#x, want 0x0F", got)
	}
}

func TestIntenaEnabledGatedByMasterBit(t *testing.T) {
	if got := intenaEnabled(0x0780); got != 0 {
		t.Errorf("intenaEnabled without master bit 14 = %#x, want 0", got)
	}
	if got := intenaEnabled(0x4780); got != 0x0780 {
		t.Errorf("intenaEnabled with master bit 14 = %#x, want 0x0780", got)
	}
}

// writeVoiceRegisters programs voice v's 16-byte register block directly,
// following syncVoiceRegisters' byte layout.
func writeVoiceRegisters(c *PaulaChip, v int, location uint32, length, period uint16, volume uint8) {
	base := c.voiceBase(v)
	c.WriteB(base+1, uint8(location>>16))
	c.WriteB(base+2, uint8(location>>8))
	c.WriteB(base+3, uint8(location))
	c.WriteB(base+4, uint8(length>>8))
	c.WriteB(base+5, uint8(length))
	c.WriteB(base+6, uint8(period>>8))
	c.WriteB(base+7, uint8(period))
	c.WriteB(base+9, volume&0x7F)
}

func TestDMACONEnableTransitionReloadsVoice(t *testing.T) {
	bus, err := NewMemoryBus(128 * 1024)
	if err != nil {
		t.Fatalf("NewMemoryBus: %v", err)
	}
	paula := NewPaulaChip(bus, 44100, 0)
	writeVoiceRegisters(paula, 0, 0x001000, 1, 1, 0x40)

	paula.WriteW(paulaDMACON, 0x8000|1<<9|0x1) // set master enable + voice 0
	voice := paula.state.voices[0]
	if voice.addr != 0x001000 {
		t.Errorf("voice.addr = %#x, want 0x001000 (reload on enable transition)", voice.addr)
	}
	if voice.end != 0x001002 {
		t.Errorf("voice.end = %#x, want 0x001002 (length 1 word = 2 bytes)", voice.end)
	}
}

func TestDMACONWithoutEnableTransitionDoesNotReload(t *testing.T) {
	bus, err := NewMemoryBus(128 * 1024)
	if err != nil {
		t.Fatalf("NewMemoryBus: %v", err)
	}
	paula := NewPaulaChip(bus, 44100, 0)
	writeVoiceRegisters(paula, 0, 0x001000, 1, 1, 0x40)

	// Enable voice 0, then manually move its cursor, then write DMACON
	// again with the same bits already set: no 0->1 transition, no reload.
	paula.WriteW(paulaDMACON, 0x8000|1<<9|0x1)
	paula.state.voices[0].addr = 0x001FFF
	paula.WriteW(paulaDMACON, 0x8000|1<<9|0x1)

	if got := paula.state.voices[0].addr; got != 0x001FFF {
		t.Errorf("voice.addr = %#x, want 0x001FFF (no reload without an enable transition)", got)
	}
}

func TestRenderLoopsVoiceAndRaisesInterrupt(t *testing.T) {
	bus, err := NewMemoryBus(128 * 1024)
	if err != nil {
		t.Fatalf("NewMemoryBus: %v", err)
	}
	bus.WriteB(0x1000, 40)
	bus.WriteB(0x1001, 80)

	paula := NewPaulaChip(bus, 1, 1000) // cyclesPerSample = 1000
	writeVoiceRegisters(paula, 0, 0x001000, 1, 1, 0x40)
	paula.WriteW(paulaDMACON, 0x8000|1<<9|0x1)

	out := make([]float32, 1)
	paula.Render(2000, out) // exactly 2 period-1 steps: fetches both bytes, hits end

	if paula.state.intreq&(1<<7) == 0 {
		t.Fatalf("INTREQ bit 7 (voice 0) not set after the voice looped")
	}
	if paula.state.voices[0].addr != 0x001000 {
		t.Errorf("voice.addr after loop = %#x, want reloaded to 0x001000", paula.state.voices[0].addr)
	}
	if out[0] == 0 {
		t.Errorf("mixed output = 0, want a nonzero sample from the fetched bytes")
	}
}

func TestInterruptReportsIPL4WhenPendingAndEnabled(t *testing.T) {
	bus, err := NewMemoryBus(128 * 1024)
	if err != nil {
		t.Fatalf("NewMemoryBus: %v", err)
	}
	paula := NewPaulaChip(bus, 44100, 0)

	if got := paula.Interrupt(); got != 0 {
		t.Fatalf("Interrupt() = %d before any request/enable, want 0", got)
	}

	paula.WriteW(paulaINTENA, 0x8000|1<<14|1<<7) // master enable + voice 0
	paula.WriteW(paulaINTREQ, 0x8000|1<<7)

	if got := paula.Interrupt(); got != 4 {
		t.Errorf("Interrupt() = %d, want 4 (Amiga audio IRQ level)", got)
	}
}
