package sc68core

import "testing"

func TestYMAddressLatchRegisterReadWrite(t *testing.T) {
	ym := NewYMChip(44100, 0)

	ym.WriteB(0, 8) // latch register 8 (channel A volume)
	ym.WriteB(1, 0x0F)

	if got := ym.ReadB(0); got != 0x0F {
		t.Errorf("ReadB via address port = %#x, want 0x0F", got)
	}
	if got := ym.state.regs[8]; got != 0x0F {
		t.Errorf("register 8 = %#x, want 0x0F", got)
	}
}

func TestYMAddressLatchMasksToFourBits(t *testing.T) {
	ym := NewYMChip(44100, 0)
	ym.WriteB(0, 0x19) // 0x19 & 0x0F = register 9
	ym.WriteB(1, 0x55)
	if got := ym.state.regs[9]; got != 0x55 {
		t.Errorf("register 9 = %#x, want 0x55", got)
	}
}

func TestYMWriteRegisterIgnoresOutOfRangeLatch(t *testing.T) {
	ym := NewYMChip(44100, 0)
	before := ym.state.regs
	ym.writeRegister(ymRegCount, 0x55) // one past the last valid register
	if ym.state.regs != before {
		t.Errorf("writeRegister past ymRegCount mutated state, want no-op")
	}
}

func TestYMResetEnvelopeClearsOnRegister13Write(t *testing.T) {
	ym := NewYMChip(44100, 0)

	// Attack bit (0x04) set: envelope starts at level 0 counting up.
	ym.WriteB(0, 13)
	ym.WriteB(1, 0x04)
	if ym.state.envLevel != 0 || ym.state.envStep != 1 {
		t.Errorf("attack shape: envLevel=%d envStep=%d, want 0/1", ym.state.envLevel, ym.state.envStep)
	}

	// Attack bit clear: envelope starts at level 31 counting down.
	ym.WriteB(0, 13)
	ym.WriteB(1, 0x00)
	if ym.state.envLevel != 31 || ym.state.envStep != -1 {
		t.Errorf("decay shape: envLevel=%d envStep=%d, want 31/-1", ym.state.envLevel, ym.state.envStep)
	}
}

func TestYMMixerMuteSilencesVoice(t *testing.T) {
	ym := NewYMChip(44100, 0)
	// Channel A tone period, mixer with only channel A tone enabled, max fixed volume.
	ym.writeRegister(0, 0x10)
	ym.writeRegister(1, 0x00)
	ym.writeRegister(7, 0x3E) // bit0 (tone A) clear=enabled, all else disabled
	ym.writeRegister(8, 0x0F)

	out := make([]float32, 256)
	ym.Render(100000, out)

	silent := true
	for _, v := range out {
		if v != 0 {
			silent = false
			break
		}
	}
	if silent {
		t.Fatalf("channel A enabled at full volume produced all-zero output")
	}

	// Now mute every voice via the mixer (all tone/noise bits set = disabled).
	ym2 := NewYMChip(44100, 0)
	ym2.writeRegister(0, 0x10)
	ym2.writeRegister(1, 0x00)
	ym2.writeRegister(7, 0x3F)
	ym2.writeRegister(8, 0x0F)

	out2 := make([]float32, 256)
	ym2.Render(100000, out2)
	for i, v := range out2 {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0 (mixer disables every voice)", i, v)
		}
	}
}

func TestYMRenderStaysWithinUnitRange(t *testing.T) {
	ym := NewYMChip(44100, 0)
	ym.writeRegister(0, 0x01)
	ym.writeRegister(1, 0x00)
	ym.writeRegister(2, 0x03)
	ym.writeRegister(3, 0x00)
	ym.writeRegister(6, 0x05) // noise period
	ym.writeRegister(7, 0x00) // everything enabled
	ym.writeRegister(8, 0x0F)
	ym.writeRegister(9, 0x0F)
	ym.writeRegister(10, 0x0F)

	out := make([]float32, 512)
	ym.Render(200000, out)
	for i, v := range out {
		if v < -1 || v > 1 {
			t.Fatalf("sample %d = %v, out of [-1,1]", i, v)
		}
	}
}
