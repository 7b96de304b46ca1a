package sc68core

import (
	"bytes"
	"testing"
)

// fakeRW is an in-memory io.ReadWriter: Read drains a preloaded buffer,
// Write appends to a separate buffer for inspection.
type fakeRW struct {
	toRead  *bytes.Buffer
	written bytes.Buffer
}

func (f *fakeRW) Read(p []byte) (int, error)  { return f.toRead.Read(p) }
func (f *fakeRW) Write(p []byte) (int, error) { return f.written.Write(p) }

func TestComputeSignal(t *testing.T) {
	tests := []struct {
		name    string
		vector  int
		want    int
	}{
		{"bus error", int(VecBusError), 10},
		{"illegal instruction", int(VecIllegal), 4},
		{"zero divide", int(VecZeroDivide), 8},
		{"privilege violation", int(VecPrivilege), 11},
		{"trace trap", int(VecTrace), 5},
		{"trap vector", int(VecTrapBase) + 3, 7},
		{"negative vector", -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeSignal(tt.vector); got != tt.want {
				t.Errorf("computeSignal(%d) = %d, want %d", tt.vector, got, tt.want)
			}
		})
	}
}

func TestMem2HexHex2MemRoundTrip(t *testing.T) {
	mem := []byte{0x00, 0xAB, 0xFF, 0x10}
	hexStr := mem2hex(mem)
	if hexStr != "00abff10" {
		t.Fatalf("mem2hex = %q, want 00abff10", hexStr)
	}
	back := hex2mem(hexStr)
	if !bytes.Equal(back, mem) {
		t.Fatalf("hex2mem(mem2hex(x)) = %v, want %v", back, mem)
	}
}

func TestHex2Val(t *testing.T) {
	tests := []struct {
		in        string
		wantVal   uint32
		wantChars int
	}{
		{"1000,20", 0x1000, 4},
		{"ff", 0xff, 2},
		{",rest", 0, 0},
	}
	for _, tt := range tests {
		v, n := hex2val(tt.in)
		if v != tt.wantVal || n != tt.wantChars {
			t.Errorf("hex2val(%q) = (%#x, %d), want (%#x, %d)", tt.in, v, n, tt.wantVal, tt.wantChars)
		}
	}
}

func newStub(t *testing.T) (*DebugStub, *fakeRW) {
	t.Helper()
	cpu := newTestCPU(t)
	rw := &fakeRW{toRead: &bytes.Buffer{}}
	return NewDebugStub(cpu, cpu.Bus(), rw), rw
}

func TestDebugStubRegisterRoundTrip(t *testing.T) {
	d, _ := newStub(t)
	for i := range d.cpu.D {
		d.cpu.D[i] = uint32(i) * 0x11111111
	}
	d.cpu.A[7] = 0x00FF0000
	d.cpu.PC = 0x00400000
	d.cpu.SR = 0x2700

	hexStr := d.readRegisters()
	if len(hexStr) != (8+8+1+1)*4*2 {
		t.Fatalf("readRegisters length = %d, want %d", len(hexStr), (8+8+1+1)*4*2)
	}

	// Zero the CPU, then reconstruct it from the 'g' reply via 'G'.
	d.cpu.D = [8]uint32{}
	d.cpu.A = [8]uint32{}
	d.cpu.PC = 0
	d.cpu.SR = 0
	d.writeRegisters(hexStr)

	if d.cpu.D[3] != 3*0x11111111 {
		t.Errorf("D3 = %#x after round trip, want %#x", d.cpu.D[3], 3*0x11111111)
	}
	if d.cpu.A[7] != 0x00FF0000 {
		t.Errorf("A7 = %#x after round trip, want 0xFF0000", d.cpu.A[7])
	}
	if d.cpu.PC != 0x00400000 {
		t.Errorf("PC = %#x after round trip, want 0x400000", d.cpu.PC)
	}
}

func TestDebugStubMemoryReadWrite(t *testing.T) {
	d, _ := newStub(t)

	reply := d.writeMemory("1000,4:deadbeef")
	if reply != "OK" {
		t.Fatalf("writeMemory reply = %q, want OK", reply)
	}

	reply = d.readMemory("1000,4")
	if reply != "deadbeef" {
		t.Fatalf("readMemory reply = %q, want deadbeef", reply)
	}
}

func TestDebugStubMemoryBadRequest(t *testing.T) {
	d, _ := newStub(t)
	if reply := d.readMemory("not-hex"); reply != "E01" {
		t.Errorf("readMemory(bad) = %q, want E01", reply)
	}
}

func TestDebugStubSendPacketChecksum(t *testing.T) {
	d, rw := newStub(t)
	rw.toRead.WriteString("+")

	if err := d.sendPacket("OK"); err != nil {
		t.Fatalf("sendPacket: %v", err)
	}
	if got := rw.written.String(); got != "$OK#9a" {
		t.Fatalf("sendPacket wrote %q, want \"$OK#9a\"", got)
	}
}

func TestDebugStubRecvPacketChecksum(t *testing.T) {
	d, rw := newStub(t)
	rw.toRead.WriteString("$g#67")

	payload, err := d.recvPacket()
	if err != nil {
		t.Fatalf("recvPacket: %v", err)
	}
	if payload != "g" {
		t.Fatalf("recvPacket payload = %q, want \"g\"", payload)
	}
	if got := rw.written.String(); got != "+" {
		t.Fatalf("recvPacket ack = %q, want \"+\"", got)
	}
}

func TestDebugStubDispatchQueryCommands(t *testing.T) {
	d, _ := newStub(t)

	if _, out, resume := d.dispatch('q', "C"); out != "QC1" || resume {
		t.Errorf("dispatch(q, C) = %q, resume=%v, want QC1, false", out, resume)
	}
	if _, out, _ := d.dispatch('q', "Offsets"); out != "Text=0;Data=0" {
		t.Errorf("dispatch(q, Offsets) = %q, want Text=0;Data=0", out)
	}
	if _, out, _ := d.dispatch('q', "Unknown"); out != "E11" {
		t.Errorf("dispatch(q, Unknown) = %q, want E11", out)
	}
}

func TestDebugStubDispatchContinueAndStep(t *testing.T) {
	d, _ := newStub(t)

	status, out, resume := d.dispatch('c', "1000")
	if !resume || out != "" || status != StubContinue {
		t.Errorf("dispatch(c, 1000) = status=%v out=%q resume=%v", status, out, resume)
	}
	if d.cpu.PC != 0x1000 {
		t.Errorf("PC after 'c1000' = %#x, want 0x1000", d.cpu.PC)
	}

	status, _, resume = d.dispatch('s', "")
	if !resume || status != StubStep {
		t.Errorf("dispatch(s, \"\") = status=%v resume=%v, want StubStep, true", status, resume)
	}

	status, _, resume = d.dispatch('k', "")
	if !resume || status != StubKilled {
		t.Errorf("dispatch(k, \"\") = status=%v resume=%v, want StubKilled, true", status, resume)
	}
}
