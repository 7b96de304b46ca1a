package sc68core

import "testing"

func TestConfigSetKnownKeys(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"sampling rate in range", "sampling-rate", "44100", false},
		{"sampling rate too low", "sampling-rate", "100", true},
		{"sampling rate too high", "sampling-rate", "500000", true},
		{"sampling rate not a number", "sampling-rate", "fast", true},
		{"asid off", "asid", "off", false},
		{"asid on", "asid", "on", false},
		{"asid force", "asid", "force", false},
		{"asid invalid", "asid", "maybe", true},
		{"force-track valid", "force-track", "3", false},
		{"force-track negative", "force-track", "-1", true},
		{"force-loop infinite", "force-loop", "-1", false},
		{"force-loop out of range", "force-loop", "101", true},
		{"default-time valid", "default-time", "180", false},
		{"default-time out of range", "default-time", "-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfig()
			err := c.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestConfigUnknownKeyPassthrough(t *testing.T) {
	c := NewConfig()
	if err := c.Set("some-future-flag", "yes"); err != nil {
		t.Fatalf("Set of unknown key returned error: %v", err)
	}
	v, ok := c.Get("some-future-flag")
	if !ok || v != "yes" {
		t.Errorf("Get(some-future-flag) = %q, %v, want \"yes\", true", v, ok)
	}
}

func TestConfigGetRoundTrip(t *testing.T) {
	c := NewConfig()
	c.Set("sampling-rate", "48000")
	c.Set("asid", "force")

	if v, _ := c.Get("sampling-rate"); v != "48000" {
		t.Errorf("Get(sampling-rate) = %q, want 48000", v)
	}
	if v, _ := c.Get("asid"); v != "force" {
		t.Errorf("Get(asid) = %q, want force", v)
	}
}

func TestConfigDurationCycles(t *testing.T) {
	c := NewConfig()
	c.DefaultTime = 10

	got := c.DurationCycles(0, 8000000)
	want := uint64(80000000)
	if got != want {
		t.Errorf("DurationCycles(0, 8MHz) = %d, want %d", got, want)
	}

	got = c.DurationCycles(5, 8000000)
	want = uint64(40000000)
	if got != want {
		t.Errorf("DurationCycles(override 5, 8MHz) = %d, want %d", got, want)
	}

	c.DefaultTime = 0
	if got := c.DurationCycles(0, 8000000); got != 0 {
		t.Errorf("DurationCycles with no duration set = %d, want 0 (never ends)", got)
	}
}
