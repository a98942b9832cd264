package collector

import "testing"

func TestFormatCapacity(t *testing.T) {
	cases := []struct {
		bytes uint64
		want  string
	}{
		{512, "512 B"},
		{2 << 30, "2.00 G"},
		{uint64(1.5 * float64(1<<40)), "1.50 T"},
	}
	for _, c := range cases {
		if got := formatCapacity(c.bytes); got != c.want {
			t.Errorf("formatCapacity(%d) = %q, want %q", c.bytes, got, c.want)
		}
	}
}

func TestHasPrimaryPrefix(t *testing.T) {
	for _, name := range []string{"eth0", "wlan0", "enp3s0", "wlp2s0", "en0"} {
		if !hasPrimaryPrefix(name) {
			t.Errorf("%s should be a primary interface", name)
		}
	}
	for _, name := range []string{"lo", "docker0", "veth1a2b", "br-xyz"} {
		if hasPrimaryPrefix(name) {
			t.Errorf("%s should not be a primary interface", name)
		}
	}
}

func TestExplicitMachineIDWins(t *testing.T) {
	c := New("custom-id", testLogger())
	if c.MachineID() != "custom-id" {
		t.Errorf("machine_id = %q", c.MachineID())
	}
}

func TestDerivedMachineIDNotEmpty(t *testing.T) {
	c := New("", testLogger())
	if c.MachineID() == "" {
		t.Error("derived machine id must never be empty")
	}
}
