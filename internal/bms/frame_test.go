package bms

import "testing"

func TestParseFrameID(t *testing.T) {
	parsed := ParseFrameID(0x18080010)

	if !parsed.PTP {
		t.Error("expected PTP flag set")
	}
	if parsed.Command != 0x80 {
		t.Errorf("command = 0x%02X, want 0x80", parsed.Command)
	}
	if parsed.Destination != 0x80 {
		t.Errorf("destination = 0x%02X, want 0x80", parsed.Destination)
	}
	if parsed.Source != 0x01 {
		t.Errorf("source = 0x%02X, want 0x01", parsed.Source)
	}
	if parsed.Cnt {
		t.Error("expected continuation flag clear")
	}
}

func TestFrameIDRoundTrip(t *testing.T) {
	tests := []FrameID{
		{PTP: true, Command: 0x80, Destination: 0x80, Source: 0x01},
		{PTP: false, Command: 0xC0, Destination: 0x01, Source: 0x80, Cnt: true},
		{PTP: true, Command: 0xFF, Destination: 0xFF, Source: 0xFF, Cnt: true},
		{},
		{PTP: true, Command: 0x8F, Destination: 0x12, Source: 0x34},
	}

	for _, want := range tests {
		id := want.ID()
		if id > 0x1FFFFFFF {
			t.Errorf("ID() = 0x%X exceeds 29 bit", id)
		}
		if id&0x7 != 0 {
			t.Errorf("ID() = 0x%X has reserved bits set", id)
		}

		got := ParseFrameID(id)
		if got != want {
			t.Errorf("round trip of %+v gave %+v", want, got)
		}
	}
}

func TestParseFrameIDIgnoresHighBits(t *testing.T) {
	base := uint32(0x18080010)
	want := ParseFrameID(base)

	got := ParseFrameID(base | 0xE0000000)
	if got != want {
		t.Errorf("high bits changed the result: %+v vs %+v", got, want)
	}
}

func TestBuildQueryFrame(t *testing.T) {
	frame := BuildQueryFrame(CmdSocSoh, 0x80, 0x01)

	parsed := ParseFrameID(frame.ID)
	if !parsed.PTP {
		t.Error("query must be point-to-point")
	}
	if parsed.Command != uint8(CmdSocSoh) {
		t.Errorf("command = 0x%02X, want 0x%02X", parsed.Command, uint8(CmdSocSoh))
	}
	if parsed.Source != 0x80 || parsed.Destination != 0x01 {
		t.Errorf("addressing = src 0x%02X dst 0x%02X, want src 0x80 dst 0x01",
			parsed.Source, parsed.Destination)
	}
	if parsed.Cnt {
		t.Error("query must not set the continuation flag")
	}

	if len(frame.Data) != 8 {
		t.Fatalf("payload length = %d, want 8", len(frame.Data))
	}
	for i, b := range frame.Data {
		if b != 0 {
			t.Errorf("payload byte %d = 0x%02X, want 0x00", i, b)
		}
	}
	if frame.Timestamp == 0 {
		t.Error("timestamp not set")
	}
}

func TestCommandFromByte(t *testing.T) {
	for _, cmd := range QueryCommands {
		got, ok := CommandFromByte(uint8(cmd))
		if !ok || got != cmd {
			t.Errorf("CommandFromByte(0x%02X) = (0x%02X, %v)", uint8(cmd), uint8(got), ok)
		}
	}

	for _, reserved := range []byte{0x00, 0x10, 0x11, 0xD0} {
		if _, ok := CommandFromByte(reserved); !ok {
			t.Errorf("CommandFromByte(0x%02X) rejected a reserved command", reserved)
		}
	}

	for _, unknown := range []byte{0x01, 0x79, 0x88, 0x99, 0xFF} {
		if _, ok := CommandFromByte(unknown); ok {
			t.Errorf("CommandFromByte(0x%02X) accepted an unknown command", unknown)
		}
	}
}
