package canbus

import (
	"bytes"
	"testing"

	"github.com/openbms/OpenBatteryCore/internal/types"
)

func TestIPlusEncodeLayout(t *testing.T) {
	frame := types.CanFrame{ID: 0x18080010, Data: []byte{0x11, 0x22}}

	got := encodeIPlus(frame)
	want := []byte{0xAA, 0x01, 0x10, 0x00, 0x08, 0x18, 0x02, 0x11, 0x22, 0x10}

	if !bytes.Equal(got, want) {
		t.Errorf("encoded = % X, want % X", got, want)
	}
}

func TestIPlusRoundTrip(t *testing.T) {
	payload := []byte{0x90, 0x21, 0xE8, 0x03, 0x40, 0x1A, 0xE8, 0x03}

	for length := 0; length <= 8; length++ {
		frame := types.CanFrame{ID: 0x18080010 + uint32(length), Data: payload[:length]}

		decoded := decodeIPlus(encodeIPlus(frame))
		if decoded == nil {
			t.Fatalf("length %d: decode returned nil", length)
		}
		if decoded.ID != frame.ID {
			t.Errorf("length %d: id = 0x%X, want 0x%X", length, decoded.ID, frame.ID)
		}
		if !bytes.Equal(decoded.Data, frame.Data) {
			t.Errorf("length %d: data = % X, want % X", length, decoded.Data, frame.Data)
		}
		if decoded.Timestamp == 0 {
			t.Errorf("length %d: timestamp not set", length)
		}
	}
}

func TestIPlusDecodeRejectsCorruption(t *testing.T) {
	frame := types.CanFrame{ID: 0x18081010, Data: []byte{0x22, 0x00, 0x64, 0x00, 0x1E, 0x00, 0x00, 0x00}}
	encoded := encodeIPlus(frame)

	for i := range encoded {
		corrupted := make([]byte, len(encoded))
		copy(corrupted, encoded)
		corrupted[i] ^= 0xFF

		if decodeIPlus(corrupted) != nil {
			t.Errorf("flipped byte %d still decoded", i)
		}
	}
}

func TestIPlusDecodeRejectsShortInput(t *testing.T) {
	frame := types.CanFrame{ID: 0x18081010, Data: []byte{0x01, 0x02, 0x03}}
	encoded := encodeIPlus(frame)

	for cut := 1; cut < len(encoded); cut++ {
		if decodeIPlus(encoded[:cut]) != nil {
			t.Errorf("truncated buffer of %d bytes still decoded", cut)
		}
	}

	if decodeIPlus(nil) != nil {
		t.Error("nil buffer decoded")
	}
}

func TestIPlusDecodeMinimalFrame(t *testing.T) {
	// Ein Frame ohne Payload ist genau 8 Bytes lang
	frame := types.CanFrame{ID: 0x00000010}
	encoded := encodeIPlus(frame)

	if len(encoded) != 8 {
		t.Fatalf("empty frame encodes to %d bytes, want 8", len(encoded))
	}

	decoded := decodeIPlus(encoded)
	if decoded == nil {
		t.Fatal("decode returned nil")
	}
	if len(decoded.Data) != 0 {
		t.Errorf("data = % X, want empty", decoded.Data)
	}
}
