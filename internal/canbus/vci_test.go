package canbus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/openbms/OpenBatteryCore/internal/types"
)

func TestDefaultVCIInitConfig(t *testing.T) {
	cfg := defaultVCIInitConfig()

	if cfg.AccCode != 0x00000000 {
		t.Errorf("AccCode = 0x%08X, want 0", cfg.AccCode)
	}
	if cfg.AccMask != 0xFFFFFFFF {
		t.Errorf("AccMask = 0x%08X, want 0xFFFFFFFF", cfg.AccMask)
	}
	if cfg.Filter != 1 {
		t.Errorf("Filter = %d, want 1", cfg.Filter)
	}
	if cfg.Timing0 != 0x03 || cfg.Timing1 != 0x1C {
		t.Errorf("timing = 0x%02X/0x%02X, want 0x03/0x1C", cfg.Timing0, cfg.Timing1)
	}
	if cfg.Mode != 0 {
		t.Errorf("Mode = %d, want 0", cfg.Mode)
	}
}

func TestVCILibraryCandidates(t *testing.T) {
	candidates := vciLibraryCandidates()

	for _, name := range []string{"ControlCAN.dll", "ECanVci64.dll", "ECANVCI.dll", "USBCAN.dll"} {
		found := false
		for _, c := range candidates {
			if strings.HasSuffix(c, name) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("candidates missing %s: %v", name, candidates)
		}
	}

	// Der gebündelte Pfad kommt vor dem blanken Namen
	last := candidates[len(candidates)-4:]
	want := []string{"ControlCAN.dll", "ECanVci64.dll", "ECANVCI.dll", "USBCAN.dll"}
	for i, name := range want {
		if last[i] != name {
			t.Errorf("candidate tail[%d] = %s, want %s", i, last[i], name)
		}
	}
}

func TestVCIObjFromFrame(t *testing.T) {
	frame := types.CanFrame{ID: 0x10080800, Data: []byte{0x01, 0x02, 0x03}}

	obj := vciObjFromFrame(frame)
	if obj.ID != frame.ID {
		t.Errorf("ID = 0x%X, want 0x%X", obj.ID, frame.ID)
	}
	if obj.ExternFlag != 1 {
		t.Errorf("ExternFlag = %d, want 1", obj.ExternFlag)
	}
	if obj.RemoteFlag != 0 || obj.SendType != 0 {
		t.Errorf("RemoteFlag/SendType = %d/%d, want 0/0", obj.RemoteFlag, obj.SendType)
	}
	if obj.DataLen != 3 {
		t.Errorf("DataLen = %d, want 3", obj.DataLen)
	}
	if !bytes.Equal(obj.Data[:3], frame.Data) {
		t.Errorf("Data = % X, want % X", obj.Data[:3], frame.Data)
	}
}

func TestFrameFromVCIObj(t *testing.T) {
	obj := vciCanObj{
		ID:         0x18080010,
		ExternFlag: 1,
		DataLen:    4,
		Data:       [8]uint8{0xB9, 0x1F, 0x38, 0x00, 0xEE, 0xEE, 0xEE, 0xEE},
	}

	frame := frameFromVCIObj(obj)
	if frame.ID != obj.ID {
		t.Errorf("ID = 0x%X, want 0x%X", frame.ID, obj.ID)
	}
	if !bytes.Equal(frame.Data, []byte{0xB9, 0x1F, 0x38, 0x00}) {
		t.Errorf("Data = % X, want B9 1F 38 00", frame.Data)
	}
	if frame.Timestamp == 0 {
		t.Error("Timestamp not set")
	}
}

func TestFrameFromVCIObjClampsLength(t *testing.T) {
	obj := vciCanObj{ID: 0x18080010, DataLen: 15}

	frame := frameFromVCIObj(obj)
	if len(frame.Data) != 8 {
		t.Errorf("len(Data) = %d, want 8", len(frame.Data))
	}
}

func TestCString(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte{'U', 'S', 'B', 'C', 'A', 'N', 0, 0}, "USBCAN"},
		{[]byte{0, 'X', 'Y'}, ""},
		{[]byte{'A', 'B', 'C'}, "ABC"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := cString(tt.in); got != tt.want {
			t.Errorf("cString(% X) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
