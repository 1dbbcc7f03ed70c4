package canbus

import (
	"os"
	"path/filepath"
	"time"

	"github.com/openbms/OpenBatteryCore/internal/types"
)

// Native USBCAN adapters of the VCI family (iTEKON, ZLG, GCgd). The vendor
// API lives in a DLL; the structs below mirror its C layout byte for byte
// and must not be reordered.

// Device types accepted by VCI_OpenDevice.
const (
	VCIDeviceUsbCan1  uint32 = 3  // USBCAN-I, ein Kanal
	VCIDeviceUsbCan2  uint32 = 4  // USBCAN-II, zwei Kanäle
	VCIDeviceUsbCan2I uint32 = 21 // USBCAN-2I, zwei Kanäle
)

// vciStatusOK is the success return of every VCI call.
const vciStatusOK = 1

// Bit timing for 125 kbit/s at the 8 MHz reference crystal.
const (
	vciTiming0 = 0x03
	vciTiming1 = 0x1C
)

// vciCanObj mirrors VCI_CAN_OBJ.
type vciCanObj struct {
	ID         uint32
	TimeStamp  uint32
	TimeFlag   uint8
	SendType   uint8
	RemoteFlag uint8
	ExternFlag uint8
	DataLen    uint8
	Data       [8]uint8
	Reserved   [3]uint8
}

// vciInitConfig mirrors VCI_INIT_CONFIG.
type vciInitConfig struct {
	AccCode  uint32
	AccMask  uint32
	Reserved uint32
	Filter   uint8
	Timing0  uint8
	Timing1  uint8
	Mode     uint8
}

// vciBoardInfo mirrors VCI_BOARD_INFO.
type vciBoardInfo struct {
	HwVersion uint16
	FwVersion uint16
	DrVersion uint16
	InVersion uint16
	IrqNum    uint16
	CanNum    uint8
	SerialNum [20]byte
	HwType    [40]byte
	Reserved  [4]uint16
}

// defaultVCIInitConfig opens the filter completely and sets the 125 kbit/s
// timing the BMS bus runs at.
func defaultVCIInitConfig() vciInitConfig {
	return vciInitConfig{
		AccCode: 0x00000000,
		AccMask: 0xFFFFFFFF,
		Filter:  1,
		Timing0: vciTiming0,
		Timing1: vciTiming1,
		Mode:    0,
	}
}

// vciLibraryCandidates lists the DLL load order: bundled resources next to
// the executable first, then the working directory, then the system search
// path under the known vendor names.
func vciLibraryCandidates() []string {
	candidates := []string{}

	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "resources", "ControlCAN.dll"),
			filepath.Join(dir, "ControlCAN.dll"),
		)
	}

	return append(candidates,
		filepath.Join("resources", "ControlCAN.dll"),
		"ControlCAN.dll",
		"ECanVci64.dll",
		"ECANVCI.dll",
		"USBCAN.dll",
	)
}

// vciObjFromFrame packt einen Frame in das Transmit Objekt.
func vciObjFromFrame(frame types.CanFrame) vciCanObj {
	obj := vciCanObj{
		ID:         frame.ID,
		ExternFlag: 1, // 29-bit Identifier
		DataLen:    uint8(len(frame.Data)),
	}
	copy(obj.Data[:], frame.Data)
	return obj
}

// frameFromVCIObj converts a received object. DataLen beyond the CAN limit
// is clamped instead of trusted.
func frameFromVCIObj(obj vciCanObj) *types.CanFrame {
	length := int(obj.DataLen)
	if length > len(obj.Data) {
		length = len(obj.Data)
	}

	data := make([]byte, length)
	copy(data, obj.Data[:length])

	return &types.CanFrame{
		ID:        obj.ID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// cString cuts a fixed-size C char buffer at the first NUL.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
