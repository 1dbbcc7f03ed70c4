package types

import "fmt"

const (
	// MaxFrameID is the largest 29-bit extended CAN identifier.
	MaxFrameID uint32 = 0x1FFFFFFF

	// MaxFrameData is the CAN payload limit in bytes.
	MaxFrameData = 8
)

// CanFrame is one raw frame on the bus, before any protocol decoding.
// Timestamp is Unix milliseconds, set by the adapter that produced the frame.
type CanFrame struct {
	ID        uint32
	Data      []byte
	Timestamp int64
}

// Validate checks the frame against the extended-frame limits.
func (f CanFrame) Validate() error {
	if f.ID > MaxFrameID {
		return fmt.Errorf("frame id 0x%X exceeds 29 bit", f.ID)
	}
	if len(f.Data) > MaxFrameData {
		return fmt.Errorf("frame payload is %d bytes, limit is %d", len(f.Data), MaxFrameData)
	}
	return nil
}
