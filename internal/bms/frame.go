package bms

import (
	"time"

	"github.com/openbms/OpenBatteryCore/internal/types"
)

// 29-bit extended identifier layout:
//
//	Bit 28     - PTP Flag (1 = point-to-point, 0 = broadcast)
//	Bits 27-20 - Command
//	Bits 19-12 - Destination Address
//	Bits 11-4  - Source Address
//	Bit 3      - Continuation Flag (Frame folgt)
//	Bits 2-0   - reserviert, immer 0
type FrameID struct {
	PTP         bool
	Command     uint8
	Destination uint8
	Source      uint8
	Cnt         bool
}

// ParseFrameID zerlegt einen 29-bit Identifier in seine Felder.
// Bits above 28 are ignored.
func ParseFrameID(id uint32) FrameID {
	return FrameID{
		PTP:         (id>>28)&1 == 1,
		Command:     uint8((id >> 20) & 0xFF),
		Destination: uint8((id >> 12) & 0xFF),
		Source:      uint8((id >> 4) & 0xFF),
		Cnt:         (id>>3)&1 == 1,
	}
}

// ID packt die Felder zurück in den 29-bit Identifier.
// The three reserved low bits are always 0.
func (f FrameID) ID() uint32 {
	var id uint32
	if f.PTP {
		id |= 1 << 28
	}
	id |= uint32(f.Command) << 20
	id |= uint32(f.Destination) << 12
	id |= uint32(f.Source) << 4
	if f.Cnt {
		id |= 1 << 3
	}
	return id
}

// BuildQueryFrame builds a point-to-point query for one command.
// Query frames carry 8 zero bytes as payload.
func BuildQueryFrame(cmd Command, source, destination uint8) types.CanFrame {
	frameID := FrameID{
		PTP:         true,
		Command:     uint8(cmd),
		Destination: destination,
		Source:      source,
	}

	return types.CanFrame{
		ID:        frameID.ID(),
		Data:      make([]byte, 8),
		Timestamp: time.Now().UnixMilli(),
	}
}
