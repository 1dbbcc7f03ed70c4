package canbus

import (
	"encoding/binary"
	"time"

	"github.com/openbms/OpenBatteryCore/internal/types"
)

// I+ series bridges wrap every CAN frame in a small serial envelope:
//
//	0xAA + Frame Type (0x01 = extended) + ID (4 Bytes LE) + Len + Data + Checksum
//
// The checksum is the 8-bit wraparound sum over all preceding bytes.

const (
	iplusHeader        = 0xAA
	iplusExtendedFrame = 0x01
)

// encodeIPlus serialisiert einen Frame ins I+ Envelope.
func encodeIPlus(frame types.CanFrame) []byte {
	buf := make([]byte, 7+len(frame.Data)+1)

	buf[0] = iplusHeader
	buf[1] = iplusExtendedFrame
	binary.LittleEndian.PutUint32(buf[2:6], frame.ID)
	buf[6] = byte(len(frame.Data))
	copy(buf[7:], frame.Data)

	var checksum byte
	for _, b := range buf[:len(buf)-1] {
		checksum += b
	}
	buf[len(buf)-1] = checksum

	return buf
}

// decodeIPlus parst einen empfangenen Puffer. Nil heißt: kein gültiger
// Frame. Corrupted or stray input is dropped without an error, the poll
// cycle simply treats it as silence.
func decodeIPlus(buf []byte) *types.CanFrame {
	if len(buf) < 8 {
		return nil
	}
	if buf[0] != iplusHeader || buf[1] != iplusExtendedFrame {
		return nil
	}

	length := int(buf[6])
	if len(buf) < 7+length+1 {
		return nil
	}

	var checksum byte
	for _, b := range buf[:7+length] {
		checksum += b
	}
	if checksum != buf[7+length] {
		return nil
	}

	data := make([]byte, length)
	copy(data, buf[7:7+length])

	return &types.CanFrame{
		ID:        binary.LittleEndian.Uint32(buf[2:6]),
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}
