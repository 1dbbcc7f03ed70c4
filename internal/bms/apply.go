package bms

import (
	"time"

	"github.com/openbms/OpenBatteryCore/internal/types"
)

// ApplyFrame decodes one received frame and merges the result into the
// aggregate state. Frames with a command outside the protocol table are
// ignored completely. Recognized commands refresh timestamp and connected
// flag even when they carry no decodable record, so reserved control
// traffic still counts as liveness.
//
// Returns true when the frame was recognized.
func ApplyFrame(frame types.CanFrame, state *types.DeviceState) bool {
	frameID := ParseFrameID(frame.ID)

	command, ok := CommandFromByte(frameID.Command)
	if !ok {
		return false
	}

	switch command {
	case CmdChargeDischargeLimits:
		if limits := DecodeChargeDischargeLimits(frame.Data); limits != nil {
			state.Limits = limits
		}
	case CmdSocSoh:
		if socSoh := DecodeSocSoh(frame.Data); socSoh != nil {
			state.SocSoh = socSoh
		}
	case CmdVoltageCurrent:
		if vc := DecodeVoltageCurrent(frame.Data); vc != nil {
			state.VoltageCurrent = vc
		}
	case CmdCellVoltage:
		if cv := DecodeCellVoltage(frame.Data); cv != nil {
			state.CellVoltage = cv
		}
	case CmdTemperature:
		if temp := DecodeTemperature(frame.Data); temp != nil {
			state.Temperature = temp
		}
	case CmdOperationStatus:
		if status := DecodeOperationStatus(frame.Data); status != nil {
			state.OperationStatus = status
		}
	case CmdAccumulatedTimes:
		if times := DecodeAccumulatedTimes(frame.Data); times != nil {
			state.AccumulatedTimes = times
		}
	case CmdAccumulatedPower:
		if power := DecodeAccumulatedPower(frame.Data); power != nil {
			state.AccumulatedPower = power
		}
	case CmdSoftwareVersion:
		if version := DecodeSoftwareVersion(frame.Data); version != "" {
			state.SoftwareVersion = version
		}
	case CmdAlarmStatus:
		if alarm := DecodeAlarmStatus(frame.Data); alarm != nil {
			state.AlarmStatus = alarm
		}
	}

	state.Timestamp = time.Now().UnixMilli()
	state.Connected = true

	return true
}
