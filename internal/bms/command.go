package bms

// Command ist der Befehlscode in Bits 27-20 des erweiterten Identifiers.
type Command uint8

// Command codes of protocol V1.20. 0x80 bis 0x8F and 0xC0 answer with a
// decodable payload, the remaining codes are control and debug commands
// without a decoder.
const (
	CmdChargeDischargeLimits Command = 0x80
	CmdSocSoh                Command = 0x81
	CmdVoltageCurrent        Command = 0x82
	CmdCellVoltage           Command = 0x83
	CmdTemperature           Command = 0x84
	CmdOperationStatus       Command = 0x85
	CmdAccumulatedTimes      Command = 0x86
	CmdAccumulatedPower      Command = 0x87
	CmdSoftwareVersion       Command = 0x8F
	CmdAlarmStatus           Command = 0xC0

	CmdShutdown    Command = 0x00 // initiative report
	CmdForceOutput Command = 0x10
	CmdReset       Command = 0x11
	CmdDebugStatus Command = 0xD0
)

// QueryCommands is the fixed polling order for one full readout cycle.
var QueryCommands = []Command{
	CmdChargeDischargeLimits,
	CmdSocSoh,
	CmdVoltageCurrent,
	CmdCellVoltage,
	CmdTemperature,
	CmdOperationStatus,
	CmdAccumulatedTimes,
	CmdAccumulatedPower,
	CmdSoftwareVersion,
	CmdAlarmStatus,
}

// CommandFromByte validates a raw command code. Codes outside the protocol
// table are rejected.
func CommandFromByte(b byte) (Command, bool) {
	switch Command(b) {
	case CmdChargeDischargeLimits, CmdSocSoh, CmdVoltageCurrent, CmdCellVoltage,
		CmdTemperature, CmdOperationStatus, CmdAccumulatedTimes, CmdAccumulatedPower,
		CmdSoftwareVersion, CmdAlarmStatus,
		CmdShutdown, CmdForceOutput, CmdReset, CmdDebugStatus:
		return Command(b), true
	default:
		return 0, false
	}
}

func (c Command) String() string {
	switch c {
	case CmdChargeDischargeLimits:
		return "charge_discharge_limits"
	case CmdSocSoh:
		return "soc_soh"
	case CmdVoltageCurrent:
		return "voltage_current"
	case CmdCellVoltage:
		return "cell_voltage"
	case CmdTemperature:
		return "temperature"
	case CmdOperationStatus:
		return "operation_status"
	case CmdAccumulatedTimes:
		return "accumulated_times"
	case CmdAccumulatedPower:
		return "accumulated_power"
	case CmdSoftwareVersion:
		return "software_version"
	case CmdAlarmStatus:
		return "alarm_status"
	case CmdShutdown:
		return "shutdown"
	case CmdForceOutput:
		return "force_output"
	case CmdReset:
		return "reset"
	case CmdDebugStatus:
		return "debug_status"
	default:
		return "unknown"
	}
}
