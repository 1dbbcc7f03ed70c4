package types

// Status vocabularies of the 0x85 operation status frame. The numeric values
// are the wire codes; JSON carries the codes, labels come from String() and
// the label lookup endpoint.

// SystemStatus is the coarse BMS operating mode (byte 0).
type SystemStatus uint8

const (
	SystemPowerOn SystemStatus = iota
	SystemStart
	SystemAlone
	SystemCharge
	SystemDischarge
	SystemWaitToCharge
	SystemWaitToDischarge
	SystemLock
)

// SystemStatusFromByte maps a wire code to its status, falling back to
// SystemPowerOn for codes outside the table.
func SystemStatusFromByte(b byte) SystemStatus {
	if b > uint8(SystemLock) {
		return SystemPowerOn
	}
	return SystemStatus(b)
}

func (s SystemStatus) String() string {
	switch s {
	case SystemPowerOn:
		return "Power On"
	case SystemStart:
		return "Start"
	case SystemAlone:
		return "Alone"
	case SystemCharge:
		return "Charging"
	case SystemDischarge:
		return "Discharging"
	case SystemWaitToCharge:
		return "Wait to Charge"
	case SystemWaitToDischarge:
		return "Wait to Discharge"
	case SystemLock:
		return "Lock"
	default:
		return "Unknown"
	}
}

// WorkStatus is the boot state of the BMS controller (byte 1).
type WorkStatus uint8

const (
	WorkEmpty WorkStatus = iota
	WorkBoot
	WorkShutDown
)

// WorkStatusFromByte maps a wire code to its status, falling back to
// WorkEmpty for codes outside the table.
func WorkStatusFromByte(b byte) WorkStatus {
	if b > uint8(WorkShutDown) {
		return WorkEmpty
	}
	return WorkStatus(b)
}

func (s WorkStatus) String() string {
	switch s {
	case WorkEmpty:
		return "Empty"
	case WorkBoot:
		return "Boot"
	case WorkShutDown:
		return "Shut Down"
	default:
		return "Unknown"
	}
}

// OperationStatus is the alarm/fault condition word (byte 2).
type OperationStatus uint8

const (
	OperationEmpty OperationStatus = iota
	OperationNormal
	OperationAlarm
	OperationFault
)

// OperationStatusFromByte maps a wire code to its status, falling back to
// OperationEmpty for codes outside the table.
func OperationStatusFromByte(b byte) OperationStatus {
	if b > uint8(OperationFault) {
		return OperationEmpty
	}
	return OperationStatus(b)
}

func (s OperationStatus) String() string {
	switch s {
	case OperationEmpty:
		return "Empty"
	case OperationNormal:
		return "Normal"
	case OperationAlarm:
		return "Alarm"
	case OperationFault:
		return "Fault"
	default:
		return "Unknown"
	}
}

// ShutdownReason is the protocol's shutdown cause vocabulary. No decoded
// reply carries it today, it is exposed for the label lookup surface.
type ShutdownReason uint8

const (
	ShutdownInvalid ShutdownReason = iota
	ShutdownUnderVoltage
	ShutdownOverCurrent
	ShutdownOverTemperature
	ShutdownUnderTemperature
	ShutdownOverVoltage
	ShutdownCommError
)

// ShutdownReasonFromByte maps a wire code to its reason, falling back to
// ShutdownInvalid for codes outside the table.
func ShutdownReasonFromByte(b byte) ShutdownReason {
	if b > uint8(ShutdownCommError) {
		return ShutdownInvalid
	}
	return ShutdownReason(b)
}

func (r ShutdownReason) String() string {
	switch r {
	case ShutdownInvalid:
		return "Invalid"
	case ShutdownUnderVoltage:
		return "Under Voltage"
	case ShutdownOverCurrent:
		return "Over Current"
	case ShutdownOverTemperature:
		return "Over Temperature"
	case ShutdownUnderTemperature:
		return "Under Temperature"
	case ShutdownOverVoltage:
		return "Over Voltage"
	case ShutdownCommError:
		return "Communication Error"
	default:
		return "Unknown"
	}
}
