package bms

import "github.com/openbms/OpenBatteryCore/internal/types"

// severityByBit holds the classified portion of the alarm word: the
// protection class bits and the pre-alarm class bits. Bits that are labeled
// in the catalog but absent here are informational and never raise the
// aggregate severity.
var severityByBit = map[int]int{
	0:  types.SeveritySevere,   // cell over voltage
	1:  types.SeveritySevere,   // cell under voltage
	2:  types.SeverityModerate, // charging over temperature alarm
	3:  types.SeverityModerate, // charging low temperature alarm
	4:  types.SeverityModerate, // discharging over temperature pre-alarm
	5:  types.SeverityModerate, // discharging low temperature pre-alarm
	6:  types.SeverityModerate, // discharging over current pre-alarm
	7:  types.SeverityModerate, // charging over current pre-alarm
	8:  types.SeverityModerate, // total over voltage pre-alarm
	9:  types.SeverityModerate, // total under voltage warning
	14: types.SeveritySevere,   // BMU communication interruption
	18: types.SeveritySevere,   // charging over temperature protection
	19: types.SeveritySevere,   // charging low temperature protection
	20: types.SeveritySevere,   // discharging over temperature protection
	21: types.SeveritySevere,   // discharging low temperature protection
	22: types.SeveritySevere,   // discharging over current protection L1
	23: types.SeveritySevere,   // discharging over current protection L2
	24: types.SeveritySevere,   // charging over current protection L1
	25: types.SeveritySevere,   // charging over current protection L2
	26: types.SeveritySevere,   // charging over current protection L3
	27: types.SeveritySevere,   // total charging over voltage protection
	28: types.SeveritySevere,   // total charging under voltage protection
	29: types.SeveritySevere,   // charging DC contactor failure
	30: types.SeveritySevere,   // discharging DC contactor failure
	31: types.SeveritySevere,   // EPO shut down
	32: types.SeveritySevere,   // fire protection
}

// InterpretAlarms expands a raw 64-bit alarm word into the list of active
// bit indices and the highest classified severity. Every set bit is
// reported, including unassigned ones.
func InterpretAlarms(raw uint64) *types.AlarmStatus {
	status := &types.AlarmStatus{
		RawStatus:    raw,
		ActiveAlarms: []int{},
	}

	for bit := 0; bit < 64; bit++ {
		if (raw>>uint(bit))&1 == 0 {
			continue
		}

		status.ActiveAlarms = append(status.ActiveAlarms, bit)
		if severity, ok := severityByBit[bit]; ok && severity > status.MaxSeverity {
			status.MaxSeverity = severity
		}
	}

	return status
}
