package types

// Decoded payload records. Each struct corresponds to one reply command of
// the BMS-PCS protocol; all analog values are already scaled to engineering
// units (V, A, kW, kWh, 0.1 °C steps resolved to °C).

// ChargeDischargeLimits carries the charge/discharge envelope (command 0x80).
type ChargeDischargeLimits struct {
	ChargeVoltageLimit    float64 `json:"charge_voltage_limit"`
	ChargeCurrentLimit    float64 `json:"charge_current_limit"`
	DischargeVoltageLimit float64 `json:"discharge_voltage_limit"`
	DischargeCurrentLimit float64 `json:"discharge_current_limit"`
}

// SocSohData carries charge state, health and backup time (command 0x81).
type SocSohData struct {
	Soc               uint16 `json:"soc"`
	Soh               uint16 `json:"soh"`
	BackupTimeMinutes uint16 `json:"backup_time_minutes"`
}

// VoltageCurrentData carries pack voltage and current (command 0x82).
// Current is signed: positive while discharging, negative while charging.
// Power is derived, not transmitted.
type VoltageCurrentData struct {
	Voltage float64 `json:"voltage"`
	Current float64 `json:"current"`
	Power   float64 `json:"power"`
}

// CellVoltageData locates the extreme cells (command 0x83).
type CellVoltageData struct {
	MaxVoltage       float64 `json:"max_voltage"`
	MaxVoltagePackNo uint8   `json:"max_voltage_pack_no"`
	MaxVoltageCellNo uint8   `json:"max_voltage_cell_no"`
	MinVoltage       float64 `json:"min_voltage"`
	MinVoltagePackNo uint8   `json:"min_voltage_pack_no"`
	MinVoltageCellNo uint8   `json:"min_voltage_cell_no"`
	VoltageDelta     float64 `json:"voltage_delta"`
}

// TemperatureData locates the extreme sensors (command 0x84).
type TemperatureData struct {
	MaxTemperature float64 `json:"max_temperature"`
	MaxTempPackNo  uint8   `json:"max_temp_pack_no"`
	MaxTempSensor  uint8   `json:"max_temp_sensor_no"`
	MinTemperature float64 `json:"min_temperature"`
	MinTempPackNo  uint8   `json:"min_temp_pack_no"`
	MinTempSensor  uint8   `json:"min_temp_sensor_no"`
	TempDelta      float64 `json:"temp_delta"`
}

// OperationStatusData carries the status words and inhibit flags (command 0x85).
type OperationStatusData struct {
	SystemStatus    SystemStatus    `json:"system_status"`
	WorkStatus      WorkStatus      `json:"work_status"`
	OperationStatus OperationStatus `json:"operation_status"`
	// DischargeProhibited clears once the triggering over/under temperature
	// clears. DischargeProhibitedHard stays latched after over current or
	// under voltage.
	DischargeProhibited     bool `json:"discharge_prohibited"`
	ChargeProhibited        bool `json:"charge_prohibited"`
	DischargeProhibitedHard bool `json:"discharge_prohibited_hard"`
}

// AccumulatedTimesData counts full cycles (command 0x86).
type AccumulatedTimesData struct {
	ChargeTimes    uint16 `json:"charge_times"`
	DischargeTimes uint16 `json:"discharge_times"`
}

// AccumulatedPowerData carries lifetime energy in kWh (command 0x87).
type AccumulatedPowerData struct {
	ChargeEnergy    float64 `json:"charge_energy"`
	DischargeEnergy float64 `json:"discharge_energy"`
}

// AlarmStatus is the interpreted 64-bit alarm word (command 0xC0).
// ActiveAlarms lists every set bit index in ascending order, known or not.
// MaxSeverity is 0 when no classified alarm is active, otherwise the highest
// severity among the active classified bits.
type AlarmStatus struct {
	RawStatus    uint64 `json:"raw_status"`
	ActiveAlarms []int  `json:"active_alarms"`
	MaxSeverity  int    `json:"max_severity"`
}

// DeviceState is the aggregate view of one BMS, merged from every decoded
// frame of the current session. Record pointers are nil until the matching
// reply has been observed; attached records are never mutated in place, so a
// shallow copy of DeviceState is a safe snapshot.
type DeviceState struct {
	// Timestamp is Unix milliseconds of the last recognized frame.
	Timestamp int64 `json:"timestamp"`
	Connected bool  `json:"connected"`

	Limits           *ChargeDischargeLimits `json:"limits,omitempty"`
	SocSoh           *SocSohData            `json:"soc_soh,omitempty"`
	VoltageCurrent   *VoltageCurrentData    `json:"voltage_current,omitempty"`
	CellVoltage      *CellVoltageData       `json:"cell_voltage,omitempty"`
	Temperature      *TemperatureData       `json:"temperature,omitempty"`
	OperationStatus  *OperationStatusData   `json:"operation_status,omitempty"`
	AccumulatedTimes *AccumulatedTimesData  `json:"accumulated_times,omitempty"`
	AccumulatedPower *AccumulatedPowerData  `json:"accumulated_power,omitempty"`
	SoftwareVersion  string                 `json:"software_version,omitempty"`
	AlarmStatus      *AlarmStatus           `json:"alarm_status,omitempty"`
}
