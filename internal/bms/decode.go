package bms

import (
	"encoding/binary"
	"math"

	"github.com/openbms/OpenBatteryCore/internal/types"
)

// Payload decoders for the reply commands. All multi-byte fields are
// little-endian. A nil result means the payload was too short for the
// record, the caller then keeps the previously stored record.

// DecodeChargeDischargeLimits parst Command 0x80 (alle Felder 0.1er Auflösung).
func DecodeChargeDischargeLimits(data []byte) *types.ChargeDischargeLimits {
	if len(data) < 8 {
		return nil
	}

	return &types.ChargeDischargeLimits{
		ChargeVoltageLimit:    float64(binary.LittleEndian.Uint16(data[0:2])) * 0.1,
		ChargeCurrentLimit:    float64(binary.LittleEndian.Uint16(data[2:4])) * 0.1,
		DischargeVoltageLimit: float64(binary.LittleEndian.Uint16(data[4:6])) * 0.1,
		DischargeCurrentLimit: float64(binary.LittleEndian.Uint16(data[6:8])) * 0.1,
	}
}

// DecodeSocSoh parst Command 0x81.
func DecodeSocSoh(data []byte) *types.SocSohData {
	if len(data) < 6 {
		return nil
	}

	return &types.SocSohData{
		Soc:               binary.LittleEndian.Uint16(data[0:2]),
		Soh:               binary.LittleEndian.Uint16(data[2:4]),
		BackupTimeMinutes: binary.LittleEndian.Uint16(data[4:6]),
	}
}

// DecodeVoltageCurrent parst Command 0x82. Current is signed, power in kW
// is derived from voltage and current magnitude.
func DecodeVoltageCurrent(data []byte) *types.VoltageCurrentData {
	if len(data) < 4 {
		return nil
	}

	voltage := float64(binary.LittleEndian.Uint16(data[0:2])) * 0.1
	current := float64(int16(binary.LittleEndian.Uint16(data[2:4]))) * 0.1

	return &types.VoltageCurrentData{
		Voltage: voltage,
		Current: current,
		Power:   voltage * math.Abs(current) / 1000.0,
	}
}

// DecodeCellVoltage parst Command 0x83 (Zellspannungen in 1mV Auflösung).
func DecodeCellVoltage(data []byte) *types.CellVoltageData {
	if len(data) < 8 {
		return nil
	}

	maxVoltage := float64(binary.LittleEndian.Uint16(data[0:2])) * 0.001
	minVoltage := float64(binary.LittleEndian.Uint16(data[4:6])) * 0.001

	return &types.CellVoltageData{
		MaxVoltage:       maxVoltage,
		MaxVoltagePackNo: data[2],
		MaxVoltageCellNo: data[3],
		MinVoltage:       minVoltage,
		MinVoltagePackNo: data[6],
		MinVoltageCellNo: data[7],
		VoltageDelta:     maxVoltage - minVoltage,
	}
}

// DecodeTemperature parst Command 0x84. Temperatures are signed.
func DecodeTemperature(data []byte) *types.TemperatureData {
	if len(data) < 8 {
		return nil
	}

	maxTemp := float64(int16(binary.LittleEndian.Uint16(data[0:2]))) * 0.1
	minTemp := float64(int16(binary.LittleEndian.Uint16(data[4:6]))) * 0.1

	return &types.TemperatureData{
		MaxTemperature: maxTemp,
		MaxTempPackNo:  data[2],
		MaxTempSensor:  data[3],
		MinTemperature: minTemp,
		MinTempPackNo:  data[6],
		MinTempSensor:  data[7],
		TempDelta:      maxTemp - minTemp,
	}
}

// DecodeOperationStatus parst Command 0x85. Byte 3 carries the prohibition
// flags: bit 0 discharge, bit 1 charge, bit 2 discharge latched.
func DecodeOperationStatus(data []byte) *types.OperationStatusData {
	if len(data) < 4 {
		return nil
	}

	flags := data[3]

	return &types.OperationStatusData{
		SystemStatus:            types.SystemStatusFromByte(data[0]),
		WorkStatus:              types.WorkStatusFromByte(data[1]),
		OperationStatus:         types.OperationStatusFromByte(data[2]),
		DischargeProhibited:     flags&0x01 != 0,
		ChargeProhibited:        flags&0x02 != 0,
		DischargeProhibitedHard: flags&0x04 != 0,
	}
}

// DecodeAccumulatedTimes parst Command 0x86.
func DecodeAccumulatedTimes(data []byte) *types.AccumulatedTimesData {
	if len(data) < 4 {
		return nil
	}

	return &types.AccumulatedTimesData{
		ChargeTimes:    binary.LittleEndian.Uint16(data[0:2]),
		DischargeTimes: binary.LittleEndian.Uint16(data[2:4]),
	}
}

// DecodeAccumulatedPower parst Command 0x87 (kWh in 0.1er Auflösung).
func DecodeAccumulatedPower(data []byte) *types.AccumulatedPowerData {
	if len(data) < 8 {
		return nil
	}

	return &types.AccumulatedPowerData{
		ChargeEnergy:    float64(binary.LittleEndian.Uint32(data[0:4])) * 0.1,
		DischargeEnergy: float64(binary.LittleEndian.Uint32(data[4:8])) * 0.1,
	}
}

// DecodeSoftwareVersion parst Command 0x8F. The version is plain ASCII,
// zero bytes are padding and dropped. An empty result means no version.
func DecodeSoftwareVersion(data []byte) string {
	raw := data
	if len(raw) > 8 {
		raw = raw[:8]
	}

	version := make([]byte, 0, len(raw))
	for _, b := range raw {
		if b != 0 {
			version = append(version, b)
		}
	}

	return string(version)
}

// DecodeAlarmStatus parst Command 0xC0, a 64-bit little-endian alarm word.
func DecodeAlarmStatus(data []byte) *types.AlarmStatus {
	if len(data) < 8 {
		return nil
	}

	return InterpretAlarms(binary.LittleEndian.Uint64(data[0:8]))
}
