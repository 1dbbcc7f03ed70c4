package canbus

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/openbms/OpenBatteryCore/internal/bms"
	"github.com/openbms/OpenBatteryCore/internal/types"
)

func TestSimulatorCycle(t *testing.T) {
	sim := NewSimulator(zap.NewNop())
	if err := sim.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	want := []bms.Command{
		bms.CmdSocSoh,
		bms.CmdVoltageCurrent,
		bms.CmdCellVoltage,
		bms.CmdTemperature,
		bms.CmdOperationStatus,
		bms.CmdAccumulatedTimes,
		bms.CmdAccumulatedPower,
		bms.CmdSoftwareVersion,
		bms.CmdAlarmStatus,
		bms.CmdChargeDischargeLimits,
	}

	state := &types.DeviceState{}
	for i, cmd := range want {
		frame, err := sim.Receive(50 * time.Millisecond)
		if err != nil {
			t.Fatalf("Receive() %d error = %v", i, err)
		}
		if frame == nil {
			t.Fatalf("Receive() %d returned no frame", i)
		}

		id := bms.ParseFrameID(frame.ID)
		if bms.Command(id.Command) != cmd {
			t.Errorf("frame %d: command = %s, want %s", i, bms.Command(id.Command), cmd)
		}
		if id.Source != 0x01 || id.Destination != 0x80 {
			t.Errorf("frame %d: addressing = %02X->%02X, want 01->80", i, id.Source, id.Destination)
		}
		if !bms.ApplyFrame(*frame, state) {
			t.Errorf("frame %d: not recognized", i)
		}
	}

	// Nach einem vollen Zyklus ist der Zustand komplett
	if state.SocSoh == nil || state.SocSoh.Soc != 80 {
		t.Errorf("state.SocSoh = %+v, want soc 80", state.SocSoh)
	}
	if state.VoltageCurrent == nil || state.VoltageCurrent.Voltage != 812.1 {
		t.Errorf("state.VoltageCurrent = %+v, want voltage 812.1", state.VoltageCurrent)
	}
	if state.SoftwareVersion != "V2.19S" {
		t.Errorf("state.SoftwareVersion = %q, want V2.19S", state.SoftwareVersion)
	}
	if state.AlarmStatus == nil || len(state.AlarmStatus.ActiveAlarms) != 0 {
		t.Errorf("state.AlarmStatus = %+v, want no active alarms", state.AlarmStatus)
	}
}

func TestSimulatorDisconnected(t *testing.T) {
	sim := NewSimulator(zap.NewNop())

	frame, err := sim.Receive(10 * time.Millisecond)
	if err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if frame != nil {
		t.Errorf("Receive() = %+v, want nil while disconnected", frame)
	}

	if err := sim.Send(types.CanFrame{ID: 0x10080800}); err != ErrNotConnected {
		t.Errorf("Send() error = %v, want ErrNotConnected", err)
	}
}

func TestSimulatorConnectToggle(t *testing.T) {
	sim := NewSimulator(zap.NewNop())

	if sim.IsConnected() {
		t.Error("fresh simulator reports connected")
	}
	if err := sim.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !sim.IsConnected() {
		t.Error("IsConnected() = false after Connect")
	}
	if err := sim.Send(types.CanFrame{ID: 0x10080800, Data: make([]byte, 8)}); err != nil {
		t.Errorf("Send() error = %v", err)
	}
	if err := sim.Disconnect(); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if sim.IsConnected() {
		t.Error("IsConnected() = true after Disconnect")
	}

	frame, err := sim.Receive(10 * time.Millisecond)
	if frame != nil || err != nil {
		t.Errorf("Receive() after Disconnect = (%+v, %v), want (nil, nil)", frame, err)
	}
}
