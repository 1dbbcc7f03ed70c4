package canbus

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/openbms/OpenBatteryCore/internal/bms"
	"github.com/openbms/OpenBatteryCore/internal/types"
)

// simFrameDelay keeps the simulated bus from answering faster than a real
// adapter ever would.
const simFrameDelay = 10 * time.Millisecond

// simCycle is indexed with the frame counter modulo 10. The counter is
// advanced before the lookup, so a fresh simulator starts its cycle at
// soc_soh and wraps through limits.
var simCycle = [10]bms.Command{
	bms.CmdChargeDischargeLimits,
	bms.CmdSocSoh,
	bms.CmdVoltageCurrent,
	bms.CmdCellVoltage,
	bms.CmdTemperature,
	bms.CmdOperationStatus,
	bms.CmdAccumulatedTimes,
	bms.CmdAccumulatedPower,
	bms.CmdSoftwareVersion,
	bms.CmdAlarmStatus,
}

// simPayloads holds one plausible reply per command: a pack at 812.1 V and
// 80 % SOC, discharging with 5.6 A, no alarms, firmware V2.19S.
var simPayloads = map[bms.Command][]byte{
	bms.CmdChargeDischargeLimits: {0x90, 0x21, 0xE8, 0x03, 0x40, 0x1A, 0xE8, 0x03},
	bms.CmdSocSoh:                {0x50, 0x00, 0x64, 0x00, 0x3C, 0x00, 0x00, 0x00},
	bms.CmdVoltageCurrent:        {0xB9, 0x1F, 0x38, 0x00, 0x00, 0x00, 0x00, 0x00},
	bms.CmdCellVoltage:           {0x42, 0x0D, 0x01, 0x05, 0x38, 0x0D, 0x02, 0x08},
	bms.CmdTemperature:           {0x0E, 0x01, 0x01, 0x03, 0xF8, 0x00, 0x02, 0x05},
	bms.CmdOperationStatus:       {0x04, 0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00},
	bms.CmdAccumulatedTimes:      {0x64, 0x00, 0x62, 0x00, 0x00, 0x00, 0x00, 0x00},
	bms.CmdAccumulatedPower:      {0xE0, 0x9F, 0x02, 0x00, 0xDE, 0xC9, 0x02, 0x00},
	bms.CmdSoftwareVersion:       {0x56, 0x32, 0x2E, 0x31, 0x39, 0x53, 0x00, 0x00},
	bms.CmdAlarmStatus:           {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
}

// Simulator replays a fixed reply cycle without hardware. Every receive
// call yields the next frame of the cycle, sent frames are swallowed.
type Simulator struct {
	mu        sync.Mutex
	connected bool
	counter   uint32
	logger    *zap.Logger
}

func NewSimulator(logger *zap.Logger) *Simulator {
	return &Simulator{logger: logger}
}

func (s *Simulator) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = true
	s.logger.Info("Simulation mode connected")
	return nil
}

func (s *Simulator) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = false
	s.logger.Info("Simulation mode disconnected")
	return nil
}

func (s *Simulator) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.connected
}

func (s *Simulator) Send(frame types.CanFrame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return ErrNotConnected
	}
	return nil
}

// Receive yields the next frame of the reply cycle after a short fixed
// delay. A disconnected simulator stays silent instead of failing.
func (s *Simulator) Receive(timeout time.Duration) (*types.CanFrame, error) {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return nil, nil
	}
	s.counter++
	counter := s.counter
	s.mu.Unlock()

	time.Sleep(simFrameDelay)
	return s.testFrame(counter), nil
}

func (s *Simulator) testFrame(counter uint32) *types.CanFrame {
	cmd := simCycle[counter%10]

	id := bms.FrameID{
		PTP:         true,
		Command:     uint8(cmd),
		Destination: 0x80,
		Source:      0x01,
	}

	payload := make([]byte, len(simPayloads[cmd]))
	copy(payload, simPayloads[cmd])

	return &types.CanFrame{
		ID:        id.ID(),
		Data:      payload,
		Timestamp: time.Now().UnixMilli(),
	}
}
