package canbus

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tarm/serial"
	"go.uber.org/zap"

	"github.com/openbms/OpenBatteryCore/internal/types"
)

// readSlice is the blocking granularity of a single port read. Receive
// loops over reads of this size until its own timeout budget is spent.
const readSlice = 20 * time.Millisecond

// SerialAdapter drives I+ series USB and Bluetooth CAN bridges through a
// serial port. One read is expected to deliver one complete envelope, the
// bridges forward frames packet by packet.
type SerialAdapter struct {
	mu     sync.Mutex
	cfg    Config
	port   *serial.Port
	logger *zap.Logger
}

func newSerialAdapter(cfg Config, logger *zap.Logger) *SerialAdapter {
	return &SerialAdapter{cfg: cfg, logger: logger}
}

func (a *SerialAdapter) Connect() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.port != nil {
		return nil
	}
	if a.cfg.SerialPort == "" {
		return fmt.Errorf("%w: no serial port configured", ErrDeviceNotFound)
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        a.cfg.SerialPort,
		Baud:        a.cfg.SerialBaud,
		ReadTimeout: readSlice,
	})
	if err != nil {
		return fmt.Errorf("canbus: open %s: %w", a.cfg.SerialPort, err)
	}

	a.port = port
	a.logger.Info("Connected to CAN bridge",
		zap.String("port", a.cfg.SerialPort),
		zap.Int("baud", a.cfg.SerialBaud))
	return nil
}

func (a *SerialAdapter) Disconnect() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.port == nil {
		return nil
	}

	err := a.port.Close()
	a.port = nil
	a.logger.Info("Disconnected from CAN bridge", zap.String("port", a.cfg.SerialPort))

	if err != nil {
		return fmt.Errorf("canbus: close %s: %w", a.cfg.SerialPort, err)
	}
	return nil
}

func (a *SerialAdapter) IsConnected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.port != nil
}

func (a *SerialAdapter) Send(frame types.CanFrame) error {
	if err := frame.Validate(); err != nil {
		return fmt.Errorf("canbus: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.port == nil {
		return ErrNotConnected
	}

	if _, err := a.port.Write(encodeIPlus(frame)); err != nil {
		return fmt.Errorf("canbus: write %s: %w", a.cfg.SerialPort, err)
	}
	return nil
}

// Receive reads until the timeout budget is spent. The first chunk the port
// delivers is decoded immediately; a chunk that is no valid envelope counts
// as silence.
func (a *SerialAdapter) Receive(timeout time.Duration) (*types.CanFrame, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.port == nil {
		return nil, ErrNotConnected
	}

	buf := make([]byte, 32)
	deadline := time.Now().Add(timeout)

	for {
		n, err := a.port.Read(buf)
		if n > 0 {
			return decodeIPlus(buf[:n]), nil
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("canbus: read %s: %w", a.cfg.SerialPort, err)
		}
		if !time.Now().Before(deadline) {
			return nil, nil
		}
	}
}
