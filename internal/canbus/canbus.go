package canbus

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openbms/OpenBatteryCore/internal/types"
)

// Adapter is one physical or simulated attachment to the CAN bus. Receive
// returns (nil, nil) when no frame arrived within the timeout; malformed
// frames are dropped, not reported. Implementations are safe for use from
// multiple goroutines, callers are still expected to serialize polling.
type Adapter interface {
	Connect() error
	Disconnect() error
	IsConnected() bool
	Send(frame types.CanFrame) error
	Receive(timeout time.Duration) (*types.CanFrame, error)
}

// Kind selects the adapter implementation.
type Kind string

const (
	KindSimulation Kind = "simulation"
	KindUSB        Kind = "usb"
	KindBluetooth  Kind = "bluetooth"
	KindVCI        Kind = "vci"
	KindSocketCAN  Kind = "socketcan"
)

// ParseKind validates an adapter kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSimulation, KindUSB, KindBluetooth, KindVCI, KindSocketCAN:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("canbus: unknown adapter kind %q", s)
	}
}

// Config describes one bus attachment. It is fixed for the lifetime of a
// session; reconnecting with different parameters means a new session.
type Config struct {
	Kind Kind

	// Serial bridge parameters (usb and bluetooth kinds).
	SerialPort string
	SerialBaud int

	// Native VCI parameters.
	VCIDeviceType  uint32
	VCIDeviceIndex uint32
	VCIChannel     uint32

	// Bus speed and protocol addressing, shared by all kinds.
	CANBaud       int
	LocalAddress  uint8
	RemoteAddress uint8
}

// New builds the adapter for cfg.Kind without connecting it.
func New(cfg Config, logger *zap.Logger) (Adapter, error) {
	switch cfg.Kind {
	case KindSimulation:
		return NewSimulator(logger), nil
	case KindUSB, KindBluetooth:
		return newSerialAdapter(cfg, logger), nil
	case KindVCI:
		return newVCIAdapter(cfg, logger)
	case KindSocketCAN:
		// Kein SocketCAN Backend bisher, Simulation als Ersatz
		logger.Warn("socketcan backend not implemented, falling back to simulation")
		return NewSimulator(logger), nil
	default:
		return nil, fmt.Errorf("canbus: unknown adapter kind %q", cfg.Kind)
	}
}
