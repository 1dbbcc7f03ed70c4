package monitor

import "fmt"

// SessionState describes what a session is currently doing on the bus.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnected
	StatePolling
	StateReceiving
)

func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnected:
		return "CONNECTED"
	case StatePolling:
		return "POLLING"
	case StateReceiving:
		return "RECEIVING"
	default:
		return "UNKNOWN"
	}
}

// ValidateTransition prüft ob ein Zustandswechsel erlaubt ist. One-shot
// polling returns to CONNECTED, continuous receive only ends with the
// session itself.
func ValidateTransition(from, to SessionState) error {
	validTransitions := map[SessionState][]SessionState{
		StateDisconnected: {StateConnected},
		StateConnected:    {StatePolling, StateReceiving, StateDisconnected},
		StatePolling:      {StateConnected, StateDisconnected},
		StateReceiving:    {StateDisconnected},
	}

	allowed, exists := validTransitions[from]
	if !exists {
		return fmt.Errorf("invalid current state: %s", from)
	}

	for _, validTo := range allowed {
		if validTo == to {
			return nil
		}
	}

	return fmt.Errorf("invalid state transition: %s -> %s", from, to)
}
