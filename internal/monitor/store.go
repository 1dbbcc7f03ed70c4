package monitor

import (
	"sync"
	"time"

	"github.com/openbms/OpenBatteryCore/internal/bms"
	"github.com/openbms/OpenBatteryCore/internal/types"
)

// Store holds the consolidated device state. All record pointers inside are
// frozen after assignment, so a shallow copy is a consistent snapshot.
type Store struct {
	mu    sync.RWMutex
	state types.DeviceState
}

func NewStore() *Store {
	return &Store{}
}

// Apply routes one received frame into the state. Frames with an unknown
// command byte leave the store untouched and report false.
func (s *Store) Apply(frame types.CanFrame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return bms.ApplyFrame(frame, &s.state)
}

// Touch marks the device as reachable without changing any record.
func (s *Store) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Connected = true
	s.state.Timestamp = time.Now().UnixMilli()
}

// MarkDisconnected clears the reachable flag. The last received records
// stay available for inspection.
func (s *Store) MarkDisconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Connected = false
}

// Reset drops every record. A new session starts with an empty state, values
// of an earlier session must not show up as current readings.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = types.DeviceState{}
}

func (s *Store) Snapshot() types.DeviceState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}
