package monitor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbms/OpenBatteryCore/internal/bms"
	"github.com/openbms/OpenBatteryCore/internal/canbus"
)

// ErrBusy is returned when a session cannot take on another bus activity,
// for example a one-shot poll while continuous receive is running.
var ErrBusy = errors.New("monitor: session is busy")

// Poll pacing. The simulated bus answers instantly, real adapters need the
// BMS-side processing gap between queries.
const (
	simSendDelay       = 5 * time.Millisecond
	realSendDelay      = 30 * time.Millisecond
	simReceiveTimeout  = 10 * time.Millisecond
	realReceiveTimeout = 50 * time.Millisecond

	continuousReceiveTimeout = 100 * time.Millisecond
	receiveAttempts          = 10
)

// Protocol addresses when the config leaves them at zero.
const (
	defaultLocalAddress  = 0x80 // PCS / host
	defaultRemoteAddress = 0x01 // BMS master
)

// Session binds one adapter to the state store and owns all bus activity on
// it. A session is single-use: disconnecting ends it for good.
type Session struct {
	ID      uuid.UUID
	cfg     canbus.Config
	adapter canbus.Adapter
	store   *Store
	logger  *zap.Logger

	sendDelay      time.Duration
	receiveTimeout time.Duration

	mu    sync.Mutex
	state SessionState
	wg    sync.WaitGroup

	// onApply wird nach jedem verwerteten Frame im Dauerempfang gerufen
	onApply func()
}

func NewSession(cfg canbus.Config, adapter canbus.Adapter, store *Store, logger *zap.Logger) *Session {
	if cfg.LocalAddress == 0 {
		cfg.LocalAddress = defaultLocalAddress
	}
	if cfg.RemoteAddress == 0 {
		cfg.RemoteAddress = defaultRemoteAddress
	}

	sendDelay := realSendDelay
	receiveTimeout := realReceiveTimeout
	if cfg.Kind == canbus.KindSimulation {
		sendDelay = simSendDelay
		receiveTimeout = simReceiveTimeout
	}

	return &Session{
		ID:             uuid.New(),
		cfg:            cfg,
		adapter:        adapter,
		store:          store,
		logger:         logger,
		sendDelay:      sendDelay,
		receiveTimeout: receiveTimeout,
		state:          StateDisconnected,
	}
}

func (s *Session) Connect() error {
	if err := s.adapter.Connect(); err != nil {
		return fmt.Errorf("failed to connect adapter: %w", err)
	}

	s.mu.Lock()
	s.state = StateConnected
	s.mu.Unlock()

	s.logger.Info("Session connected",
		zap.String("session_id", s.ID.String()),
		zap.String("adapter", string(s.cfg.Kind)),
		zap.Uint8("bms_address", s.cfg.RemoteAddress))

	return nil
}

// Disconnect stops any running receive loop, then releases the adapter.
// Calling it on an ended session is a no-op.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	if s.state == StateDisconnected {
		s.mu.Unlock()
		return nil
	}
	s.state = StateDisconnected
	s.mu.Unlock()

	s.wg.Wait()

	err := s.adapter.Disconnect()
	s.store.MarkDisconnected()

	s.logger.Info("Session disconnected", zap.String("session_id", s.ID.String()))
	return err
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// PollOnce sends the full query cycle and folds the replies into the store.
// Send failures abort the cycle, receive failures are logged and the next
// attempt is taken; an empty bus is not an error.
func (s *Session) PollOnce() error {
	if err := s.beginPolling(); err != nil {
		return err
	}
	defer s.endPolling()

	for _, cmd := range bms.QueryCommands {
		frame := bms.BuildQueryFrame(cmd, s.cfg.LocalAddress, s.cfg.RemoteAddress)
		if err := s.adapter.Send(frame); err != nil {
			return fmt.Errorf("query %s failed: %w", cmd, err)
		}
		time.Sleep(s.sendDelay)
	}

	// Alle Queries sind raus, ab hier gilt das Gerät als erreichbar
	s.store.Touch()

	for i := 0; i < receiveAttempts; i++ {
		frame, err := s.adapter.Receive(s.receiveTimeout)
		if err != nil {
			s.logger.Warn("Receive failed", zap.Error(err))
			continue
		}
		if frame == nil {
			continue
		}
		if !s.store.Apply(*frame) {
			s.logger.Debug("Ignoring frame with unknown command", zap.Uint32("frame_id", frame.ID))
		}
	}

	return nil
}

// StartContinuous launches the background receive loop. It runs until the
// session is disconnected.
func (s *Session) StartContinuous() error {
	s.mu.Lock()
	if s.state == StateReceiving {
		s.mu.Unlock()
		return nil
	}
	if err := ValidateTransition(s.state, StateReceiving); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	s.state = StateReceiving
	s.wg.Add(1)
	s.mu.Unlock()

	go s.receiveLoop()

	s.logger.Info("Continuous receive started", zap.String("session_id", s.ID.String()))
	return nil
}

func (s *Session) beginPolling() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ValidateTransition(s.state, StatePolling); err != nil {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}

	s.state = StatePolling
	return nil
}

func (s *Session) endPolling() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ein Disconnect während des Pollings bleibt bestehen
	if s.state == StatePolling {
		s.state = StateConnected
	}
}

func (s *Session) receiveLoop() {
	defer s.wg.Done()

	for s.State() == StateReceiving {
		frame, err := s.adapter.Receive(continuousReceiveTimeout)
		if err != nil {
			s.logger.Warn("Receive failed", zap.Error(err))
			time.Sleep(continuousReceiveTimeout)
			continue
		}
		if frame == nil {
			continue
		}

		if s.store.Apply(*frame) {
			if s.onApply != nil {
				s.onApply()
			}
		} else {
			s.logger.Debug("Ignoring frame with unknown command", zap.Uint32("frame_id", frame.ID))
		}
	}
}
