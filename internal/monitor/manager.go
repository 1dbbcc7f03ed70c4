package monitor

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbms/OpenBatteryCore/internal/canbus"
	"github.com/openbms/OpenBatteryCore/internal/types"
)

// ErrNoSession is returned for bus operations while nothing is connected.
var ErrNoSession = errors.New("monitor: no active session")

// UpdateKind names the event types pushed to subscribers.
type UpdateKind string

const (
	UpdateData    UpdateKind = "bms_data"
	UpdateSession UpdateKind = "session_state"
	UpdateError   UpdateKind = "poll_error"
)

// Update is one event out of the manager: a fresh state snapshot, a session
// coming or going, or a poll failure from the runner.
type Update struct {
	Kind      UpdateKind
	SessionID string
	Connected bool
	State     *types.DeviceState
	Message   string
}

// Status describes the current connection for the API.
type Status struct {
	Connected     bool   `json:"connected"`
	SessionID     string `json:"session_id,omitempty"`
	Adapter       string `json:"adapter,omitempty"`
	State         string `json:"state"`
	LocalAddress  uint8  `json:"local_address,omitempty"`
	RemoteAddress uint8  `json:"remote_address,omitempty"`
	AutoPolling   bool   `json:"auto_polling"`
}

// Manager owns at most one session at a time plus the optional poll runner.
// Updates are pushed over a buffered channel and dropped when the consumer
// falls behind.
type Manager struct {
	opMu sync.Mutex // serialisiert Connect/Disconnect/Runner Wechsel
	mu   sync.Mutex // schützt die Zeiger auf Session und Runner

	session *Session
	runner  *Runner
	store   *Store
	logger  *zap.Logger
	updates chan Update
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		store:   NewStore(),
		logger:  logger,
		updates: make(chan Update, 64),
	}
}

// Updates returns the event stream. There is one stream per manager,
// intended for a single consumer.
func (m *Manager) Updates() <-chan Update {
	return m.updates
}

// Connect builds the adapter for cfg and opens a new session on it. An
// existing session is disconnected first and the store starts over, records
// of the old session only stay visible until the new one opens.
func (m *Manager) Connect(cfg canbus.Config) (uuid.UUID, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	adapter, err := canbus.New(cfg, m.logger)
	if err != nil {
		return uuid.Nil, err
	}

	if err := m.disconnect(); err != nil {
		m.logger.Error("Failed to disconnect previous session", zap.Error(err))
	}
	m.store.Reset()

	session := NewSession(cfg, adapter, m.store, m.logger)
	session.onApply = func() { m.publishData(session.ID) }

	if err := session.Connect(); err != nil {
		return uuid.Nil, err
	}

	m.mu.Lock()
	m.session = session
	m.mu.Unlock()

	m.publish(Update{Kind: UpdateSession, SessionID: session.ID.String(), Connected: true})
	return session.ID, nil
}

// Disconnect ends the current session. Without one it is a no-op.
func (m *Manager) Disconnect() error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	return m.disconnect()
}

// disconnect stops the runner before the session so no poll starts against
// a closing adapter. Caller holds opMu.
func (m *Manager) disconnect() error {
	m.mu.Lock()
	runner := m.runner
	m.runner = nil
	m.mu.Unlock()

	if runner != nil {
		runner.Stop()
	}

	m.mu.Lock()
	session := m.session
	m.session = nil
	m.mu.Unlock()

	if session == nil {
		return nil
	}

	err := session.Disconnect()
	m.publish(Update{Kind: UpdateSession, SessionID: session.ID.String(), Connected: false})
	return err
}

// PollOnce runs one query cycle on the current session and publishes the
// refreshed snapshot.
func (m *Manager) PollOnce() error {
	m.mu.Lock()
	session := m.session
	m.mu.Unlock()

	if session == nil {
		return ErrNoSession
	}

	if err := session.PollOnce(); err != nil {
		return err
	}

	m.publishData(session.ID)
	return nil
}

// StartContinuous switches the session into the background receive loop.
// A running poll runner is stopped first, the two would fight over the bus.
func (m *Manager) StartContinuous() error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	session := m.session
	runner := m.runner
	m.runner = nil
	m.mu.Unlock()

	if session == nil {
		return ErrNoSession
	}

	if runner != nil {
		m.logger.Info("Stopping poll runner, continuous receive takes over")
		runner.Stop()
	}

	return session.StartContinuous()
}

// StartAutoPoll begins periodic polling at the given interval.
func (m *Manager) StartAutoPoll(interval time.Duration) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	session := m.session
	running := m.runner != nil
	m.mu.Unlock()

	if session == nil {
		return ErrNoSession
	}
	if running {
		return nil
	}

	runner := NewRunner(m.autoPoll, interval, m.logger)
	if err := runner.Start(); err != nil {
		return err
	}

	m.mu.Lock()
	m.runner = runner
	m.mu.Unlock()

	return nil
}

// StopAutoPoll halts periodic polling, the session stays connected.
func (m *Manager) StopAutoPoll() {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	runner := m.runner
	m.runner = nil
	m.mu.Unlock()

	if runner != nil {
		runner.Stop()
	}
}

func (m *Manager) autoPoll() error {
	if err := m.PollOnce(); err != nil {
		m.publishError(err)
		return err
	}
	return nil
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	session := m.session
	autoPolling := m.runner != nil && m.runner.IsRunning()
	m.mu.Unlock()

	if session == nil {
		return Status{State: StateDisconnected.String()}
	}

	return Status{
		Connected:     session.adapter.IsConnected(),
		SessionID:     session.ID.String(),
		Adapter:       string(session.cfg.Kind),
		State:         session.State().String(),
		LocalAddress:  session.cfg.LocalAddress,
		RemoteAddress: session.cfg.RemoteAddress,
		AutoPolling:   autoPolling,
	}
}

func (m *Manager) Snapshot() types.DeviceState {
	return m.store.Snapshot()
}

func (m *Manager) publish(u Update) {
	select {
	case m.updates <- u:
	default:
		m.logger.Debug("Update channel full, dropping update", zap.String("kind", string(u.Kind)))
	}
}

func (m *Manager) publishData(sessionID uuid.UUID) {
	snap := m.store.Snapshot()
	m.publish(Update{
		Kind:      UpdateData,
		SessionID: sessionID.String(),
		Connected: snap.Connected,
		State:     &snap,
	})
}

func (m *Manager) publishError(err error) {
	m.mu.Lock()
	id := ""
	if m.session != nil {
		id = m.session.ID.String()
	}
	m.mu.Unlock()

	m.publish(Update{Kind: UpdateError, SessionID: id, Message: err.Error()})
}
