package system

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/openbms/OpenBatteryCore/internal/api/rest"
	"github.com/openbms/OpenBatteryCore/internal/api/websocket"
	"github.com/openbms/OpenBatteryCore/internal/config"
	"github.com/openbms/OpenBatteryCore/internal/monitor"
)

// LifecycleManager verdrahtet Monitor, WebSocket-Hub und REST-Server und
// steuert Start und geordnetes Herunterfahren des Dienstes.
type LifecycleManager struct {
	config  *config.Config
	monitor *monitor.Manager
	logger  *zap.Logger

	restServer *rest.Server
	wsHub      *websocket.Hub

	stateMu      sync.RWMutex
	currentState SystemState
	lastError    string

	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

func NewLifecycleManager(cfg *config.Config, logger *zap.Logger) *LifecycleManager {
	return &LifecycleManager{
		config:       cfg,
		monitor:      monitor.NewManager(logger),
		wsHub:        websocket.NewHub(logger),
		logger:       logger,
		currentState: StateInitializing,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the entire service
func (lm *LifecycleManager) Start() error {
	lm.logger.Info("Starting OpenBatteryCore")

	go lm.wsHub.Run()
	go lm.forwardUpdates()

	// Start REST API Server
	if err := lm.startRESTServer(); err != nil {
		lm.setError(fmt.Errorf("failed to start REST API: %w", err))
		return err
	}

	lm.autoConnect()

	lm.setState(StateRunning)

	lm.logger.Info("Service started successfully",
		zap.Int("http_port", lm.config.Server.HTTPPort),
		zap.String("adapter", lm.config.Adapter.Kind))

	return nil
}

// autoConnect öffnet beim Start eine Session, wenn die Konfiguration das verlangt.
func (lm *LifecycleManager) autoConnect() {
	if !lm.config.Monitor.AutoConnect {
		return
	}

	transport, err := lm.config.TransportConfig()
	if err != nil {
		lm.logger.Warn("Auto-connect skipped, invalid adapter config", zap.Error(err))
		return
	}

	sessionID, err := lm.monitor.Connect(transport)
	if err != nil {
		// Continue anyway, not critical
		lm.logger.Warn("Auto-connect failed", zap.Error(err))
		return
	}

	lm.logger.Info("Auto-connected to BMS",
		zap.String("session_id", sessionID.String()),
		zap.String("adapter", string(transport.Kind)))

	if lm.config.Monitor.AutoPoll {
		if err := lm.monitor.StartAutoPoll(lm.config.Monitor.PollInterval); err != nil {
			lm.logger.Warn("Auto-poll not started", zap.Error(err))
		}
	}
}

// forwardUpdates spiegelt Monitor-Updates als typisierte Nachrichten in den Hub.
func (lm *LifecycleManager) forwardUpdates() {
	for {
		select {
		case update := <-lm.monitor.Updates():
			switch update.Kind {
			case monitor.UpdateData:
				lm.wsHub.Broadcast(websocket.NewBMSDataMessage(update.State))
			case monitor.UpdateSession:
				lm.wsHub.Broadcast(websocket.NewSessionStateMessage(update.SessionID, update.Connected))
			case monitor.UpdateError:
				lm.wsHub.Broadcast(websocket.NewPollErrorMessage(update.SessionID, update.Message))
			}
		case <-lm.shutdownChan:
			return
		}
	}
}

// Shutdown gracefully shuts down the service
func (lm *LifecycleManager) Shutdown(ctx context.Context) error {
	var shutdownErr error

	lm.shutdownOnce.Do(func() {
		lm.logger.Info("Shutting down service")

		lm.setState(StateStopping)

		shutdownErr = lm.gracefulShutdown(ctx)

		lm.setState(StateStopped)

		close(lm.shutdownChan)
	})

	return shutdownErr
}

func (lm *LifecycleManager) gracefulShutdown(ctx context.Context) error {
	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	// 1. Monitor trennen, stoppt Runner und Session
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := lm.monitor.Disconnect(); err != nil {
			errChan <- fmt.Errorf("monitor disconnect failed: %w", err)
		}
	}()

	// 2. REST API Server graceful shutdown
	if lm.restServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := lm.restServer.Shutdown(shutdownCtx); err != nil {
				errChan <- fmt.Errorf("rest api shutdown failed: %w", err)
			}
		}()
	}

	// Wait for all shutdowns
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		lm.logger.Info("Graceful shutdown completed")
		return nil
	case <-ctx.Done():
		lm.logger.Warn("Shutdown timeout, forcing stop")
		return fmt.Errorf("shutdown timeout exceeded")
	case err := <-errChan:
		return err
	}
}

func (lm *LifecycleManager) startRESTServer() error {
	lm.restServer = rest.NewServer(lm.config, lm, lm.logger, lm.wsHub)
	return lm.restServer.Start()
}

func (lm *LifecycleManager) setState(state SystemState) {
	lm.stateMu.Lock()
	defer lm.stateMu.Unlock()

	if err := ValidateTransition(lm.currentState, state); err != nil {
		lm.logger.Warn("Unexpected state transition", zap.Error(err))
	}
	lm.currentState = state
}

func (lm *LifecycleManager) setError(err error) {
	lm.stateMu.Lock()
	defer lm.stateMu.Unlock()

	lm.currentState = StateError
	lm.lastError = err.Error()
}

// State returns the current service state (Interface implementation)
func (lm *LifecycleManager) State() string {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()

	return lm.currentState.String()
}

// Status returns the typed service status
func (lm *LifecycleManager) Status() SystemStatus {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()

	return SystemStatus{
		State:     lm.currentState,
		Timestamp: time.Now().Unix(),
		Error:     lm.lastError,
	}
}

// Config returns the configuration
func (lm *LifecycleManager) Config() *config.Config {
	return lm.config
}

// Monitor returns the monitor manager
func (lm *LifecycleManager) Monitor() *monitor.Manager {
	return lm.monitor
}
