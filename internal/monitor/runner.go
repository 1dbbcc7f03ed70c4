package monitor

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Runner drives a poll function at a fixed interval until stopped.
type Runner struct {
	poll     func() error
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

func NewRunner(poll func() error, interval time.Duration, logger *zap.Logger) *Runner {
	return &Runner{
		poll:     poll,
		interval: interval,
		logger:   logger,
	}
}

// Start startet das zyklische Polling
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil
	}

	r.running = true
	r.stopChan = make(chan struct{})
	r.wg.Add(1)

	go r.pollLoop(r.stopChan)

	r.logger.Info("Poll runner started", zap.Duration("interval", r.interval))
	return nil
}

// Stop stoppt das Polling
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	stopChan := r.stopChan
	r.mu.Unlock()

	close(stopChan)
	r.wg.Wait()

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	r.logger.Info("Poll runner stopped")
}

func (r *Runner) pollLoop(stopChan chan struct{}) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopChan:
			return
		case <-ticker.C:
			if err := r.poll(); err != nil {
				r.logger.Error("Poll failed", zap.Error(err))
			}
		}
	}
}

// IsRunning gibt an ob der Runner läuft
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
