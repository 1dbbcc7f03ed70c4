package interfaces

import (
	"context"

	"github.com/openbms/OpenBatteryCore/internal/config"
	"github.com/openbms/OpenBatteryCore/internal/monitor"
)

// LifecycleManager is what the API layer sees of the running service.
type LifecycleManager interface {
	Config() *config.Config
	Monitor() *monitor.Manager
	State() string
	Shutdown(ctx context.Context) error
}
