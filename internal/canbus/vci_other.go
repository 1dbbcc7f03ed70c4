//go:build !windows

package canbus

import (
	"fmt"

	"go.uber.org/zap"
)

// The VCI vendor libraries only exist as Windows DLLs.
func newVCIAdapter(_ Config, _ *zap.Logger) (Adapter, error) {
	return nil, fmt.Errorf("canbus: the vci adapter needs the vendor DLL and is only available on windows")
}
