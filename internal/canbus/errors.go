package canbus

import (
	"errors"
	"fmt"
)

// Sentinel errors of the transport layer. Adapter methods wrap them with
// call specific context, callers match with errors.Is.
var (
	ErrNotConnected    = errors.New("canbus: not connected")
	ErrDeviceNotFound  = errors.New("canbus: device not found")
	ErrLibraryNotFound = errors.New("canbus: vendor library not found")
)

// VCIError reports a vendor API call that returned a failure code.
type VCIError struct {
	Call string
	Code uint32
}

func (e *VCIError) Error() string {
	return fmt.Sprintf("canbus: %s failed with code %d", e.Call, e.Code)
}
