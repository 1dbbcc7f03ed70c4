//go:build !windows

package canbus

import (
	"path/filepath"
	"sort"
)

// ListPorts enumerates serial device nodes that can host a CAN bridge.
func ListPorts() []string {
	patterns := []string{
		"/dev/ttyUSB*",
		"/dev/ttyACM*",
		"/dev/tty.usbserial*",
		"/dev/cu.usbserial*",
		"/dev/cu.usbmodem*",
	}

	ports := []string{}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		ports = append(ports, matches...)
	}

	sort.Strings(ports)
	return ports
}
