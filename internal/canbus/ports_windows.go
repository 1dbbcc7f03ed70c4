//go:build windows

package canbus

import (
	"sort"

	"golang.org/x/sys/windows/registry"
)

// ListPorts enumerates COM ports from the SERIALCOMM registry key, the same
// source the device manager uses.
func ListPorts() []string {
	ports := []string{}

	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`HARDWARE\DEVICEMAP\SERIALCOMM`, registry.QUERY_VALUE)
	if err != nil {
		return ports
	}
	defer key.Close()

	names, err := key.ReadValueNames(0)
	if err != nil {
		return ports
	}

	for _, name := range names {
		if value, _, err := key.GetStringValue(name); err == nil {
			ports = append(ports, value)
		}
	}

	sort.Strings(ports)
	return ports
}
