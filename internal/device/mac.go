package device

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

// MACAddr returns the MAC address of iface, read from sysfs with a net
// package fallback for non-sysfs systems.
func MACAddr(iface string) (string, error) {
	data, err := os.ReadFile(filepath.Join("/sys/class/net", iface, "address"))
	if err == nil {
		if mac := strings.TrimSpace(string(data)); mac != "" {
			return mac, nil
		}
	}

	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return "", fmt.Errorf("device: interface %s: %w", iface, err)
	}
	if len(ifi.HardwareAddr) == 0 {
		return "", fmt.Errorf("device: interface %s has no hardware address", iface)
	}
	return ifi.HardwareAddr.String(), nil
}
