package device

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/benchworks/jig-client/internal/log"
	"github.com/benchworks/jig-client/internal/protocol"
)

// Pass/fail tokens for raw-mode categories.
const (
	respOK = "OK"
	respNG = "NG"
)

// Prober answers check queries from Linux sysfs/procfs. Probes are
// best-effort single reads; anything unreadable is a failing check, never an
// error that stops the sweep.
type Prober struct {
	// root is prefixed to every absolute path so tests can point the
	// prober at a fake filesystem tree.
	root   string
	iface  string
	logger *slog.Logger
}

// NewProber creates a prober over the live filesystem.
func NewProber(iface string) *Prober {
	return &Prober{root: "/", iface: iface, logger: log.WithComponent("device")}
}

// NewProberAt creates a prober rooted at dir. Test hook.
func NewProberAt(dir, iface string) *Prober {
	return &Prober{root: dir, iface: iface, logger: log.WithComponent("device")}
}

// Setup verifies the probe surface exists. Missing pieces are logged; every
// later check against them simply fails.
func (p *Prober) Setup() error {
	for _, dir := range []string{"sys/class/net", "sys/bus/usb/devices"} {
		if _, err := os.Stat(p.path(dir)); err != nil {
			p.logger.Warn("probe surface unavailable", "path", dir)
		}
	}
	return nil
}

// Check decodes a query frame and routes it to its category probe.
func (p *Prober) Check(frame []byte) (bool, []byte) {
	q, err := protocol.ParseQuery(frame)
	if err != nil {
		p.logger.Warn("rejecting malformed query frame", "error", err)
		return false, clampResp(respNG)
	}

	switch q.Group {
	case protocol.GroupEthernet:
		return p.checkEthernet(q.Dev)
	case protocol.GroupUSB:
		return p.checkUSB()
	case protocol.GroupHDMI:
		return p.checkHDMI()
	case protocol.GroupAudio:
		return p.checkAudio()
	case protocol.GroupStorage:
		return p.checkStorage()
	case protocol.GroupSystem:
		return p.checkSystem(q.Dev)
	default:
		// ADC, header, LED and IR checks need fixture-side cabling the
		// client cannot observe on its own.
		p.logger.Debug("no probe for category", "group", q.Group.Name(), "dev", q.Dev)
		return false, clampResp(respNG)
	}
}

// checkEthernet reports link speed for dev 0 and the link verdict for dev 1.
func (p *Prober) checkEthernet(dev int) (bool, []byte) {
	base := filepath.Join("sys/class/net", p.iface)

	if dev == 1 {
		carrier := p.readTrim(filepath.Join(base, "carrier"))
		if carrier == "1" {
			return true, clampResp(respOK)
		}
		return false, clampResp(respNG)
	}

	speed := p.readTrim(filepath.Join(base, "speed"))
	n, err := strconv.Atoi(speed)
	if err != nil || n <= 0 {
		return false, clampResp("0")
	}
	return true, clampResp(speed)
}

// checkUSB counts enumerated USB devices (excluding root hubs and interface
// nodes).
func (p *Prober) checkUSB() (bool, []byte) {
	entries, err := os.ReadDir(p.path("sys/bus/usb/devices"))
	if err != nil {
		return false, clampResp("0")
	}
	count := 0
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "usb") || strings.Contains(name, ":") {
			continue
		}
		count++
	}
	return count > 0, clampResp(strconv.Itoa(count))
}

// checkHDMI reports hotplug status from the DRM connector.
func (p *Prober) checkHDMI() (bool, []byte) {
	matches, _ := filepath.Glob(p.path("sys/class/drm/card*-HDMI-A-*"))
	for _, m := range matches {
		data, err := os.ReadFile(filepath.Join(m, "status"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(data)) == "connected" {
			return true, clampResp(respOK)
		}
	}
	return false, clampResp(respNG)
}

// checkAudio counts registered ALSA cards.
func (p *Prober) checkAudio() (bool, []byte) {
	data, err := os.ReadFile(p.path("proc/asound/cards"))
	if err != nil {
		return false, clampResp("0")
	}
	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.Contains(trimmed, "]:") {
			continue
		}
		count++
	}
	return count > 0, clampResp(strconv.Itoa(count))
}

// checkStorage reports the boot medium size in GB from the block layer.
func (p *Prober) checkStorage() (bool, []byte) {
	for _, dev := range []string{"mmcblk0", "mmcblk1", "sda"} {
		sectors := p.readTrim(filepath.Join("sys/block", dev, "size"))
		n, err := strconv.ParseInt(sectors, 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		gb := n * 512 / (1000 * 1000 * 1000)
		return true, clampResp(strconv.FormatInt(gb, 10))
	}
	return false, clampResp("0")
}

// checkSystem reports memory in MB for dev 0 and the MAC presence for dev 1.
func (p *Prober) checkSystem(dev int) (bool, []byte) {
	if dev == 1 {
		if p.readTrim(filepath.Join("sys/class/net", p.iface, "address")) != "" {
			return true, clampResp(respOK)
		}
		return false, clampResp(respNG)
	}

	data, err := os.ReadFile(p.path("proc/meminfo"))
	if err != nil {
		return false, clampResp("0")
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			break
		}
		return true, clampResp(strconv.FormatInt(kb/1024, 10))
	}
	return false, clampResp("0")
}

func (p *Prober) path(rel string) string {
	return filepath.Join(p.root, rel)
}

func (p *Prober) readTrim(rel string) string {
	data, err := os.ReadFile(p.path(rel))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
