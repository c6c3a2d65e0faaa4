package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/benchworks/jig-client/internal/protocol"
)

// fakeSysfs builds a minimal sysfs/procfs tree under a temp root.
type fakeSysfs struct {
	t    *testing.T
	root string
}

func newFakeSysfs(t *testing.T) *fakeSysfs {
	t.Helper()
	return &fakeSysfs{t: t, root: t.TempDir()}
}

func (f *fakeSysfs) write(rel, content string) {
	f.t.Helper()
	path := filepath.Join(f.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		f.t.Fatalf("write %s: %v", rel, err)
	}
}

func (f *fakeSysfs) mkdir(rel string) {
	f.t.Helper()
	if err := os.MkdirAll(filepath.Join(f.root, rel), 0o755); err != nil {
		f.t.Fatalf("mkdir %s: %v", rel, err)
	}
}

func queryFrame(t *testing.T, g protocol.Group, dev int) []byte {
	t.Helper()
	frame, err := protocol.EncodeQuery(protocol.Query{UIID: 0, Group: g, Dev: dev})
	if err != nil {
		t.Fatalf("EncodeQuery: %v", err)
	}
	return frame
}

func TestProber_Ethernet(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.write("sys/class/net/eth0/carrier", "1\n")
	fs.write("sys/class/net/eth0/speed", "1000\n")
	p := NewProberAt(fs.root, "eth0")

	ok, resp := p.Check(queryFrame(t, protocol.GroupEthernet, 1))
	if !ok || string(resp) != "OK" {
		t.Fatalf("link check = %v %q", ok, resp)
	}

	ok, resp = p.Check(queryFrame(t, protocol.GroupEthernet, 0))
	if !ok || string(resp) != "1000" {
		t.Fatalf("speed check = %v %q", ok, resp)
	}
}

func TestProber_EthernetDown(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.write("sys/class/net/eth0/carrier", "0\n")
	fs.write("sys/class/net/eth0/speed", "-1\n")
	p := NewProberAt(fs.root, "eth0")

	ok, resp := p.Check(queryFrame(t, protocol.GroupEthernet, 1))
	if ok || string(resp) != "NG" {
		t.Fatalf("link check = %v %q", ok, resp)
	}

	ok, resp = p.Check(queryFrame(t, protocol.GroupEthernet, 0))
	if ok || string(resp) != "0" {
		t.Fatalf("speed check = %v %q", ok, resp)
	}
}

func TestProber_USBCountSkipsHubsAndInterfaces(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.mkdir("sys/bus/usb/devices/usb1")
	fs.mkdir("sys/bus/usb/devices/1-0:1.0")
	fs.mkdir("sys/bus/usb/devices/1-1")
	fs.mkdir("sys/bus/usb/devices/1-1:1.0")
	fs.mkdir("sys/bus/usb/devices/1-2")
	p := NewProberAt(fs.root, "eth0")

	ok, resp := p.Check(queryFrame(t, protocol.GroupUSB, 0))
	if !ok || string(resp) != "2" {
		t.Fatalf("usb check = %v %q, want true \"2\"", ok, resp)
	}
}

func TestProber_HDMIConnector(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.write("sys/class/drm/card0-HDMI-A-1/status", "disconnected\n")
	p := NewProberAt(fs.root, "eth0")

	ok, resp := p.Check(queryFrame(t, protocol.GroupHDMI, 0))
	if ok || string(resp) != "NG" {
		t.Fatalf("hdmi check = %v %q", ok, resp)
	}

	fs.write("sys/class/drm/card0-HDMI-A-1/status", "connected\n")
	ok, resp = p.Check(queryFrame(t, protocol.GroupHDMI, 0))
	if !ok || string(resp) != "OK" {
		t.Fatalf("hdmi check = %v %q", ok, resp)
	}
}

func TestProber_AudioCards(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.write("proc/asound/cards",
		" 0 [sun50iw9hdmi   ]: sun50iw9-hdmi - sun50iw9-hdmi\n"+
			"                      sun50iw9-hdmi\n"+
			" 1 [audiocodec     ]: audiocodec - audiocodec\n"+
			"                      audiocodec\n")
	p := NewProberAt(fs.root, "eth0")

	ok, resp := p.Check(queryFrame(t, protocol.GroupAudio, 0))
	if !ok || string(resp) != "2" {
		t.Fatalf("audio check = %v %q, want true \"2\"", ok, resp)
	}
}

func TestProber_StorageSizeGB(t *testing.T) {
	fs := newFakeSysfs(t)
	// 15,269,888 sectors of 512 bytes is a 7.8 GB eMMC.
	fs.write("sys/block/mmcblk0/size", "15269888\n")
	p := NewProberAt(fs.root, "eth0")

	ok, resp := p.Check(queryFrame(t, protocol.GroupStorage, 0))
	if !ok || string(resp) != "7" {
		t.Fatalf("storage check = %v %q, want true \"7\"", ok, resp)
	}
}

func TestProber_StorageFallsBackAcrossDevices(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.write("sys/block/sda/size", "62500000\n")
	p := NewProberAt(fs.root, "eth0")

	ok, resp := p.Check(queryFrame(t, protocol.GroupStorage, 0))
	if !ok || string(resp) != "32" {
		t.Fatalf("storage check = %v %q, want true \"32\"", ok, resp)
	}
}

func TestProber_System(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.write("proc/meminfo", "MemTotal:        1024000 kB\nMemFree:  12345 kB\n")
	fs.write("sys/class/net/eth0/address", "aa:bb:cc:dd:ee:ff\n")
	p := NewProberAt(fs.root, "eth0")

	ok, resp := p.Check(queryFrame(t, protocol.GroupSystem, 0))
	if !ok || string(resp) != "1000" {
		t.Fatalf("memory check = %v %q, want true \"1000\"", ok, resp)
	}

	ok, resp = p.Check(queryFrame(t, protocol.GroupSystem, 1))
	if !ok || string(resp) != "OK" {
		t.Fatalf("mac check = %v %q", ok, resp)
	}
}

func TestProber_UnprobeableCategoriesFail(t *testing.T) {
	p := NewProberAt(t.TempDir(), "eth0")

	for _, g := range []protocol.Group{
		protocol.GroupADC, protocol.GroupHeader, protocol.GroupLED, protocol.GroupIR,
	} {
		ok, resp := p.Check(queryFrame(t, g, 0))
		if ok || string(resp) != "NG" {
			t.Fatalf("%s check = %v %q, want false NG", g.Name(), ok, resp)
		}
	}
}

func TestProber_EmptyTreeFailsEverything(t *testing.T) {
	p := NewProberAt(t.TempDir(), "eth0")
	if err := p.Setup(); err != nil {
		t.Fatalf("Setup must not fail on a bare tree: %v", err)
	}

	ok, _ := p.Check(queryFrame(t, protocol.GroupEthernet, 1))
	if ok {
		t.Fatal("ethernet passed with no probe surface")
	}
	ok, _ = p.Check(queryFrame(t, protocol.GroupUSB, 0))
	if ok {
		t.Fatal("usb passed with no probe surface")
	}
}

func TestProber_MalformedFrame(t *testing.T) {
	p := NewProberAt(t.TempDir(), "eth0")
	ok, resp := p.Check([]byte("garbage"))
	if ok || string(resp) != "NG" {
		t.Fatalf("malformed frame = %v %q", ok, resp)
	}
}

func TestStub_ProgrammedAndUnprogrammed(t *testing.T) {
	s := NewStub()
	s.Program(protocol.GroupUSB, 0, true, "3")

	ok, resp := s.Check(queryFrame(t, protocol.GroupUSB, 0))
	if !ok || string(resp) != "3" {
		t.Fatalf("programmed check = %v %q", ok, resp)
	}

	ok, resp = s.Check(queryFrame(t, protocol.GroupUSB, 1))
	if ok || string(resp) != "NG" {
		t.Fatalf("unprogrammed check = %v %q", ok, resp)
	}
}

func TestClampResp(t *testing.T) {
	if got := string(clampResp("1234567890")); got != "123456" {
		t.Fatalf("clampResp = %q", got)
	}
	if got := string(clampResp("OK")); got != "OK" {
		t.Fatalf("clampResp = %q", got)
	}
}
