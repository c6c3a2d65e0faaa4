package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "jig.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
service:
  name: "bench-7"
display:
  items:
    - ui_id: 0
      group: ethernet
      dev: 1
      label: "LINK"
`

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), minimalConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}

	if cfg.Service.Name != "bench-7" {
		t.Errorf("name = %q", cfg.Service.Name)
	}
	if cfg.Service.LogLevel != "info" {
		t.Errorf("log_level default = %q, want info", cfg.Service.LogLevel)
	}
	if cfg.Service.LoopDelay.Std() != 500*time.Microsecond {
		t.Errorf("loop_delay default = %v", cfg.Service.LoopDelay.Std())
	}
	if cfg.Service.AliveInterval.Std() != 1000*time.Millisecond {
		t.Errorf("alive_interval default = %v", cfg.Service.AliveInterval.Std())
	}
	if cfg.Display.Columns != 4 {
		t.Errorf("columns default = %d", cfg.Display.Columns)
	}
	if cfg.Announce.Interface != "eth0" {
		t.Errorf("interface default = %q", cfg.Announce.Interface)
	}
	if cfg.API.Listen != "127.0.0.1:8091" {
		t.Errorf("api listen default = %q", cfg.API.Listen)
	}
}

func TestLoad_DurationStrings(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
service:
  loop_delay: 2ms
  alive_interval: 500ms
display:
  items:
    - ui_id: 0
      group: usb
      dev: 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Service.LoopDelay.Std() != 2*time.Millisecond {
		t.Errorf("loop_delay = %v", cfg.Service.LoopDelay.Std())
	}
	if cfg.Service.AliveInterval.Std() != 500*time.Millisecond {
		t.Errorf("alive_interval = %v", cfg.Service.AliveInterval.Std())
	}
}

func TestLoad_EnvInterpolation(t *testing.T) {
	t.Setenv("JIG_BENCH_NAME", "bench-42")

	path := writeConfig(t, t.TempDir(), `
service:
  name: "${JIG_BENCH_NAME}"
display:
  items:
    - ui_id: 0
      group: hdmi
      dev: 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Service.Name != "bench-42" {
		t.Errorf("name = %q, want bench-42", cfg.Service.Name)
	}
}

func TestLoad_UndefinedEnvVarLeftAsIs(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
service:
  name: "${JIG_UNDEFINED_VAR_FOR_TEST}"
display:
  items:
    - ui_id: 0
      group: hdmi
      dev: 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Service.Name != "${JIG_UNDEFINED_VAR_FOR_TEST}" {
		t.Errorf("name = %q, want the literal placeholder", cfg.Service.Name)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "no items",
			content: `
service:
  name: x
display:
  items: []
`,
			wantErr: "at least one test item",
		},
		{
			name: "duplicate ui_id",
			content: `
display:
  items:
    - ui_id: 3
      group: usb
      dev: 0
    - ui_id: 3
      group: hdmi
      dev: 0
`,
			wantErr: "already used",
		},
		{
			name: "unknown group",
			content: `
display:
  items:
    - ui_id: 0
      group: floppy
      dev: 0
`,
			wantErr: "unknown group",
		},
		{
			name: "negative ui_id",
			content: `
display:
  items:
    - ui_id: -1
      group: usb
      dev: 0
`,
			wantErr: "must not be negative",
		},
		{
			name: "bad log level",
			content: `
service:
  log_level: verbose
display:
  items:
    - ui_id: 0
      group: usb
      dev: 0
`,
			wantErr: "log_level",
		},
		{
			name: "announce enabled without endpoint",
			content: `
display:
  items:
    - ui_id: 0
      group: usb
      dev: 0
announce:
  enabled: true
`,
			wantErr: "announce.endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load accepted an invalid configuration")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoad_OversizedItemIdentifiersAreNotFatal(t *testing.T) {
	// Frame-range overflows stay loadable; the dispatch loop paints them
	// "n/a" and doctor reports them.
	path := writeConfig(t, t.TempDir(), `
display:
  items:
    - ui_id: 10000
      group: usb
      dev: 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Display.Items[0].UIID != 10000 {
		t.Fatalf("ui_id = %d", cfg.Display.Items[0].UIID)
	}
}
