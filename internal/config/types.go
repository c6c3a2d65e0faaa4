package config

import "time"

// Config is the complete jig-client configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Display  DisplayConfig  `yaml:"display"`
	Announce AnnounceConfig `yaml:"announce,omitempty"`
	Journal  JournalConfig  `yaml:"journal,omitempty"`
	API      APIConfig      `yaml:"api,omitempty"`
}

// ServiceConfig defines core client settings.
type ServiceConfig struct {
	Name          string   `yaml:"name"`
	LogLevel      string   `yaml:"log_level"`
	LogFormat     string   `yaml:"log_format"`
	LoopDelay     Duration `yaml:"loop_delay"`
	AliveInterval Duration `yaml:"alive_interval"`
	AliveUIID     int      `yaml:"alive_ui_id"`
	LockPath      string   `yaml:"lock_path"`
}

// DisplayConfig defines the test-item table shown on the attached display.
type DisplayConfig struct {
	Columns int          `yaml:"columns"`
	Items   []ItemConfig `yaml:"items"`
}

// ItemConfig binds one diagnostic check to one display slot.
type ItemConfig struct {
	UIID  int    `yaml:"ui_id"`
	Group string `yaml:"group"`
	Dev   int    `yaml:"dev"`
	Label string `yaml:"label"`
	Info  bool   `yaml:"info,omitempty"`
}

// AnnounceConfig defines the network label-printer announcement.
type AnnounceConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Endpoint  string   `yaml:"endpoint"`
	Channel   int      `yaml:"channel,omitempty"`
	Interface string   `yaml:"interface"`
	Timeout   Duration `yaml:"timeout,omitempty"`
}

// JournalConfig defines the local result-journal database.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// APIConfig defines the optional status HTTP server.
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Defaults returns a Config with the stock fixture settings.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:          "jig-client",
			LogLevel:      "info",
			LogFormat:     "text",
			LoopDelay:     Duration(500 * time.Microsecond),
			AliveInterval: Duration(1000 * time.Millisecond),
			AliveUIID:     0,
			LockPath:      "./data/jig-client.pid",
		},
		Display: DisplayConfig{
			Columns: 4,
		},
		Announce: AnnounceConfig{
			Enabled:   false,
			Channel:   0,
			Interface: "eth0",
			Timeout:   Duration(2 * time.Second),
		},
		Journal: JournalConfig{
			Path: "./data/results.db",
		},
		API: APIConfig{
			Enabled: false,
			Listen:  "127.0.0.1:8091",
		},
	}
}

// ChecksumManifest is the .checksums file format.
type ChecksumManifest struct {
	Version     int               `yaml:"version"`
	GeneratedAt string            `yaml:"generated_at"`
	Hashes      map[string]string `yaml:"hashes"`
}
