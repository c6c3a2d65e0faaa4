package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/benchworks/jig-client/internal/protocol"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads, interpolates, verifies, and validates a configuration file.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: check the path or run with --config", absPath)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(interpolateEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	// An item table that does not match its recorded checksum must not be
	// used to pass boards on a production line.
	if err := verifyConfigHash(absPath); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// interpolateEnv replaces ${VAR} with environment variable values.
// Undefined variables are left as-is (caught by validation if required).
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}

// applyDefaults merges default values into cfg where not explicitly set.
func applyDefaults(cfg *Config) {
	defaults := Defaults()

	if cfg.Service.Name == "" {
		cfg.Service.Name = defaults.Service.Name
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = defaults.Service.LogLevel
	}
	if cfg.Service.LogFormat == "" {
		cfg.Service.LogFormat = defaults.Service.LogFormat
	}
	if cfg.Service.LoopDelay == 0 {
		cfg.Service.LoopDelay = defaults.Service.LoopDelay
	}
	if cfg.Service.AliveInterval == 0 {
		cfg.Service.AliveInterval = defaults.Service.AliveInterval
	}
	if cfg.Service.LockPath == "" {
		cfg.Service.LockPath = defaults.Service.LockPath
	}
	if cfg.Display.Columns == 0 {
		cfg.Display.Columns = defaults.Display.Columns
	}
	if cfg.Announce.Interface == "" {
		cfg.Announce.Interface = defaults.Announce.Interface
	}
	if cfg.Announce.Timeout == 0 {
		cfg.Announce.Timeout = defaults.Announce.Timeout
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = defaults.Journal.Path
	}
	if cfg.API.Listen == "" {
		cfg.API.Listen = defaults.API.Listen
	}
}

// validate performs the hard structural checks. Range problems on item
// identifiers are deliberately NOT fatal here: the dispatch loop rejects the
// offending frame and marks the slot "n/a", and doctor surfaces them offline.
func validate(cfg *Config) error {
	if cfg.Service.LoopDelay <= 0 {
		return fmt.Errorf("service.loop_delay must be positive")
	}
	if cfg.Service.AliveInterval <= 0 {
		return fmt.Errorf("service.alive_interval must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Service.LogLevel] {
		return fmt.Errorf("service.log_level must be one of: debug, info, warn, error (got %q)", cfg.Service.LogLevel)
	}

	if len(cfg.Display.Items) == 0 {
		return fmt.Errorf("display.items must list at least one test item")
	}

	seen := make(map[int]int)
	for i, item := range cfg.Display.Items {
		if item.UIID < 0 {
			return fmt.Errorf("display.items[%d].ui_id must not be negative", i)
		}
		if prev, dup := seen[item.UIID]; dup {
			return fmt.Errorf("display.items[%d]: ui_id %d already used by items[%d]", i, item.UIID, prev)
		}
		seen[item.UIID] = i

		if _, ok := protocol.GroupFromName(item.Group); !ok {
			return fmt.Errorf("display.items[%d]: unknown group %q", i, item.Group)
		}
	}

	if cfg.Announce.Enabled && cfg.Announce.Endpoint == "" {
		return fmt.Errorf("announce.endpoint is required when announce is enabled")
	}
	if cfg.API.Enabled && cfg.API.Listen == "" {
		return fmt.Errorf("api.listen is required when the API is enabled")
	}

	return nil
}

// verifyConfigHash checks the config file against the .checksums manifest in
// its directory. A missing manifest skips verification; a stale one fails.
func verifyConfigHash(absPath string) error {
	dir := filepath.Dir(absPath)
	manifest, err := LoadChecksums(dir)
	if err != nil {
		// No manifest: integrity locking not in use.
		return nil
	}

	basename := filepath.Base(absPath)
	expected, ok := manifest.Hashes[basename]
	if !ok {
		return fmt.Errorf("config file %s has no hash in checksums\n"+
			"Run: jig-client config lock --config %s", basename, absPath)
	}

	if err := VerifyFileHash(absPath, expected); err != nil {
		return fmt.Errorf("config verification failed: %w\n"+
			"If you edited this file intentionally, run: jig-client config lock --config %s", err, absPath)
	}
	return nil
}
