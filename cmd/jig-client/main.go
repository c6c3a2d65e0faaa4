package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/benchworks/jig-client/internal/announce"
	"github.com/benchworks/jig-client/internal/api"
	"github.com/benchworks/jig-client/internal/client"
	"github.com/benchworks/jig-client/internal/config"
	"github.com/benchworks/jig-client/internal/device"
	"github.com/benchworks/jig-client/internal/doctor"
	"github.com/benchworks/jig-client/internal/journal"
	"github.com/benchworks/jig-client/internal/lock"
	"github.com/benchworks/jig-client/internal/log"
	"github.com/benchworks/jig-client/internal/protocol"
	"github.com/benchworks/jig-client/internal/tui/watch"
	"github.com/benchworks/jig-client/internal/ui"
)

const version = "0.2.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "start":
		os.Exit(runStart(args))
	case "config":
		os.Exit(runConfigNoun(args))
	case "watch":
		os.Exit(runWatch(args))
	case "doctor": // alias for config check
		os.Exit(runConfigCheck(args))
	case "version":
		fmt.Printf("jig-client version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`jig-client - production-test client for the board under test

Usage:
  jig-client <command> [flags]

Commands:
  start             Run the test client in foreground
  config check      Validate the configuration (alias: doctor)
  config lock       Authorize the current configuration (update checksums)
  watch             Operator dashboard against a running client's status API
  version           Show version information
  help              Show this help message

Start flags:
  --config PATH     Configuration file (default ./jig.yaml)
  --stub            Use the scriptable stub checker instead of hardware probes
`)
}

func runConfigNoun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: jig-client config <check|lock> [flags]")
		return 1
	}
	switch args[0] {
	case "check":
		return runConfigCheck(args[1:])
	case "lock":
		return runConfigLock(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", args[0])
		return 1
	}
}

func runConfigCheck(args []string) int {
	fs := flag.NewFlagSet("config check", flag.ExitOnError)
	configPath := fs.String("config", "./jig.yaml", "path to configuration file")
	asJSON := fs.Bool("json", false, "emit the report as JSON")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		return 1
	}

	result := doctor.New(cfg).Validate()

	if *asJSON {
		_ = json.NewEncoder(os.Stdout).Encode(result)
	} else {
		for _, e := range result.Errors {
			fmt.Printf("ERROR   [%s] %s: %s\n", e.Category, e.Field, e.Message)
		}
		for _, w := range result.Warnings {
			fmt.Printf("WARNING [%s] %s: %s\n", w.Category, w.Field, w.Message)
		}
		if result.Valid {
			fmt.Printf("configuration OK (%d items, %d warnings)\n",
				len(cfg.Display.Items), len(result.Warnings))
		}
	}

	if !result.Valid {
		return 1
	}
	return 0
}

func runConfigLock(args []string) int {
	fs := flag.NewFlagSet("config lock", flag.ExitOnError)
	configPath := fs.String("config", "./jig.yaml", "path to configuration file")
	_ = fs.Parse(args)

	path, err := config.Lock(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config lock failed: %v\n", err)
		return 1
	}
	fmt.Printf("wrote %s\n", path)
	return 0
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	apiURL := fs.String("api", "http://127.0.0.1:8091", "status API base URL of a running client")
	_ = fs.Parse(args)

	if err := watch.Run(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "watch failed: %v\n", err)
		return 1
	}
	return 0
}

func runStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	configPath := fs.String("config", "./jig.yaml", "path to configuration file")
	useStub := fs.Bool("stub", false, "use the stub checker (bench mode, no hardware)")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		return 1
	}

	log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat)
	logger := log.WithComponent("main")

	pidLock, err := lock.Acquire(cfg.Service.LockPath)
	if err != nil {
		logger.Error("single-instance lock failed", "error", err)
		return 1
	}
	defer pidLock.Release()

	items, err := ui.ItemsFromConfig(cfg.Display.Items)
	if err != nil {
		logger.Error("item table invalid", "error", err)
		return 1
	}

	// Display unavailable is fatal: a test client nobody can read is useless.
	panel, err := ui.NewPanel(cfg.Service.Name, cfg.Display.Columns, items, os.Stdout)
	if err != nil {
		logger.Error("display init failed", "error", err)
		return 1
	}

	checker := buildChecker(*useStub, cfg, items)
	if err := checker.Setup(); err != nil {
		logger.Error("device check setup failed", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []client.Option

	board, err := device.MACAddr(cfg.Announce.Interface)
	if err != nil {
		logger.Warn("board identity unavailable", "interface", cfg.Announce.Interface, "error", err)
	} else {
		opts = append(opts, client.WithBoard(board))
	}

	var jnl *journal.Journal
	if cfg.Journal.Path != "" {
		jnl, err = journal.Open(ctx, cfg.Journal.Path)
		if err != nil {
			logger.Warn("result journal unavailable, continuing without", "error", err)
		} else {
			defer jnl.Close()
			opts = append(opts, client.WithJournal(jnl))
		}
	}

	c := client.New(client.Config{
		LoopDelay:     cfg.Service.LoopDelay.Std(),
		AliveInterval: cfg.Service.AliveInterval.Std(),
		AliveUIID:     cfg.Service.AliveUIID,
	}, items, panel, checker, opts...)

	if cfg.API.Enabled {
		srv := api.New(api.Config{Listen: cfg.API.Listen}, c, jnl, log.Get())
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.Error("status API failed", "error", err)
			}
		}()
	}

	logger.Info("starting init sweep", "items", len(items))
	if err := c.InitSweep(ctx); err != nil {
		logger.Error("init sweep failed", "error", err)
		return 1
	}

	if cfg.Announce.Enabled && board != "" {
		ann := announce.New(announce.Config{
			Endpoint: cfg.Announce.Endpoint,
			Timeout:  cfg.Announce.Timeout.Std(),
		})
		if ann.TryInit() {
			ann.Announce(announce.KindMAC, board, cfg.Announce.Channel)
		}
	}

	if err := c.Run(ctx); err != nil {
		logger.Error("dispatch loop failed", "error", err)
		return 1
	}
	return 0
}

// buildChecker picks the hardware prober, or a stub programmed to pass every
// configured item when running off-board.
func buildChecker(useStub bool, cfg *config.Config, items []ui.Item) device.Checker {
	if !useStub {
		return device.NewProber(cfg.Announce.Interface)
	}

	stub := device.NewStub()
	for _, it := range items {
		if protocol.ModeFor(it.Group, it.Dev) == protocol.FormatRaw {
			stub.Program(it.Group, it.Dev, true, "OK")
		} else {
			stub.Program(it.Group, it.Dev, true, "1")
		}
	}
	return stub
}
