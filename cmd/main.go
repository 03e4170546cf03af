// Automator input bridge
// Serves mouse and keyboard commands to the automator UI over HTTP and WebSocket
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"automator/internal/api"
	"automator/internal/autostart"
	"automator/internal/client"
	"automator/internal/config"
	"automator/internal/input"
	"automator/internal/osutils"
	"automator/internal/tray"
)

var (
	version    = "0.1.0"
	showVer    = flag.Bool("version", false, "Show version")
	configPath = flag.String("config", "", "Path to config file (default: user config dir)")
	bindAddr   = flag.String("addr", "", "Override the bind address")
	port       = flag.Int("port", 0, "Override the listening port")
	token      = flag.String("token", "", "Override the API token")
	trace      = flag.Bool("trace", false, "Log every input step")
	headless   = flag.Bool("headless", false, "Run without the tray icon")
	invoke     = flag.String("invoke", "", "Invoke a command on a running bridge and print the result")
	payload    = flag.String("payload", "", "JSON payload for -invoke")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("automator-bridge version %s\n", version)
		return
	}

	// Initialize config
	var cfgMgr *config.Manager
	if *configPath != "" {
		cfgMgr = config.NewManagerAt(*configPath)
	} else {
		var err error
		cfgMgr, err = config.NewManager()
		if err != nil {
			log.Fatalf("Failed to initialize config: %v", err)
		}
	}
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Warning: failed to load config: %v", err)
	}
	if err := applyFlags(cfgMgr); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Handle --invoke flag
	if *invoke != "" {
		os.Exit(runInvoke(cfgMgr, *invoke, *payload))
	}

	// Default: run as background service
	runService(cfgMgr)
}

// applyFlags layers command-line overrides on top of the loaded config
// for this session only. Save never writes them.
func applyFlags(cfgMgr *config.Manager) error {
	addr, p, tok, tr, hl := *bindAddr, *port, *token, *trace, *headless
	cfgMgr.Override(func(cfg *config.Config) {
		if addr != "" {
			cfg.Server.BindAddr = addr
		}
		if p != 0 {
			cfg.Server.Port = p
		}
		if tok != "" {
			cfg.Server.Token = tok
		}
		if tr {
			cfg.Input.Trace = true
		}
		if hl {
			cfg.General.ShowTray = false
		}
	})
	cfg := cfgMgr.Get()
	return cfg.Validate()
}

func runInvoke(cfgMgr *config.Manager, command, raw string) int {
	cfg := cfgMgr.Get()

	var body any
	if raw != "" {
		if !json.Valid([]byte(raw)) {
			log.Printf("Invalid -payload: not JSON")
			return 2
		}
		body = json.RawMessage(raw)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := client.Dial(ctx, cfg.Server.Addr(), cfg.Server.Token)
	if err != nil {
		log.Printf("Failed to connect: %v", err)
		return 1
	}
	defer c.Close()

	res, err := c.Invoke(ctx, command, body)
	if err != nil {
		log.Printf("Invoke %s failed: %v", command, err)
		return 1
	}

	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
	if !res.OK {
		return 1
	}
	return 0
}

func runService(cfgMgr *config.Manager) {
	log.Println("Automator input bridge starting...")
	cfg := cfgMgr.Get()

	if err := autostart.Apply(cfg.General.StartOnBoot); err != nil {
		log.Printf("Warning: failed to update auto-start: %v", err)
	}

	backend, err := input.NewBackend()
	if err != nil {
		log.Fatalf("Failed to initialize input backend: %v", err)
	}

	var opts []input.Option
	if cfg.Input.Trace {
		opts = append(opts, input.WithTracer(input.LogTracer{}))
	}
	dispatcher := input.NewDispatcher(backend, backend, opts...)

	// Check administrator privileges on Windows
	if runtime.GOOS == "windows" && !osutils.IsAdmin() {
		log.Println("Note: Input cannot reach elevated windows without administrator privileges")
	}

	if !cfg.Server.IsLoopback() {
		go func() {
			switch err := osutils.EnsureFirewallRule(cfg.Server); {
			case err == nil:
			case errors.Is(err, osutils.ErrElevationRequested):
				log.Println("Firewall: UAC prompt requested to open the command port. Please check your taskbar.")
			case errors.Is(err, osutils.ErrUnsupported):
				log.Printf("Firewall: Listening on %s; open the port in the system firewall if clients cannot connect", cfg.Server.Addr())
			default:
				log.Printf("Firewall warning: %v", err)
			}
		}()
	}

	apiServer := api.NewServer(cfgMgr, dispatcher)
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Fatalf("API server error: %v", err)
		}
	}()

	shutdown := func() {
		log.Println("Shutting down...")
		if err := dispatcher.ReleaseModifiers(); err != nil {
			log.Printf("Warning: failed to release modifiers: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(ctx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if !cfg.General.ShowTray {
		<-sigCh
		shutdown()
		return
	}

	t := tray.New("Automator", "Automator input bridge")
	t.AddStatus(fmt.Sprintf("Listening on %s", cfg.Server.Addr()))
	t.AddSeparator()
	t.AddMenuItem("Release Modifier Keys", func() {
		if err := dispatcher.ReleaseModifiers(); err != nil {
			log.Printf("Failed to release modifiers: %v", err)
		}
	})
	bootID := t.AddMenuItem("Start on Login", nil)
	t.SetItemChecked(bootID, cfg.General.StartOnBoot)
	t.AddSeparator()
	t.AddMenuItem("Quit", t.Stop)

	// Replace the placeholder so the callback can capture its own ID
	t.SetCallback(bootID, func() {
		enabled := !cfgMgr.Get().General.StartOnBoot
		if err := autostart.Apply(enabled); err != nil {
			log.Printf("Failed to update auto-start: %v", err)
			return
		}
		cfgMgr.Update(func(c *config.Config) { c.General.StartOnBoot = enabled })
		if err := cfgMgr.Save(); err != nil {
			log.Printf("Failed to save config: %v", err)
		}
		t.SetItemChecked(bootID, enabled)
	})

	go func() {
		<-sigCh
		t.Stop()
	}()

	t.Run()
	shutdown()
}
