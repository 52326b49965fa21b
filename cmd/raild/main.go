// Command raild hosts composite power rails from a YAML configuration.
//
// Each configured rail is registered with the controller and powered
// according to its boot policy. Supplies are backed by simulated switches
// in simulation mode (the default), which makes raild usable as a
// development and demonstration host without real hardware.
//
// Usage:
//
//	raild -config <file> [flags]
//
// Flags:
//
//	-config string      Rail configuration file (required)
//	-state string       State file for persistence (empty disables)
//	-restore            Re-apply persisted rail states at startup
//	-capture string     Power event capture file (.plog, empty disables)
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-interactive        Run the interactive shell
//	-mdns               Advertise the controller over mDNS (default true)
//	-port int           Advertised port (default 9465)
//	-instance string    Advertised instance name (default hostname)
//	-version            Print the version and exit
//
// Examples:
//
//	# Host the rails from railseq.yaml with persistence and restore
//	raild -config railseq.yaml -state /var/lib/raild/state.json -restore
//
//	# Interactive session with event capture
//	raild -config railseq.yaml -capture power.plog -interactive -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/railseq/railseq-go/cmd/raild/interactive"
	"github.com/railseq/railseq-go/pkg/config"
	"github.com/railseq/railseq-go/pkg/controller"
	"github.com/railseq/railseq-go/pkg/discovery"
	"github.com/railseq/railseq-go/pkg/log"
	"github.com/railseq/railseq-go/pkg/persistence"
	"github.com/railseq/railseq-go/pkg/version"
)

var opts struct {
	ConfigFile  string
	StateFile   string
	Restore     bool
	CaptureFile string
	LogLevel    string
	Interactive bool
	MDNS        bool
	Port        int
	Instance    string
	Version     bool
}

func init() {
	flag.StringVar(&opts.ConfigFile, "config", "", "Rail configuration file (required)")
	flag.StringVar(&opts.StateFile, "state", "", "State file for persistence (empty disables)")
	flag.BoolVar(&opts.Restore, "restore", false, "Re-apply persisted rail states at startup")
	flag.StringVar(&opts.CaptureFile, "capture", "", "Power event capture file (empty disables)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&opts.Interactive, "interactive", false, "Run the interactive shell")
	flag.BoolVar(&opts.MDNS, "mdns", true, "Advertise the controller over mDNS")
	flag.IntVar(&opts.Port, "port", discovery.DefaultPort, "Advertised port")
	flag.StringVar(&opts.Instance, "instance", "", "Advertised instance name (default hostname)")
	flag.BoolVar(&opts.Version, "version", false, "Print the version and exit")
}

func main() {
	flag.Parse()

	if opts.Version {
		fmt.Println("raild", version.String())
		return
	}

	logger := setupLogging(opts.LogLevel)

	if opts.ConfigFile == "" {
		fmt.Fprintln(os.Stderr, "raild: -config is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		logger.Error("cannot load configuration", "file", opts.ConfigFile, "err", err)
		os.Exit(1)
	}
	logger.Info("configuration loaded", "file", opts.ConfigFile, "rails", len(cfg.Rails))

	capture, closeCapture, err := setupCapture(logger)
	if err != nil {
		logger.Error("cannot open capture file", "file", opts.CaptureFile, "err", err)
		os.Exit(1)
	}
	defer closeCapture()

	var store *persistence.StateStore
	if opts.StateFile != "" {
		store = persistence.NewStateStore(opts.StateFile)
	}

	registry := buildRegistry(cfg, logger)

	ctrl := controller.New(registry, controller.Options{
		Logger:  logger,
		Capture: capture,
		Store:   store,
		Restore: opts.Restore,
	})

	for _, rail := range cfg.Rails {
		if err := ctrl.Register(rail); err != nil {
			logger.Error("cannot register rail", "rail", rail.Name, "err", err)
			os.Exit(1)
		}
	}

	advertiser := setupDiscovery(ctrl, logger)
	if advertiser != nil {
		defer advertiser.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if opts.Interactive {
		shell, err := interactive.New(ctrl, registry)
		if err != nil {
			logger.Error("cannot start interactive shell", "err", err)
			os.Exit(1)
		}
		go shell.Run(ctx, cancel)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	ctrl.Shutdown()
}

// setupLogging configures the default slog logger for the chosen level.
func setupLogging(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// setupCapture builds the power event capture chain from the flags.
func setupCapture(logger *slog.Logger) (log.Logger, func(), error) {
	loggers := []log.Logger{}

	if opts.LogLevel == "debug" {
		loggers = append(loggers, log.NewSlogAdapter(logger))
	}

	closeFn := func() {}
	if opts.CaptureFile != "" {
		fl, err := log.NewFileLogger(opts.CaptureFile)
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, fl)
		closeFn = func() { _ = fl.Close() }
	}

	switch len(loggers) {
	case 0:
		return log.NoopLogger{}, closeFn, nil
	case 1:
		return loggers[0], closeFn, nil
	default:
		return log.NewMultiLogger(loggers...), closeFn, nil
	}
}

// setupDiscovery starts mDNS advertising and keeps the TXT records fresh.
func setupDiscovery(ctrl *controller.Controller, logger *slog.Logger) *discovery.Advertiser {
	if !opts.MDNS {
		return nil
	}

	instance := opts.Instance
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "raild"
		}
		instance = hostname
	}

	advertiser := discovery.NewAdvertiser(discovery.DefaultConfig())
	info := &discovery.Info{
		Instance:     instance,
		Port:         opts.Port,
		RailCount:    len(ctrl.Names()),
		EnabledCount: ctrl.EnabledCount(),
	}
	if err := advertiser.Advertise(info); err != nil {
		logger.Warn("mDNS advertising unavailable", "err", err)
		return nil
	}
	logger.Info("advertising controller", "instance", instance, "port", info.Port)

	// The event callback runs under the transitioning rail's lock, so the
	// refresh (which queries the controller) happens on its own goroutine.
	ctrl.OnEvent(func(controller.Event) {
		go func() {
			err := advertiser.Update(&discovery.Info{
				Instance:     instance,
				Port:         opts.Port,
				RailCount:    len(ctrl.Names()),
				EnabledCount: ctrl.EnabledCount(),
			})
			if err != nil {
				logger.Debug("cannot update advertisement", "err", err)
			}
		}()
	})
	return advertiser
}
