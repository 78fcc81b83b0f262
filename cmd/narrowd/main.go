// Package main is the entry point for the narrowd LSP sidecar.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dshills/narrowd/internal/config"
	"github.com/dshills/narrowd/internal/lsp"
	"github.com/dshills/narrowd/internal/plugin"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var logPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&logPath, "log", "", "Path to log file (overrides configuration)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "narrowd - narrowing LSP server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: narrowd [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("narrowd %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading configuration: %v\n", err)
		return 1
	}

	// stdout carries the protocol; logs go to stderr or the configured
	// file only.
	if logPath == "" {
		logPath = cfg.LogFile
	}
	if logPath != "" {
		commonlog.Configure(cfg.Verbosity, &logPath)
	} else {
		commonlog.Configure(cfg.Verbosity, nil)
	}
	log := commonlog.GetLogger("narrowd")

	opts := []lsp.Option{}
	if cfg.HookScript != "" {
		hooks, err := plugin.Load(cfg.HookScript)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading hook script: %v\n", err)
			return 1
		}
		defer hooks.Close()
		opts = append(opts, lsp.WithNotifier(hooks))
	}

	server := lsp.New(cfg, opts...)

	// Live-reload the configuration file if one was given.
	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, func(next *config.Config) {
			server.SetConfig(next)
		})
		if err != nil {
			log.Warningf("config watching disabled: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	log.Infof("starting narrowd %s", version)
	if err := server.RunStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
