package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/jhalter/nymchat/internal"
	"github.com/muesli/termenv"
)

// Values swapped in by go-releaser at build time
var (
	version = "dev"
)

var logLevels = map[string]log.Level{
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
}

func main() {
	configPath := flag.String("config", defaultConfigPath(), "Path to config file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info)")

	flag.Parse()

	// init DebugBuffer
	db := &internal.DebugBuffer{}

	logHandler := log.New(db)

	// Force color output for logger.
	// By default, the charm logger package disables color for non-TTY.
	logHandler.SetColorProfile(termenv.TrueColor)
	logHandler.SetLevel(logLevels[*logLevel])

	logger := slog.New(logHandler)
	logger.Info("Started nymchat", "Version", version)

	prefs, err := internal.ReadSettings(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		prefs, err = internal.RunSetup(*configPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unable to load config %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	nym := prefs.Nym
	if nym == "" {
		nym = internal.RandomNym()
	}

	engine, err := internal.NewEngine(prefs, nym, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fragment := internal.NewFragment(prefs.FragmentPath(), logger)

	model := internal.NewModel(*configPath, prefs, engine, fragment, logger, db)
	if err := model.Start(); err != nil {
		logger.Error("Application error", "err", err)
		os.Exit(1)
	}
}

func defaultConfigPath() (cfgPath string) {
	switch runtime.GOOS {
	case "windows":
		cfgPath = "nymchat-config.yaml"
	case "darwin", "linux":
		if dir, err := os.UserConfigDir(); err == nil {
			cfgPath = filepath.Join(dir, "nymchat", "nymchat-config.yaml")
		} else {
			cfgPath = "nymchat-config.yaml"
		}
	default:
		fmt.Printf("unsupported OS")
		os.Exit(1)
	}

	return cfgPath
}
