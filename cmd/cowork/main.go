package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/coworkhq/cowork/internal/api"
	"github.com/coworkhq/cowork/internal/auth"
	"github.com/coworkhq/cowork/internal/config"
	"github.com/coworkhq/cowork/internal/session"
	"github.com/coworkhq/cowork/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("cowork %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	// Open the durable session slot
	store, err := session.Open(cfg.SessionPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Wire the gateway; the relay bridges its events onto the UI loop
	// once the program is running.
	relay := ui.NewRelay()
	baseURL := strings.TrimRight(cfg.ServerURL, "/") + "/api"
	client := api.New(baseURL, store, relay)
	life := auth.NewLifecycle(client, store)

	app := ui.NewApp(client, life)
	p := tea.NewProgram(app, tea.WithAltScreen())
	relay.Attach(p)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends logs to a file; stdout belongs to the TUI
func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(f)
}
