package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"golang.org/x/term"

	"cmdk/client"
	"cmdk/protocol"
	"cmdk/store"
	"cmdk/tui"
)

var errColor = color.New(color.FgRed, color.Bold)

func fail(format string, args ...any) {
	errColor.Fprintf(os.Stderr, "Error: ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintln(os.Stderr, "Usage: cmdk [URL]")
		fmt.Fprintln(os.Stderr, "Example: cmdk https://example.com/cmdk")
		os.Exit(1)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fail("cmdk needs an interactive terminal")
	}

	dir, err := configDir()
	if err != nil {
		fail("locating config directory: %v", err)
	}
	configPath := os.Getenv("CMDK_CONFIG")
	if configPath == "" {
		configPath = filepath.Join(dir, "config.yaml")
	}
	cfg, err := loadConfig(configPath, dir)
	if err != nil {
		fail("%v", err)
	}
	if err := applyEnv(&cfg, os.Getenv); err != nil {
		fail("%v", err)
	}

	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "cmdk")
		if err != nil {
			fail("opening log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	db, err := store.Open(cfg.DB)
	if err != nil {
		fail("opening database: %v", err)
	}
	creds := store.NewCredentials(db)

	env := &tui.Env{
		Client:        client.New(creds, client.Options{Timeout: cfg.Timeout, Insecure: cfg.Insecure}),
		Creds:         creds,
		History:       store.NewHistory(db),
		Host:          tui.SystemHost{},
		MaxChainDepth: cfg.MaxChainDepth,
		QueryDebounce: cfg.QueryDebounce,
		ToastDuration: 4 * time.Second,
	}

	var root tui.Screen
	if len(os.Args) == 2 {
		u, err := protocol.NormalizeURL(os.Args[1])
		if err != nil {
			fail("invalid URL %q: %v", os.Args[1], err)
		}
		root = tui.NewPage(env, u, tui.PageOptions{})
	} else {
		root = tui.NewLauncher(env)
	}

	log.Printf("cmdk: starting (db %s)", db.Path())
	p := tea.NewProgram(tui.NewNavigator(env, root), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fail("%v", err)
	}
}
