package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/lifeos/internal/app"
	"github.com/nhle/lifeos/internal/credential"
	"github.com/nhle/lifeos/internal/model"
	"github.com/nhle/lifeos/internal/source/bitable"
	"github.com/nhle/lifeos/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	dataPath := flag.String("data", model.DefaultDataPath(), "path to the local cache database")
	baseURL := flag.String("base-url", bitable.DefaultBaseURL, "table backend base URL")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	creds, err := credential.OpenSystem()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening keyring: %v\n", err)
		os.Exit(1)
	}

	// The cache is optional; the app runs fully remote without it.
	snapshot, err := store.NewSnapshotStore(*dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: local cache unavailable: %v\n", err)
		snapshot = nil
	}
	if snapshot != nil {
		defer snapshot.Close()
	}

	root := app.New(app.Options{
		Config:     cfg,
		ConfigPath: *configPath,
		Creds:      creds,
		Snapshot:   snapshot,
		BaseURL:    *baseURL,
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
