package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/app"
	"taskdeck/internal/credential"
	"taskdeck/internal/model"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
	appsync "taskdeck/internal/sync"
)

func main() {
	configFlag := flag.String("config", "", "config file path")
	serverFlag := flag.String("server", "", "API base URL")
	noCacheFlag := flag.Bool("no-cache", false, "disable the offline cache")
	flag.Parse()

	cfgPath := *configFlag
	if cfgPath == "" {
		cfgPath = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	// Write the defaults on first run so the file is there to edit.
	if _, statErr := os.Stat(cfgPath); os.IsNotExist(statErr) {
		if werr := model.SaveConfig(cfgPath, cfg); werr != nil {
			log.Printf("could not write default config: %v", werr)
		}
	}

	if *serverFlag != "" {
		cfg.API.BaseURL = *serverFlag
	}

	// Bubble Tea owns the terminal, so diagnostics go to a file.
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err == nil {
			if f, ferr := tea.LogToFile(cfg.LogFile, "taskdeck"); ferr == nil {
				defer f.Close()
			}
		}
	}

	client := api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSec)*time.Second)

	sess := session.New(client, credential.Keyring{})

	var cache store.Cache
	if !*noCacheFlag && cfg.Cache.Path != "" {
		sqlCache, err := openCache(cfg.Cache.Path)
		if err != nil {
			log.Printf("offline cache unavailable: %v", err)
		} else {
			cache = sqlCache
			defer sqlCache.Close()
		}
	}

	poller := appsync.New(client, cache, 2*time.Minute)
	defer poller.Stop()

	p := tea.NewProgram(app.New(sess, client, cache, poller), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openCache(path string) (*store.SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return store.NewSQLiteCache(path)
}
