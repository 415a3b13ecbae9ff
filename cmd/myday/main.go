package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"myday/internal/config"
	"myday/internal/reminder"
	"myday/internal/storage"
	"myday/internal/task"
	"myday/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
)

func main() {
	configPath := flag.String("config", config.ResolveConfigPath(), "path to config.toml")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("myday %s (commit: %s)\n", version, commit)
		return
	}

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so log lines go to a file or nowhere.
	if cfg.LogPath != "" {
		f, err := tea.LogToFile(cfg.LogPath, "myday")
		if err != nil {
			fmt.Printf("failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	saved, err := db.LoadTasks()
	if err != nil {
		fmt.Printf("failed to load tasks: %v\n", err)
		os.Exit(1)
	}
	store := task.NewStore(task.WithTasks(saved))

	hour, minute, err := cfg.ReminderClock()
	if err != nil {
		fmt.Printf("invalid config: %v\n", err)
		os.Exit(1)
	}
	inbox := ui.NewInbox()
	sched := reminder.New(
		reminder.Multi{inbox, reminder.LogNotifier{}},
		reminder.WithFireAt(hour, minute),
	)
	defer sched.Cancel()

	store.Subscribe(sched.Arm)
	sched.Arm(store.Snapshot())
	log.Printf("loaded %d tasks, reminders at %s", len(saved), sched.Next().Format("2006-01-02 15:04"))

	m := ui.New(ui.Options{
		Store:          store,
		Config:         cfg,
		Settings:       db,
		Saver:          db,
		Inbox:          inbox,
		CheckReminders: sched.Fire,
	})
	if err := ui.Run(m); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
