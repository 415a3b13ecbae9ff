package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "myday"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "myday.db"
	DefaultReminderTime   = "09:00"
	DefaultView           = "All"
)

type Keymap struct {
	Quit        string `toml:"quit"`
	Add         string `toml:"add"`
	Up          string `toml:"up"`
	Down        string `toml:"down"`
	Toggle      string `toml:"toggle"`
	Delete      string `toml:"delete"`
	Confirm     string `toml:"confirm"`
	Cancel      string `toml:"cancel"`
	NextView    string `toml:"next_view"`
	PrevView    string `toml:"prev_view"`
	Theme       string `toml:"theme"`
	NextField   string `toml:"next_field"`
	CheckRemind string `toml:"check_reminders"`
}

type Config struct {
	DBPath       string `toml:"db_path"`
	LogPath      string `toml:"log_path"`
	DefaultView  string `toml:"default_view"`
	ReminderTime string `toml:"reminder_time"`
	Keys         Keymap `toml:"keys"`
}

// ResolveConfigPath returns $XDG_CONFIG_HOME/myday/config.toml, falling back
// to ~/.config and finally the working directory.
func ResolveConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfigFileName
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName, DefaultConfigFileName)
}

func defaultDBPath() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultDBName
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, AppName, DefaultDBName)
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Missing keys keep their default values.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}
	if cfg.ReminderTime == "" {
		cfg.ReminderTime = DefaultReminderTime
	}
	if _, _, err := cfg.ReminderClock(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ReminderClock parses ReminderTime ("HH:MM", 24-hour).
func (c Config) ReminderClock() (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(c.ReminderTime), ":")
	if !ok {
		return 0, 0, fmt.Errorf("reminder_time %q: want HH:MM", c.ReminderTime)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("reminder_time %q: bad hour", c.ReminderTime)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("reminder_time %q: bad minute", c.ReminderTime)
	}
	return hour, minute, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the configuration written on first launch.
func Default() Config {
	return Config{
		DBPath:       defaultDBPath(),
		DefaultView:  DefaultView,
		ReminderTime: DefaultReminderTime,
		Keys: Keymap{
			Quit:        "q",
			Add:         "a",
			Up:          "k",
			Down:        "j",
			Toggle:      " ",
			Delete:      "d",
			Confirm:     "enter",
			Cancel:      "esc",
			NextView:    "tab",
			PrevView:    "shift+tab",
			Theme:       "t",
			NextField:   "tab",
			CheckRemind: "R",
		},
	}
}
