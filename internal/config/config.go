// Package config collects runtime settings from .env files, the
// environment, CLI flags and the OS keyring.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/julianstephens/smallwins/internal/calendar"
	"github.com/julianstephens/smallwins/internal/constants"
	"github.com/julianstephens/smallwins/internal/keyring"
	"github.com/julianstephens/smallwins/internal/kv"
	"github.com/julianstephens/smallwins/internal/logger"
	"github.com/julianstephens/smallwins/internal/notifier"
)

// KeyringStore selects the PostgreSQL connection string kept in the keyring
const KeyringStore = "keyring"

// Config holds runtime settings. The kong tags let the CLI embed it
// directly so flags and environment variables share one definition.
type Config struct {
	Store          string `help:"Store path (.db for SQLite, .json for a JSON file), PostgreSQL connection string, or 'keyring'." env:"SMALLWINS_STORE" default:"~/.config/smallwins/smallwins.db"`
	Timezone       string `help:"IANA timezone that defines calendar days." env:"SMALLWINS_TIMEZONE" default:"Local"`
	Debug          bool   `help:"Enable debug logging to stderr." env:"SMALLWINS_DEBUG"`
	NotifyChannel  string `name:"notify" help:"Reminder delivery channel. 'tray' needs the separately installed smallwins-tray companion running." env:"SMALLWINS_NOTIFY_CHANNEL" enum:"console,tray,telegram" default:"console"`
	TelegramToken  string `help:"Telegram bot token (falls back to the keyring)." env:"SMALLWINS_TELEGRAM_TOKEN"`
	TelegramChatID int64  `name:"telegram-chat" help:"Telegram chat that receives reminders." env:"SMALLWINS_TELEGRAM_CHAT_ID"`
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !stderrors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to load env file", "file", f, "error", err)
		}
	}
}

// Validate checks values that flags and env cannot constrain on their own.
func (c *Config) Validate() error {
	if !calendar.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	switch c.NotifyChannel {
	case constants.ChannelConsole, constants.ChannelTray, constants.ChannelTelegram:
	default:
		return fmt.Errorf("unknown notify channel %q", c.NotifyChannel)
	}
	return nil
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return calendar.LoadLocation(c.Timezone)
}

// ResolveStore returns the concrete store target: the keyring connection
// string when Store is "keyring", otherwise Store with "~" expanded.
func (c *Config) ResolveStore() (string, error) {
	target := strings.TrimSpace(c.Store)
	if target == KeyringStore {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return "", fmt.Errorf("read connection string from keyring: %w", err)
		}
		return connStr, nil
	}
	if kv.IsPostgres(target) || target == ":memory:" {
		return target, nil
	}
	return ExpandPath(target)
}

// ConfigDir is where logs and backups live: next to a file store, or the
// default config directory for remote stores.
func (c *Config) ConfigDir() (string, error) {
	target := strings.TrimSpace(c.Store)
	if target == KeyringStore || kv.IsPostgres(target) || target == ":memory:" {
		target = constants.DefaultConfigPath
	}
	path, err := ExpandPath(target)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// TelegramCredentials returns the bot token, falling back to the keyring.
func (c *Config) TelegramCredentials() (string, int64) {
	token := c.TelegramToken
	if token == "" {
		if stored, err := keyring.GetTelegramToken(); err == nil {
			token = stored
		} else if !stderrors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Telegram token unavailable from keyring", "error", err)
		}
	}
	return token, c.TelegramChatID
}

// Sender builds the reminder sender for the configured channel.
func (c *Config) Sender() notifier.Sender {
	switch c.NotifyChannel {
	case constants.ChannelTray:
		return notifier.NewTraySender()
	case constants.ChannelTelegram:
		token, chatID := c.TelegramCredentials()
		return notifier.NewTelegramSender(token, chatID)
	default:
		return notifier.NewConsoleSender(os.Stdout)
	}
}

// ChannelHint tells the user what the configured channel needs before
// reminders can be delivered.
func (c *Config) ChannelHint() string {
	switch c.NotifyChannel {
	case constants.ChannelTray:
		return "start the smallwins-tray companion app (installed separately) or use --notify=console"
	case constants.ChannelTelegram:
		return "set SMALLWINS_TELEGRAM_TOKEN (or 'smallwins secret set telegram-token') and --telegram-chat"
	default:
		return ""
	}
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
