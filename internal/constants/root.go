package constants

import "time"

const (
	AppName           = "smallwins"
	DefaultConfigPath = "~/.config/smallwins/smallwins.db"
	Version           = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DisplayDateFormat is how days are shown in lists and messages
	DisplayDateFormat = "Jan 2, 2006"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MaxChars is the upper bound on a win's trimmed length, in characters.
	MaxChars = 280

	// Storage keys owned by the core
	KeyWins                   = "small-wins-entries"
	KeyNotificationHour       = "small-wins-notification-time"
	KeyTheme                  = "small-wins-theme"
	KeyReminderTrigger        = "small-wins-reminder-trigger"
	KeyNotificationPermission = "small-wins-notification-permission"

	// Reminder constants
	DefaultReminderHour = 20
	ReminderTitle       = "Small Wins"
	ReminderBody        = "Name one moment worth keeping."
	ReminderSyncEvery   = time.Minute

	// Stats windows
	WeekWindowDays     = 7
	MonthWindowDays    = 30
	StreakMilestone    = 7
	DaysPerWeek        = 7
	StatsDecimalPlaces = 1

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "smallwins-"
	BackupFileSuffix = ".json"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "smallwins-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.smallwins"

	// Keyring users
	KeyringConnectionUser = "database-connection"
	KeyringTelegramUser   = "telegram-token"

	// Notification channels
	ChannelConsole  = "console"
	ChannelTray     = "tray"
	ChannelTelegram = "telegram"

	// Theme values
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)
