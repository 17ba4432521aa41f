package constants

import "time"

const (
	AppName           = "arise"
	DefaultConfigPath = "~/.config/arise/arise.db"
	Version           = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// LegacyDateFormat matches dates written by older save files (e.g. "Mon May 03 2025")
	LegacyDateFormat = "Mon Jan 02 2006"

	// Storage keys
	KeyPlayer        = "player"
	KeyLastLoginDate = "last_login_date"
	KeySettings      = "settings"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "arise-"
	BackupFileSuffix = ".db"

	// Lock constants
	LockfileName = "arise.lock"

	// CompletionDelay is the pacing delay between a completion request and the
	// moment its effects are applied.
	CompletionDelay = 300 * time.Millisecond

	// RolloverJobOffset is how long after local midnight the TUI re-activates.
	RolloverJobOffset = 5 * time.Second
)
