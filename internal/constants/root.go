package constants

const (
	AppName            = "habits"
	DefaultKeyringUser = "database-connection"
	DefaultDataPath    = "~/.config/habits/habits.json"
	DefaultConfigFile  = "~/.config/habits/config.yaml"
	Version            = "v0.3.0"

	// TimestampFormat is the layout used for created_at and completed_at (YYYY-MM-DD HH:MM:SS)
	TimestampFormat = "2006-01-02 15:04:05"

	// DateFormat is the standard date format used in user-facing output (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Broken-habit thresholds in whole elapsed days
	DailyMaxGapDays  = 1
	WeeklyMaxGapDays = 7

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habits-"

	// Environment variables
	EnvConnection = "HABITS_DB_CONNECTION"
	EnvPrefix     = "HABITS"
)
