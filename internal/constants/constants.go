package constants

import "time"

const (
	AppName            = "remindrai"
	Version            = "v0.3.0"
	DefaultKeyringUser = "database-connection"
	KeyringAPIKeyUser  = "ai-api-key"
	DefaultConfigDir   = "~/.config/remindrai"
	DefaultDBPath      = "~/.config/remindrai/remindrai.db"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time-of-day format used in schedules (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is a fixed-width UTC layout. Values in this layout sort
	// lexicographically in time order, which the SQLite due-intent query relies on.
	TimestampFormat = "2006-01-02T15:04:05.000000000Z"

	// Engine defaults
	DefaultBatchSize      = 20
	DefaultUserDailyCap   = 1
	DefaultGlobalDailyCap = 100
	DefaultAITimeout      = 30 * time.Second
	DefaultAIMaxTokens    = 1024
	DefaultSweepSchedule  = "@every 1m"

	// Server defaults
	DefaultServerAddr    = "127.0.0.1:8787"
	TriggerSecretHeader  = "X-Remindrai-Trigger-Secret"
	IntentPathCollection = "reminders"
	UserPathCollection   = "users"

	// Usage scopes
	GlobalUsageScope   = "global"
	UserUsageScopePref = "user:"
)
