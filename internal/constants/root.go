package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "focusblocks"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/focusblocks/focusblocks.db"
	Version            = "v0.3.0"

	// MemoryConfig selects the non-persistent in-memory store.
	MemoryConfig = "memory"
	// PostgresConfig selects PostgreSQL with the connection string taken from
	// the environment or the keyring.
	PostgresConfig = "postgres"

	// Environment variables
	EnvConfig       = "FOCUSBLOCKS_CONFIG"
	EnvDebug        = "FOCUSBLOCKS_DEBUG"
	EnvDBConnection = "FOCUSBLOCKS_DB_CONNECTION"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "focusblocks-"
	BackupFileSuffix = ".db"
)

// Session States
const (
	StateBlocks SessionState = iota
	StateAddTask
	StateClaimReward
	StateConfirmDelete
	StateCelebrate
)
