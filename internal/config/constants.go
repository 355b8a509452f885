package config

const (
	// EnvPrefix prefixes environment overrides, e.g. TERMFRAME_SERVER_LISTEN.
	EnvPrefix = "TERMFRAME"
	// DefaultConfigDirName is the directory name under the home directory.
	DefaultConfigDirName = ".termframe"
	// DefaultConfigFileName is the default config file name.
	DefaultConfigFileName = "config.yaml"
	// DefaultUsersFileName is the default users file name.
	DefaultUsersFileName = "users.yaml"

	// DefaultListenAddr is the default server listen address.
	DefaultListenAddr = "127.0.0.1:12850"
	// DefaultBasePath is the default HTTP base path.
	DefaultBasePath = "/"
	// DefaultTerminalTerm is assumed until a client reports its type.
	DefaultTerminalTerm = "ansi"
	// DefaultTerminalCols is the default terminal columns.
	DefaultTerminalCols = 80
	// DefaultTerminalRows is the default terminal rows.
	DefaultTerminalRows = 25
	// DefaultScrollback is the message log length of a session.
	DefaultScrollback = 500
)
