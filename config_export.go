package termframe

import "pkt.systems/termframe/internal/config"

// Config mirrors the termframe configuration.
type Config = config.Config

// ServerConfig configures the console server.
type ServerConfig = config.ServerConfig

// TerminalConfig configures the terminal assumed for new sessions.
type TerminalConfig = config.TerminalConfig

// TLSConfig names the server certificate and key.
type TLSConfig = config.TLSConfig

// Loader wraps configuration loading via Viper.
type Loader = config.Loader

const (
	// DefaultConfigDirName is the directory name under the home directory.
	DefaultConfigDirName = config.DefaultConfigDirName
	// DefaultConfigFileName is the default config file name.
	DefaultConfigFileName = config.DefaultConfigFileName
	// DefaultUsersFileName is the default users file name.
	DefaultUsersFileName = config.DefaultUsersFileName

	// DefaultListenAddr is the default server listen address.
	DefaultListenAddr = config.DefaultListenAddr
	// DefaultBasePath is the default HTTP base path.
	DefaultBasePath = config.DefaultBasePath
	// DefaultTerminalTerm is the terminal type assumed before identification.
	DefaultTerminalTerm = config.DefaultTerminalTerm
	// DefaultTerminalCols is the default terminal column count.
	DefaultTerminalCols = config.DefaultTerminalCols
	// DefaultTerminalRows is the default terminal row count.
	DefaultTerminalRows = config.DefaultTerminalRows
	// DefaultScrollback is the default message log length.
	DefaultScrollback = config.DefaultScrollback
)

// NewLoader returns a config loader with defaults wired.
func NewLoader() *config.Loader {
	return config.NewLoader()
}

// DefaultConfig returns the default termframe configuration.
func DefaultConfig() Config {
	return config.DefaultConfig()
}

// DefaultConfigDir returns the default config directory.
func DefaultConfigDir() string {
	return config.DefaultConfigDir()
}

// DefaultConfigPath returns the default config path.
func DefaultConfigPath() string {
	return config.DefaultConfigPath()
}

// DefaultUsersPath returns the default users file path.
func DefaultUsersPath() string {
	return config.DefaultUsersPath()
}
