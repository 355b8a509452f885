package config

// DefaultConfig returns the default configuration values.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Listen:       DefaultListenAddr,
			BasePath:     DefaultBasePath,
			UsersFile:    DefaultUsersPath(),
			RequireLogin: true,
		},
		Terminal: TerminalConfig{
			Term:       DefaultTerminalTerm,
			Cols:       DefaultTerminalCols,
			Rows:       DefaultTerminalRows,
			Scrollback: DefaultScrollback,
		},
	}
}
