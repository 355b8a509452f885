package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for termframe.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Terminal TerminalConfig `mapstructure:"terminal" yaml:"terminal"`
}

// ServerConfig configures the console server.
type ServerConfig struct {
	Listen       string    `mapstructure:"listen" yaml:"listen"`
	BasePath     string    `mapstructure:"base" yaml:"base"`
	UsersFile    string    `mapstructure:"users_file" yaml:"users_file"`
	LogFile      string    `mapstructure:"log_file" yaml:"log_file"`
	RequireLogin bool      `mapstructure:"require_login" yaml:"require_login"`
	TLS          TLSConfig `mapstructure:"tls" yaml:"tls"`
}

// TerminalConfig configures the terminal assumed before a client identifies
// itself.
type TerminalConfig struct {
	Term        string `mapstructure:"term" yaml:"term"`
	Cols        int    `mapstructure:"cols" yaml:"cols"`
	Rows        int    `mapstructure:"rows" yaml:"rows"`
	TermcapFile string `mapstructure:"termcap_file" yaml:"termcap_file"`
	Scrollback  int    `mapstructure:"scrollback" yaml:"scrollback"`
}

// TLSConfig names a certificate and key. Both empty serves plain HTTP.
type TLSConfig struct {
	CertFile string `mapstructure:"cert_file" yaml:"cert_file"`
	KeyFile  string `mapstructure:"key_file" yaml:"key_file"`
}

// Enabled reports whether TLS is configured.
func (c TLSConfig) Enabled() bool {
	return c.CertFile != "" || c.KeyFile != ""
}

// Validate checks that both TLS files are set when either is.
func (c TLSConfig) Validate() error {
	if (c.CertFile == "") != (c.KeyFile == "") {
		return errors.New("tls requires both cert_file and key_file")
	}
	return nil
}

// Loader wraps Viper configuration loading for termframe.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader initializes a Loader with standard search paths and defaults.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/termframe")
	v.AddConfigPath("$HOME/" + DefaultConfigDirName)

	SetDefaults(v, DefaultConfig())
	return &Loader{v: v}
}

// SetDefaults registers every key of cfg as a Viper default, so that
// environment variables are seen by Unmarshal.
func SetDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("server.listen", cfg.Server.Listen)
	v.SetDefault("server.base", cfg.Server.BasePath)
	v.SetDefault("server.users_file", cfg.Server.UsersFile)
	v.SetDefault("server.log_file", cfg.Server.LogFile)
	v.SetDefault("server.require_login", cfg.Server.RequireLogin)
	v.SetDefault("server.tls.cert_file", cfg.Server.TLS.CertFile)
	v.SetDefault("server.tls.key_file", cfg.Server.TLS.KeyFile)
	v.SetDefault("terminal.term", cfg.Terminal.Term)
	v.SetDefault("terminal.cols", cfg.Terminal.Cols)
	v.SetDefault("terminal.rows", cfg.Terminal.Rows)
	v.SetDefault("terminal.termcap_file", cfg.Terminal.TermcapFile)
	v.SetDefault("terminal.scrollback", cfg.Terminal.Scrollback)
}

// Viper exposes the underlying Viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = strings.TrimSpace(path)
}

// ReadInConfig reads configuration from file if available.
func (l *Loader) ReadInConfig() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// Load reads configuration and unmarshals it into a Config struct.
func (l *Loader) Load() (Config, error) {
	if err := l.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Server.TLS.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
