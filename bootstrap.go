package termframe

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"pkt.systems/pslog"
	"pkt.systems/termframe/internal/tlsmgr"
)

// BootstrapTLS generates a local CA and server certificate in dir and
// points cfg at them. It returns the CA certificate path for clients.
func BootstrapTLS(cfg *Config, dir, hostname string, logger pslog.Logger) (string, error) {
	assets, err := tlsmgr.Generate(dir, hostname, logger)
	if err != nil {
		return "", err
	}
	cfg.Server.TLS = TLSConfig{CertFile: assets.ServerCert, KeyFile: assets.ServerKey}
	return assets.CACert, nil
}

// Bootstrap writes cfg as YAML to path, refusing to overwrite an existing
// file. An empty path selects DefaultConfigPath.
func Bootstrap(path string, cfg Config, logger pslog.Logger) (string, error) {
	if logger == nil {
		logger = pslog.LoggerFromEnv()
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config already exists at %s", path)
	} else if !os.IsNotExist(err) {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	logger.Info("bootstrapped config", "path", path)
	return path, nil
}
