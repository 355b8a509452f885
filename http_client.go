package termframe

import (
	"crypto/tls"
	"net/http"
	"time"

	"pkt.systems/termframe/internal/tlsmgr"
)

// newHTTPClient returns a client for the console's HTTP endpoints. caFile,
// when set, replaces the system roots.
func newHTTPClient(caFile string) (*http.Client, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if caFile != "" {
		pool, err := tlsmgr.CertPool(caFile)
		if err != nil {
			return nil, err
		}
		tlsCfg.RootCAs = pool
	}
	return &http.Client{
		Timeout:   15 * time.Second,
		Transport: &http.Transport{TLSClientConfig: tlsCfg},
	}, nil
}
