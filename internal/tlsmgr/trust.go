package tlsmgr

import (
	"crypto/x509"
	"fmt"
	"os"
)

// CertPool returns a pool holding the certificates of the PEM file at path.
func CertPool(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("no certificates in %s", path)
	}
	return pool, nil
}
