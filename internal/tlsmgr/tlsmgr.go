// Package tlsmgr generates a local certificate authority and a server
// certificate signed by it, for running the console over https without a
// public CA.
package tlsmgr

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pkt.systems/pslog"
)

const (
	caCertFilename     = "ca.pem"
	caKeyFilename      = "ca.key"
	serverCertFilename = "server.pem"
	serverKeyFilename  = "server.key"
)

// ErrExists is returned when generation would overwrite existing assets.
var ErrExists = errors.New("tls assets already exist")

// Assets names the generated files.
type Assets struct {
	CACert     string
	ServerCert string
	ServerKey  string
}

// Paths returns the asset paths under dir.
func Paths(dir string) Assets {
	return Assets{
		CACert:     filepath.Join(dir, caCertFilename),
		ServerCert: filepath.Join(dir, serverCertFilename),
		ServerKey:  filepath.Join(dir, serverKeyFilename),
	}
}

// Generate creates a CA and a server certificate for hostname under dir.
// An empty hostname covers localhost and the loopback addresses.
func Generate(dir, hostname string, logger pslog.Logger) (Assets, error) {
	if logger == nil {
		logger = pslog.LoggerFromEnv()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Assets{}, err
	}
	for _, name := range []string{caCertFilename, caKeyFilename, serverCertFilename, serverKeyFilename} {
		exists, err := fileExists(filepath.Join(dir, name))
		if err != nil {
			return Assets{}, err
		}
		if exists {
			return Assets{}, fmt.Errorf("%w in %s", ErrExists, dir)
		}
	}

	caCert, caKey, err := generateCA(dir)
	if err != nil {
		return Assets{}, err
	}
	logger.Info("generated ca", "cert", filepath.Join(dir, caCertFilename))
	if err := generateServerCert(dir, hostname, caCert, caKey); err != nil {
		return Assets{}, err
	}
	logger.Info("generated server cert", "cert", filepath.Join(dir, serverCertFilename), "hostname", hostname)
	return Paths(dir), nil
}

func generateCA(dir string) (*x509.Certificate, *ecdsa.PrivateKey, error) {
	serial, err := randSerial()
	if err != nil {
		return nil, nil, err
	}
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: "termframe local CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().AddDate(10, 0, 0),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
		MaxPathLenZero:        true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, err
	}
	if err := writeKeyPair(dir, caCertFilename, caKeyFilename, der, key); err != nil {
		return nil, nil, err
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, err
	}
	return cert, key, nil
}

func generateServerCert(dir, hostname string, ca *x509.Certificate, caKey *ecdsa.PrivateKey) error {
	serial, err := randSerial()
	if err != nil {
		return err
	}
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return err
	}
	dnsNames, ips := sanForHostname(hostname)
	commonName := "localhost"
	if hostname = strings.TrimSpace(hostname); hostname != "" {
		commonName = hostname
	}
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().AddDate(2, 0, 0),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     dnsNames,
		IPAddresses:  ips,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, ca, &key.PublicKey, caKey)
	if err != nil {
		return err
	}
	return writeKeyPair(dir, serverCertFilename, serverKeyFilename, der, key)
}

func sanForHostname(hostname string) ([]string, []net.IP) {
	trimmed := strings.TrimSpace(hostname)
	if trimmed == "" {
		return []string{"localhost"}, []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")}
	}
	if ip := net.ParseIP(trimmed); ip != nil {
		return nil, []net.IP{ip}
	}
	return []string{trimmed}, nil
}

func randSerial() (*big.Int, error) {
	return rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
}
