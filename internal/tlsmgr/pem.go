package tlsmgr

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

func writeKeyPair(dir, certName, keyName string, der []byte, key *ecdsa.PrivateKey) error {
	if err := writePEMFile(filepath.Join(dir, certName), "CERTIFICATE", der, 0o644); err != nil {
		return err
	}
	keyBytes, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return err
	}
	return writePEMFile(filepath.Join(dir, keyName), "PRIVATE KEY", keyBytes, 0o600)
}

func writePEMFile(path, pemType string, data []byte, perm os.FileMode) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if err := pem.Encode(file, &pem.Block{Type: pemType, Bytes: data}); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", path)
	}
	return true, nil
}
