package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeTestCert generates a self-signed certificate and key in dir and
// returns their paths
func writeTestCert(t *testing.T, dir string) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "slony-test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{"localhost"},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("failed to marshal key: %v", err)
	}

	certFile = filepath.Join(dir, "client.crt")
	keyFile = filepath.Join(dir, "client.key")
	if err := os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0644); err != nil {
		t.Fatalf("failed to write certificate: %v", err)
	}
	if err := os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0600); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}
	return certFile, keyFile
}

func TestClientOptions_Enabled(t *testing.T) {
	tests := []struct {
		name string
		opts ClientOptions
		want bool
	}{
		{"zero value", ClientOptions{}, false},
		{"root cert", ClientOptions{RootCertFile: "ca.pem"}, true},
		{"client cert", ClientOptions{CertFile: "c.pem"}, true},
		{"key only", ClientOptions{KeyFile: "k.pem"}, true},
		{"insecure", ClientOptions{InsecureSkipVerify: true}, true},
		{"min version alone", ClientOptions{MinVersion: tls.VersionTLS13}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClientConfig_Disabled(t *testing.T) {
	cfg, err := ClientConfig(&ClientOptions{}, "db.example.com")
	if err != nil {
		t.Fatalf("ClientConfig() error = %v", err)
	}
	if cfg != nil {
		t.Error("ClientConfig() should return nil when no option is set")
	}

	cfg, err = ClientConfig(nil, "db.example.com")
	if err != nil || cfg != nil {
		t.Errorf("ClientConfig(nil) = %v, %v; want nil, nil", cfg, err)
	}
}

func TestClientConfig_Insecure(t *testing.T) {
	cfg, err := ClientConfig(&ClientOptions{InsecureSkipVerify: true}, "db.example.com")
	if err != nil {
		t.Fatalf("ClientConfig() error = %v", err)
	}
	if !cfg.InsecureSkipVerify {
		t.Error("InsecureSkipVerify should be set")
	}
	if cfg.ServerName != "db.example.com" {
		t.Errorf("ServerName = %q, want db.example.com", cfg.ServerName)
	}
	if cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %d, want TLS 1.2", cfg.MinVersion)
	}
}

func TestClientConfig_RootAndClientCert(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeTestCert(t, dir)

	cfg, err := ClientConfig(&ClientOptions{
		RootCertFile: certFile,
		CertFile:     certFile,
		KeyFile:      keyFile,
		MinVersion:   tls.VersionTLS13,
	}, "localhost")
	if err != nil {
		t.Fatalf("ClientConfig() error = %v", err)
	}
	if cfg.RootCAs == nil {
		t.Error("RootCAs should be loaded")
	}
	if len(cfg.Certificates) != 1 {
		t.Errorf("Certificates = %d, want 1", len(cfg.Certificates))
	}
	if cfg.MinVersion != tls.VersionTLS13 {
		t.Errorf("MinVersion = %d, want TLS 1.3", cfg.MinVersion)
	}
}

func TestClientConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	certFile, _ := writeTestCert(t, dir)

	garbage := filepath.Join(dir, "garbage.pem")
	if err := os.WriteFile(garbage, []byte("not a certificate"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		opts    ClientOptions
		wantErr string
	}{
		{"missing root cert", ClientOptions{RootCertFile: filepath.Join(dir, "missing.pem")}, "failed to read CA certificate"},
		{"unparsable root cert", ClientOptions{RootCertFile: garbage}, "failed to parse CA certificate"},
		{"cert without key", ClientOptions{CertFile: certFile}, "must be set together"},
		{"mismatched key", ClientOptions{CertFile: certFile, KeyFile: garbage}, "failed to load client certificate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ClientConfig(&tt.opts, "localhost")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestSecureCipherSuites(t *testing.T) {
	suites := SecureCipherSuites()
	if len(suites) == 0 {
		t.Fatal("SecureCipherSuites() returned no suites")
	}
	for _, s := range suites {
		if s == tls.TLS_RSA_WITH_AES_128_CBC_SHA {
			t.Error("insecure CBC suite present")
		}
	}
}
