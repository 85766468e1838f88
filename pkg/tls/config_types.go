package tls

import (
	"crypto/tls"
)

// ClientOptions describes how the exporter secures its database connection.
// Zero value leaves the driver's own sslmode handling in place.
type ClientOptions struct {
	RootCertFile       string // CA bundle used to verify the server
	CertFile           string // client certificate for cert authentication
	KeyFile            string // private key for CertFile
	InsecureSkipVerify bool   // encrypt without verifying the server (NOT for production)
	MinVersion         uint16 // minimum TLS version (default TLS 1.2)
}

// Enabled reports whether any TLS setting was supplied
func (o *ClientOptions) Enabled() bool {
	return o.RootCertFile != "" || o.CertFile != "" || o.KeyFile != "" || o.InsecureSkipVerify
}

// SecureCipherSuites returns a list of secure cipher suites
// Based on OWASP and Mozilla recommendations (2024)
func SecureCipherSuites() []uint16 {
	return []uint16{
		// TLS 1.3 cipher suites (preferred)
		tls.TLS_AES_128_GCM_SHA256,
		tls.TLS_AES_256_GCM_SHA384,
		tls.TLS_CHACHA20_POLY1305_SHA256,

		// TLS 1.2 cipher suites (fallback)
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	}
}
