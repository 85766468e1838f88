// Package config reads the exporter's settings.
//
// Database settings are read from the environment on every fetch, so a
// changed POSTGRES_URL or SLONY_CLUSTER takes effect on the next scrape.
// Process settings are read once at startup (and again on SIGHUP).
package config

import (
	"fmt"
	"strconv"

	tlsconfig "github.com/dd0wney/slony-exporter/pkg/tls"
	"github.com/dd0wney/slony-exporter/pkg/validation"
)

// Environment variables holding the database settings
const (
	EnvPostgresURL  = "POSTGRES_URL"
	EnvSlonyCluster = "SLONY_CLUSTER"
	EnvSSLRootCert  = "POSTGRES_SSL_ROOT_CERT"
	EnvSSLCert      = "POSTGRES_SSL_CERT"
	EnvSSLKey       = "POSTGRES_SSL_KEY"
	EnvSSLInsecure  = "POSTGRES_SSL_INSECURE"
)

// Database holds what a fetch needs to reach one Slony node
type Database struct {
	URL     string // libpq style URL or keyword/value string
	Cluster string // Slony cluster name, without the leading underscore
	TLS     tlsconfig.ClientOptions
}

// LoadDatabase reads the database settings through getenv. It fails when
// either required value is missing, before anything is dialed.
func LoadDatabase(getenv func(string) string) (*Database, error) {
	db := &Database{
		URL:     getenv(EnvPostgresURL),
		Cluster: getenv(EnvSlonyCluster),
		TLS: tlsconfig.ClientOptions{
			RootCertFile: getenv(EnvSSLRootCert),
			CertFile:     getenv(EnvSSLCert),
			KeyFile:      getenv(EnvSSLKey),
		},
	}

	insecure := getenv(EnvSSLInsecure)

	err := validation.NewConfigValidator("database").
		Required(EnvPostgresURL, db.URL).
		Required(EnvSlonyCluster, db.Cluster).
		Custom(EnvSSLInsecure, func() error {
			if insecure == "" {
				return nil
			}
			v, err := strconv.ParseBool(insecure)
			if err != nil {
				return fmt.Errorf("%q is not a boolean", insecure)
			}
			db.TLS.InsecureSkipVerify = v
			return nil
		}).
		Validate()
	if err != nil {
		return nil, err
	}
	return db, nil
}
