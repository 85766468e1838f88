package slony

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/slony-exporter/pkg/config"
	tlsconfig "github.com/dd0wney/slony-exporter/pkg/tls"
)

func TestPGConnectorBadURL(t *testing.T) {
	_, err := PGConnector{}.Connect(context.Background(), &config.Database{
		URL:     "postgres://user@host:notaport/db",
		Cluster: "replication",
	})
	require.Error(t, err)
}

func TestPGConnectorTLSSetupFailure(t *testing.T) {
	_, err := PGConnector{}.Connect(context.Background(), &config.Database{
		URL:     "postgres://slony@127.0.0.1:1/app",
		Cluster: "replication",
		TLS: tlsconfig.ClientOptions{
			RootCertFile: "/nonexistent/root.pem",
		},
	})
	require.Error(t, err)
	assert.Equal(t, KindConnection, KindOf(err))
	assert.Contains(t, err.Error(), "SSL error:")
}
