package network

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/photonwings/lottery-smart-contract/lib/common"
)

func TestHTTP2ServerConfigFromEndpoint(t *testing.T) {
	endpoint, err := common.ParseEndpoint("http://0.0.0.0:12346?ReadTimeout=3s&IdleTimeout=5s")
	require.NoError(t, err)

	config, err := NewHTTP2ServerConfigFromEndpoint(endpoint)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:12346", config.Addr)
	require.Equal(t, 3*time.Second, config.ReadTimeout)
	require.Equal(t, 5*time.Second, config.IdleTimeout)
	require.Equal(t, time.Duration(0), config.WriteTimeout)
	require.False(t, config.IsHTTPS())
	require.Equal(t, os.Stdout, config.HTTP2LogOutput)
}

func TestHTTP2ServerConfigBadQuery(t *testing.T) {
	endpoint, err := common.ParseEndpoint("http://0.0.0.0:12346?ReadTimeout=-3s")
	require.NoError(t, err)
	_, err = NewHTTP2ServerConfigFromEndpoint(endpoint)
	require.Error(t, err)

	endpoint, err = common.ParseEndpoint("https://0.0.0.0:12346")
	require.NoError(t, err)
	_, err = NewHTTP2ServerConfigFromEndpoint(endpoint)
	require.Error(t, err)

	endpoint, err = common.ParseEndpoint("https://0.0.0.0:12346?TLSCertFile=a.crt&TLSKeyFile=a.key")
	require.NoError(t, err)
	config, err := NewHTTP2ServerConfigFromEndpoint(endpoint)
	require.NoError(t, err)
	require.True(t, config.IsHTTPS())
}
