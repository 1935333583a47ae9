package network

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/photonwings/lottery-smart-contract/lib/common"
)

type HTTP2ServerConfig struct {
	Endpoint *common.Endpoint
	Addr     string

	ReadTimeout,
	ReadHeaderTimeout,
	WriteTimeout,
	IdleTimeout time.Duration

	TLSCertFile,
	TLSKeyFile string

	HTTP2LogOutput io.Writer
}

func getURLQuery(e *common.Endpoint, key, defaultValue string) string {
	v := e.Query().Get(key)
	if len(v) < 1 {
		return defaultValue
	}

	return v
}

func parseTimeout(e *common.Endpoint, key string) (time.Duration, error) {
	d, err := time.ParseDuration(getURLQuery(e, key, "0s"))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("invalid '" + key + "'")
	}

	return d, nil
}

// NewHTTP2ServerConfigFromEndpoint reads the server settings from the query
// of the bind endpoint, for example
// "https://0.0.0.0:12346?TLSCertFile=a.crt&TLSKeyFile=a.key&IdleTimeout=5s".
// "HTTP2LogOutput" is the file of the access log; stdout by default.
func NewHTTP2ServerConfigFromEndpoint(endpoint *common.Endpoint) (config HTTP2ServerConfig, err error) {
	config = HTTP2ServerConfig{
		Endpoint: endpoint,
		Addr:     endpoint.Host,
	}

	if config.ReadTimeout, err = parseTimeout(endpoint, "ReadTimeout"); err != nil {
		return
	}
	if config.ReadHeaderTimeout, err = parseTimeout(endpoint, "ReadHeaderTimeout"); err != nil {
		return
	}
	if config.WriteTimeout, err = parseTimeout(endpoint, "WriteTimeout"); err != nil {
		return
	}
	if config.IdleTimeout, err = parseTimeout(endpoint, "IdleTimeout"); err != nil {
		return
	}

	query := endpoint.Query()
	config.TLSCertFile = query.Get("TLSCertFile")
	config.TLSKeyFile = query.Get("TLSKeyFile")

	if strings.ToLower(endpoint.Scheme) == "https" && !config.IsHTTPS() {
		err = errors.New("HTTPS needs `TLSCertFile` and `TLSKeyFile`")
		return
	}

	if v := query.Get("HTTP2LogOutput"); len(v) < 1 {
		config.HTTP2LogOutput = os.Stdout
	} else {
		config.HTTP2LogOutput, err = os.OpenFile(v, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return
		}
	}

	return
}

func (config HTTP2ServerConfig) IsHTTPS() bool {
	return len(config.TLSCertFile) > 0 && len(config.TLSKeyFile) > 0
}
