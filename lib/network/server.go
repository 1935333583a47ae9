package network

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"golang.org/x/net/http2"
)

// HTTP2Server serves the router over HTTP/2 when TLS is set, otherwise over
// HTTP/1.1.
type HTTP2Server struct {
	config HTTP2ServerConfig
	server *http.Server
	router *mux.Router
	logger logging.Logger
}

func NewHTTP2Server(config HTTP2ServerConfig, router *mux.Router) *HTTP2Server {
	server := &http.Server{
		Addr:              config.Addr,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		WriteTimeout:      config.WriteTimeout,
		ErrorLog:          NewHTTP2ErrorLogger(log),
	}
	server.SetKeepAlivesEnabled(true)

	http2.ConfigureServer(
		server,
		&http2.Server{
			IdleTimeout: config.IdleTimeout,
		},
	)

	var handler http.Handler = requestLogHandler{log: log, handler: router}
	if config.HTTP2LogOutput != nil {
		handler = handlers.CombinedLoggingHandler(config.HTTP2LogOutput, handler)
	}
	server.Handler = handler

	return &HTTP2Server{
		config: config,
		server: server,
		router: router,
		logger: log,
	}
}

func (s *HTTP2Server) Router() *mux.Router {
	return s.router
}

func (s *HTTP2Server) Start() error {
	s.logger.Info("starting server", "endpoint", s.config.Endpoint, "https", s.config.IsHTTPS())

	var err error
	if s.config.IsHTTPS() {
		err = s.server.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
	} else {
		err = s.server.ListenAndServe()
	}

	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *HTTP2Server) Stop() error {
	s.logger.Info("stopped server")
	return s.server.Close()
}
