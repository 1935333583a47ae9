package common

import (
	"bytes"
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/sethgrid/pester"
	"golang.org/x/net/http2"
)

const DefaultHTTPClientIdleTimeout = 30 * time.Second

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type RetrySetting struct {
	MaxRetries  int
	Concurrency int
	Backoff     pester.BackoffStrategy
}

// HTTP2Client sends the outgoing requests of the node and the commands. With a
// `RetrySetting`, failed requests are retried by pester.
type HTTP2Client struct {
	doer      httpDoer
	transport *http.Transport
}

func NewHTTP2Client(timeout time.Duration, retry *RetrySetting) (*HTTP2Client, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
		IdleConnTimeout: DefaultHTTPClientIdleTimeout,
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
			DualStack: true,
		}).DialContext,
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, err
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	c := &HTTP2Client{doer: client, transport: transport}
	if retry != nil {
		ec := pester.NewExtendedClient(client)
		ec.MaxRetries = retry.MaxRetries
		ec.Concurrency = retry.Concurrency
		ec.Backoff = retry.Backoff
		c.doer = ec
	}

	return c, nil
}

func (c *HTTP2Client) Close() {
	c.transport.CloseIdleConnections()
}

func (c *HTTP2Client) Do(req *http.Request) (*http.Response, error) {
	return c.doer.Do(req)
}

func (c *HTTP2Client) Get(ctx context.Context, url string, headers http.Header) (*http.Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	if headers != nil {
		req.Header = headers
	}

	return c.Do(req.WithContext(ctx))
}

// PostJSON posts `body`, which is already encoded json.
func (c *HTTP2Client) PostJSON(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.Do(req.WithContext(ctx))
}
