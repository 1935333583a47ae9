package common

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

var DefaultPort int = 12346

func checkPort(port string) error {
	n, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return fmt.Errorf("invalid port %q: %v", port, err)
	}
	if n < 1 {
		return errors.New("invalid port")
	}

	return nil
}

// CheckBindString validates "<host>:<port>" as given to `net.Listen`.
func CheckBindString(b string) error {
	_, port, err := net.SplitHostPort(b)
	if err != nil {
		return err
	}

	return checkPort(port)
}

// Endpoint is the url of a node; only scheme, host and path are significant.
// The query carries the server options, see
// `network.NewHTTP2ServerConfigFromEndpoint`.
type Endpoint url.URL

func (e *Endpoint) String() string {
	return (&url.URL{
		Scheme: e.Scheme,
		Host:   e.Host,
		Path:   e.Path,
	}).String()
}

func (e *Endpoint) Query() url.Values {
	return (*url.URL)(e).Query()
}

// Join returns the url of `path` under the endpoint.
func (e *Endpoint) Join(path string) string {
	u := url.URL{
		Scheme: e.Scheme,
		Host:   e.Host,
		Path:   strings.TrimRight(e.Path, "/") + path,
	}

	return u.String()
}

func (e *Endpoint) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(e.String())), nil
}

func (e *Endpoint) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}

	p, err := ParseEndpoint(s)
	if err != nil {
		return err
	}

	*e = *p

	return nil
}

// ParseEndpoint accepts only "http" and "https"; `DefaultPort` is used when
// the port is missing and a loopback or empty host becomes "localhost".
func ParseEndpoint(endpoint string) (*Endpoint, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "http", "https":
	case "":
		return nil, errors.New("missing scheme")
	default:
		return nil, fmt.Errorf("unsupported scheme: %q", u.Scheme)
	}

	host, port := u.Hostname(), u.Port()
	if len(port) < 1 {
		port = strconv.Itoa(DefaultPort)
	}
	if err := checkPort(port); err != nil {
		return nil, err
	}
	if len(host) < 1 || strings.HasPrefix(host, "127.0.") {
		host = "localhost"
	}
	u.Host = strings.ToLower(net.JoinHostPort(host, port))

	return (*Endpoint)(u), nil
}
