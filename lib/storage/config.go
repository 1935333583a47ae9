package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// Config is parsed from the storage uri,
//  * "file:///<path>": leveldb in the given directory
//  * "memory://": in-memory leveldb, used in tests
type Config struct {
	Scheme string
	Path   string
}

func NewConfigFromString(s string) (*Config, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}

	c := &Config{Scheme: strings.ToLower(u.Scheme)}
	switch c.Scheme {
	case "file":
		if len(u.Path) < 1 {
			return nil, fmt.Errorf("path is missing in storage uri: %q", s)
		}
		c.Path = u.Path
	case "memory":
	default:
		return nil, fmt.Errorf("unsupported storage scheme: %q", u.Scheme)
	}

	return c, nil
}

func (c Config) String() string {
	return fmt.Sprintf("%s://%s", c.Scheme, c.Path)
}
