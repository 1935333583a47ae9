package common

import (
	"sync"
	"time"

	"github.com/beevik/ntp"
)

// Clock gives the current time to the components which gate on elapsed time.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// NTPClock is the local clock corrected by the offset from a ntp server. The
// offset is updated by `Sync`; until the first successful `Sync`, it behaves
// like `SystemClock`.
type NTPClock struct {
	sync.RWMutex

	host   string
	offset time.Duration
	query  func(string) (*ntp.Response, error)
}

func NewNTPClock(host string) *NTPClock {
	return &NTPClock{
		host:  host,
		query: ntp.Query,
	}
}

func (c *NTPClock) Sync() error {
	resp, err := c.query(c.host)
	if err != nil {
		log.Debug("failed to query ntp server", "host", c.host, "error", err)
		return err
	}

	c.Lock()
	c.offset = resp.ClockOffset
	c.Unlock()

	log.Debug("ntp clock synced", "host", c.host, "offset", resp.ClockOffset)

	return nil
}

func (c *NTPClock) Offset() time.Duration {
	c.RLock()
	defer c.RUnlock()

	return c.offset
}

func (c *NTPClock) Now() time.Time {
	return time.Now().Add(c.Offset())
}
