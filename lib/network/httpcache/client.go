package httpcache

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"time"

	logging "github.com/inconshreveable/log15"

	"github.com/photonwings/lottery-smart-contract/lib/common"
)

// KeyFunc makes the cache key of a request. The responses which depend on a
// mutable state should put the version of that state in the key.
type KeyFunc func(r *http.Request) string

// Client caches the successful GET responses of the wrapped handlers.
type Client struct {
	adapter Adapter
	expire  time.Duration
	keyFunc KeyFunc
	logger  logging.Logger
}

type ClientOption func(c *Client) error

func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		keyFunc: URLKey,
		logger:  common.NopLogger(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.adapter == nil {
		return nil, errors.New("cache client adapter is nil")
	}

	return c, nil
}

func WithAdapter(a Adapter) ClientOption {
	return func(c *Client) error {
		c.adapter = a
		return nil
	}
}

// WithExpire sets how long a response stays cached; zero keeps it until the
// adapter evicts it.
func WithExpire(d time.Duration) ClientOption {
	return func(c *Client) error {
		if d < 0 {
			return errors.New("negative cache expiration")
		}
		c.expire = d
		return nil
	}
}

func WithKeyFunc(f KeyFunc) ClientOption {
	return func(c *Client) error {
		c.keyFunc = f
		return nil
	}
}

func WithLogger(logger logging.Logger) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

func (c *Client) WrapHandlerFunc(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next(w, r)
			return
		}

		key := c.keyFunc(r)
		if cached := c.lookup(key); cached != nil {
			c.logger.Debug("cache hit", "key", key)
			cached.writeTo(w)
			return
		}

		rec := httptest.NewRecorder()
		next(rec, r)

		result := rec.Result()
		resp := &Response{
			Value:      rec.Body.Bytes(),
			StatusCode: result.StatusCode,
			Header:     result.Header,
		}
		if resp.StatusCode < http.StatusBadRequest {
			if c.expire > 0 {
				resp.Expiration = time.Now().Add(c.expire)
			}
			c.adapter.Set(key, resp, resp.Expiration)
			c.logger.Debug("cache stored", "key", key, "status", resp.StatusCode)
		}

		resp.writeTo(w)
	}
}

func (c *Client) lookup(key string) *Response {
	resp, found := c.adapter.Get(key)
	if !found {
		return nil
	}
	if !resp.Expiration.IsZero() && !resp.Expiration.After(time.Now()) {
		c.adapter.Remove(key)
		return nil
	}

	return resp
}

func (resp *Response) writeTo(w http.ResponseWriter) {
	header := w.Header()
	for k, v := range resp.Header {
		header[k] = append([]string(nil), v...)
	}

	code := resp.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	w.WriteHeader(code)
	w.Write(resp.Value)
}

// URLKey is the request URL with the query values sorted, so "?b=2&a=1" and
// "?a=1&b=2" share one entry.
func URLKey(r *http.Request) string {
	u := *r.URL
	query := u.Query()
	for _, values := range query {
		sort.Strings(values)
	}
	u.RawQuery = query.Encode()

	return u.String()
}
