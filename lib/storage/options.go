package storage

import (
	"net/url"
	"strconv"
)

// DefaultMaxLimitListOptions is both the default and the upper bound of the
// page size requested through a query.
var DefaultMaxLimitListOptions uint64 = 100

// ListOptions drives `GetIterator`. The cursor is inclusive: iteration starts
// at the cursor key itself. A zero limit means no limit.
type ListOptions interface {
	Reverse() bool
	Cursor() []byte
	Limit() uint64
	URLValues() url.Values
	Encode() string
}

type DefaultListOptions struct {
	reverse bool
	cursor  []byte
	limit   uint64
}

func NewDefaultListOptions(reverse bool, cursor []byte, limit uint64) *DefaultListOptions {
	return &DefaultListOptions{reverse: reverse, cursor: cursor, limit: limit}
}

// NewDefaultListOptionsFromQuery reads "reverse", "cursor" and "limit". An
// absent, zero or too large limit becomes `DefaultMaxLimitListOptions`.
func NewDefaultListOptionsFromQuery(query url.Values) (*DefaultListOptions, error) {
	o := NewDefaultListOptions(false, nil, DefaultMaxLimitListOptions)

	if s := query.Get("reverse"); len(s) > 0 {
		reverse, err := strconv.ParseBool(s)
		if err != nil {
			return nil, err
		}
		o.reverse = reverse
	}

	if s := query.Get("cursor"); len(s) > 0 {
		o.cursor = []byte(s)
	}

	if s := query.Get("limit"); len(s) > 0 {
		limit, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		if limit > 0 && limit < DefaultMaxLimitListOptions {
			o.limit = limit
		}
	}

	return o, nil
}

func (o *DefaultListOptions) Reverse() bool  { return o.reverse }
func (o *DefaultListOptions) Cursor() []byte { return o.cursor }
func (o *DefaultListOptions) Limit() uint64  { return o.limit }

func (o *DefaultListOptions) URLValues() url.Values {
	query := url.Values{}
	query.Set("reverse", strconv.FormatBool(o.reverse))
	if len(o.cursor) > 0 {
		query.Set("cursor", string(o.cursor))
	}
	if o.limit > 0 {
		query.Set("limit", strconv.FormatUint(o.limit, 10))
	}

	return query
}

func (o *DefaultListOptions) Encode() string {
	return o.URLValues().Encode()
}
