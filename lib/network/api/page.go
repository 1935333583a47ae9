package api

import (
	"bytes"

	"github.com/photonwings/lottery-smart-contract/lib/network/httputils"
	"github.com/photonwings/lottery-smart-contract/lib/storage"
)

// page reads one record more than the limit when a cursor is given. The
// cursor is inclusive and the record at the cursor was the last one of the
// previous page, so it is skipped.
type page struct {
	options storage.ListOptions
	cursor  []byte
	limit   int
}

func newPage(p *httputils.PageQuery) page {
	o := p.ListOptions()
	pg := page{options: o, cursor: o.Cursor(), limit: int(o.Limit())}

	if len(pg.cursor) > 0 && pg.limit > 0 {
		pg.options = storage.NewDefaultListOptions(o.Reverse(), pg.cursor, o.Limit()+1)
	}

	return pg
}

func (pg page) skip(key []byte) bool {
	return len(pg.cursor) > 0 && bytes.Equal(key, pg.cursor)
}

func (pg page) full(n int) bool {
	return pg.limit > 0 && n >= pg.limit
}
