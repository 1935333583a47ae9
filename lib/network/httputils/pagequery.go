package httputils

import (
	"fmt"
	"net/http"

	"github.com/photonwings/lottery-smart-contract/lib/errors"
	"github.com/photonwings/lottery-smart-contract/lib/storage"
)

type PageQuery struct {
	request *http.Request
	options *storage.DefaultListOptions
}

func NewPageQuery(r *http.Request) (*PageQuery, error) {
	options, err := storage.NewDefaultListOptionsFromQuery(r.URL.Query())
	if err != nil {
		return nil, errors.BadRequestParameter.Clone().SetData("error", err.Error())
	}

	return &PageQuery{request: r, options: options}, nil
}

func (p *PageQuery) ListOptions() storage.ListOptions {
	return p.options
}

func (p *PageQuery) SelfLink() string {
	return p.request.URL.String()
}

func (p *PageQuery) PrevLink(cursor []byte) string {
	return p.link(cursor, !p.options.Reverse())
}

func (p *PageQuery) NextLink(cursor []byte) string {
	return p.link(cursor, p.options.Reverse())
}

func (p *PageQuery) link(cursor []byte, reverse bool) string {
	o := storage.NewDefaultListOptions(reverse, cursor, p.options.Limit())
	return fmt.Sprintf("%s?%s", p.request.URL.Path, o.Encode())
}
