package httpcache

import "net/http"

// NopClient is the `Cache` of a node without cache adapter; every request
// reaches the handler.
type NopClient struct{}

func NewNopClient() *NopClient {
	return &NopClient{}
}

func (NopClient) WrapHandlerFunc(h http.HandlerFunc) http.HandlerFunc {
	return h
}

var _ Cache = (*NopClient)(nil)
