package network

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ulule/limiter"
	"github.com/ulule/limiter/drivers/middleware/stdlib"
	"github.com/ulule/limiter/drivers/store/memory"

	"github.com/photonwings/lottery-smart-contract/lib/errors"
	"github.com/photonwings/lottery-smart-contract/lib/metrics"
	"github.com/photonwings/lottery-smart-contract/lib/network/httputils"
)

func RecoverMiddleware(printStack bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("panic: %v", r)
					}
					httputils.WriteJSON(w, http.StatusInternalServerError, err)
					log.Error("recover an panic", "err", err)
					if printStack {
						debug.PrintStack()
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware limits the requests by client ip; `rate` is formatted
// like "100-S", see `limiter.NewRateFromFormatted`.
func RateLimitMiddleware(rate string) (mux.MiddlewareFunc, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}

	l := limiter.New(memory.NewStore(), r)
	m := stdlib.NewMiddleware(
		l,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			httputils.WriteError(w, errors.TooManyRequests)
		}),
	)

	return m.Handler, nil
}

// MetricsMiddleware counts the requests by route template.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()

		rec := newResponseRecorder(w)
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		metrics.API.Observe(route, r.Method, rec.status, begin)
	})
}

const RequestIDHeader = "X-Request-Id"

// RequestIDMiddleware keeps the request id given by the client, or sets a new
// one, in the request and the response headers.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if len(id) < 1 {
			id = uuid.New().String()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)

		next.ServeHTTP(w, r)
	})
}
