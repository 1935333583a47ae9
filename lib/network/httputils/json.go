package httputils

import (
	"encoding/json"
	"net/http"

	"github.com/nvellon/hal"
)

type HALResource interface {
	Resource() *hal.Resource
}

const (
	JSONContentType = "application/json"
	HALContentType  = "application/hal+json"
)

// WriteJSON writes `v` with the content type of its kind: HAL resources as
// "application/hal+json", errors and problems as problem+json and anything
// else as plain JSON.
func WriteJSON(w http.ResponseWriter, code int, v interface{}) error {
	contentType := JSONContentType
	switch t := v.(type) {
	case HALResource:
		contentType = HALContentType
		v = t.Resource()
	case Problem:
		contentType = ProblemContentType
	case error:
		contentType = ProblemContentType
		v = NewErrorProblem(t, code)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	_, err = w.Write(b)

	return err
}

// WriteError writes `err` as a problem; the status comes from `StatusCode`.
func WriteError(w http.ResponseWriter, err error) error {
	return WriteJSON(w, StatusCode(err), err)
}
