package httputils

import (
	"fmt"
	"net/http"

	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

const (
	ProblemContentType = "application/problem+json"
	ProblemTypePrefix  = "https://github.com/photonwings/lottery-smart-contract/problem/"
)

// Problem is a `application/problem+json` document, see RFC 7807.
type Problem struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status,omitempty"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	Code     uint                   `json:"code,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

func NewStatusProblem(status int) Problem {
	return Problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
	}
}

func NewDetailedStatusProblem(status int, detail string) Problem {
	p := NewStatusProblem(status)
	p.Detail = detail

	return p
}

func NewErrorProblem(err error, status int) Problem {
	e, ok := err.(*errors.Error)
	if !ok {
		return NewDetailedStatusProblem(status, err.Error())
	}

	return Problem{
		Type:   fmt.Sprintf("%serror-%d", ProblemTypePrefix, e.Code),
		Title:  e.Message,
		Status: status,
		Code:   e.Code,
		Data:   e.Data,
	}
}

func (p Problem) SetInstance(instance string) Problem {
	p.Instance = instance
	return p
}

// ToError returns the `errors.Error` of the problem; it is used by the clients
// to restore the error returned by the server.
func (p Problem) ToError() *errors.Error {
	if p.Code == 0 {
		return errors.NewError(0, fmt.Sprintf("%d %s: %s", p.Status, p.Title, p.Detail))
	}

	e := errors.NewError(p.Code, p.Title)
	for k, v := range p.Data {
		e.SetData(k, v)
	}

	return e
}
