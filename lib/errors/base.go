package errors

import "encoding/json"

// Error is a coded error. The predefined errors are templates: call `Clone`
// before attaching data, so the shared instance stays untouched.
type Error struct {
	Code    uint                   `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

func NewError(code uint, message string) *Error {
	return &Error{Code: code, Message: message, Data: map[string]interface{}{}}
}

// Error returns the JSON form, `{"code":..,"message":..,"data":..}`.
func (e *Error) Error() string {
	b, err := json.Marshal(e)
	if err != nil {
		return e.Message
	}

	return string(b)
}

func (e *Error) SetData(k string, v interface{}) *Error {
	if e.Data == nil {
		e.Data = map[string]interface{}{}
	}
	e.Data[k] = v

	return e
}

func (e *Error) GetData(k string) (interface{}, bool) {
	v, found := e.Data[k]
	return v, found
}

func (e *Error) Clone() *Error {
	c := &Error{
		Code:    e.Code,
		Message: e.Message,
		Data:    make(map[string]interface{}, len(e.Data)),
	}
	for k, v := range e.Data {
		c.Data[k] = v
	}

	return c
}

// Equal reports whether two errors carry the same code; `Data` is ignored so a
// cloned error still matches its predefined origin.
func (e *Error) Equal(err error) bool {
	if e == nil || err == nil {
		return false
	}
	t, ok := err.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.Code == t.Code
}

// Is returns true when `err` is a `*Error` with the same code as `target`.
func Is(err error, target *Error) bool {
	return target.Equal(err)
}

// Wrap clones `e` and keeps the cause under the "error" data key.
func Wrap(e *Error, cause error) *Error {
	n := e.Clone()
	if cause != nil {
		n.SetData("error", cause.Error())
	}

	return n
}
