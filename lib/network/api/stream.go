package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	observable "github.com/GianlucaGuarini/go-observable"

	"github.com/photonwings/lottery-smart-contract/lib/common/observer"
	"github.com/photonwings/lottery-smart-contract/lib/metrics"
	"github.com/photonwings/lottery-smart-contract/lib/network/httputils"
	"github.com/photonwings/lottery-smart-contract/lib/raffle"
)

const DefaultContentType = httputils.JSONContentType

var errNotFlusher = errors.New("http: response can not be streamed")

// RenderFunc renders one line of the stream. `event` is empty for the
// initial state written by `Render`.
type RenderFunc func(event string, v interface{}) ([]byte, error)

func RenderJSONFunc(_ string, v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	if h, ok := v.(httputils.HALResource); ok {
		return json.Marshal(h.Resource())
	}

	return json.Marshal(v)
}

type raffleEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// RenderRaffleEventFunc wraps the raffle notifications with their event
// name, `{"event":"entered","data":{..}}`; other values are rendered by
// RenderJSONFunc.
func RenderRaffleEventFunc(event string, v interface{}) ([]byte, error) {
	var name string
	switch v.(type) {
	case raffle.Entered:
		name = observer.EventEntered
	case raffle.UpkeepPerformed:
		name = observer.EventUpkeepPerformed
	case raffle.WinnerPicked:
		name = observer.EventWinnerPicked
	default:
		return RenderJSONFunc(event, v)
	}

	return json.Marshal(raffleEvent{Event: name, Data: v})
}

// EventStream writes one rendered JSON value per line and flushes after each
// of them.
type EventStream struct {
	w           http.ResponseWriter
	r           *http.Request
	flusher     http.Flusher
	render      RenderFunc
	contentType string
	wroteHeader bool
	err         error
}

func NewDefaultEventStream(w http.ResponseWriter, r *http.Request) *EventStream {
	return NewEventStream(w, r, RenderJSONFunc, DefaultContentType)
}

// NewEventStream answers 500 right away when `w` can not flush; the stream
// then does nothing.
func NewEventStream(w http.ResponseWriter, r *http.Request, render RenderFunc, contentType string) *EventStream {
	s := &EventStream{w: w, r: r, render: render, contentType: contentType}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		s.err = errNotFlusher
		return s
	}
	s.flusher = flusher

	return s
}

func (s *EventStream) renderLine(event string, v interface{}) []byte {
	b, err := s.render(event, v)
	if err == nil {
		return b
	}

	b, err = json.Marshal(httputils.NewErrorProblem(err, httputils.StatusCode(err)))
	if err != nil {
		return nil
	}

	return b
}

func (s *EventStream) setHeader() {
	if s.wroteHeader {
		return
	}
	s.w.Header().Set("Content-Type", s.contentType)
	s.wroteHeader = true
}

func (s *EventStream) writeLine(b []byte) {
	s.setHeader()
	s.w.Write(append(b, '\n'))
	s.flusher.Flush()
}

// Render writes `v` as the current state, before any event.
func (s *EventStream) Render(v interface{}) {
	if s.err != nil {
		return
	}
	s.writeLine(s.renderLine("", v))
}

// Start registers the listener and returns the func which streams the
// events until the client goes away. Registering before the first Render
// keeps the events fired in between:
//
// 	run := es.Start(observer.LedgerObserver, "address-"+address)
// 	es.Render(account)
// 	run()
func (s *EventStream) Start(ob *observable.Observable, events ...string) func() {
	if s.err != nil {
		return func() {}
	}

	event := strings.Join(events, " ")
	lines := make(chan []byte)
	done := make(chan struct{})

	listener := func(args ...interface{}) {
		var v interface{}
		if len(args) > 0 {
			v = args[0]
		}
		line := s.renderLine(event, v)

		select {
		case lines <- line:
		case <-done:
		}
	}
	ob.On(event, listener)

	return func() {
		defer ob.Off(event, listener)
		defer close(done)

		metrics.API.StreamsOpen.Add(1)
		defer metrics.API.StreamsOpen.Add(-1)

		s.setHeader()
		s.flusher.Flush()

		for {
			select {
			case line := <-lines:
				s.writeLine(line)
			case <-s.r.Context().Done():
				return
			}
		}
	}
}
