package common

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"time"

	logging "github.com/inconshreveable/log15"

	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

var DefaultLogHandler logging.Handler = logging.StreamHandler(os.Stdout, logging.TerminalFormat())

// SetLoggingWith filters the records of `logger` below `level`.
func SetLoggingWith(logger logging.Logger, level logging.Lvl, handler logging.Handler) {
	logger.SetHandler(logging.LvlFilterHandler(level, handler))
}

// NopLogger discards everything; components take it when no logger is given.
func NopLogger() logging.Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (l nopLogger) New(ctx ...interface{}) logging.Logger { return l }
func (nopLogger) GetHandler() logging.Handler             { return logging.DiscardHandler() }
func (nopLogger) SetHandler(logging.Handler)              {}
func (nopLogger) Debug(msg string, ctx ...interface{})    {}
func (nopLogger) Info(msg string, ctx ...interface{})     {}
func (nopLogger) Warn(msg string, ctx ...interface{})     {}
func (nopLogger) Error(msg string, ctx ...interface{})    {}
func (nopLogger) Crit(msg string, ctx ...interface{})     {}

const logFormatErrorKey = "LOG15_ERROR"

// logValue makes the context values JSON friendly. `*errors.Error` keeps its
// code and data; other errors become their message.
func logValue(value interface{}) (v interface{}) {
	defer func() {
		if r := recover(); r != nil {
			if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr && rv.IsNil() {
				v = "nil"
				return
			}
			panic(r)
		}
	}()

	switch t := value.(type) {
	case *errors.Error, json.Marshaler:
		return t
	case time.Time:
		return FormatISO8601(t)
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	}

	return value
}

// JSONFormat writes one JSON object per record and line.
func JSONFormat() logging.Format {
	return logging.FormatFunc(func(r *logging.Record) []byte {
		record := map[string]interface{}{
			r.KeyNames.Time: FormatISO8601(r.Time),
			r.KeyNames.Lvl:  r.Lvl.String(),
			r.KeyNames.Msg:  r.Msg,
		}

		for i := 0; i+1 < len(r.Ctx); i += 2 {
			key, ok := r.Ctx[i].(string)
			if !ok {
				record[logFormatErrorKey] = fmt.Sprintf("%+v is not a string key", r.Ctx[i])
				continue
			}
			record[key] = logValue(r.Ctx[i+1])
		}

		b, err := json.Marshal(record)
		if err != nil {
			b, _ = json.Marshal(map[string]string{logFormatErrorKey: err.Error()})
		}

		return append(b, '\n')
	})
}

