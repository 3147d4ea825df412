package log

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// appendFields writes alternating key/value pairs to a zerolog event.
// A leading error, or any value stored under ErrAttrKey, is expanded with
// its typed fields and the cockroachdb/errors stack trace.
func appendFields(e *zerolog.Event, fields []any) *zerolog.Event {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			e = appendError(e, err)
			fields = fields[1:]
		}
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case error:
			if key == ErrAttrKey {
				e = appendError(e, v)
			} else {
				e = e.Str(key, v.Error())
			}
		case string:
			e = e.Str(key, v)
		case int:
			e = e.Int(key, v)
		case float64:
			e = e.Float64(key, v)
		case bool:
			e = e.Bool(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}

func appendContext(c zerolog.Context, fields []any) zerolog.Context {
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		if err, ok := fields[i+1].(error); ok {
			c = c.Str(key, err.Error())
			continue
		}
		c = c.Interface(key, fields[i+1])
	}
	return c
}

// appendError は Error() の文字列を ErrAttrKey に書く。AnErr は
// LogObjectMarshaler を実装したエラーをオブジェクトにしてしまうため使わない。
func appendError(e *zerolog.Event, err error) *zerolog.Event {
	e = e.Str(ErrAttrKey, err.Error())
	var m zerolog.LogObjectMarshaler
	if errors.As(err, &m) {
		e = e.Object(ErrorDetailKey, m)
	}
	if st := extractStacktrace(err); st != "" {
		e = e.Str(StacktraceAttrKey, st)
	}
	return e
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
