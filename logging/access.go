package logging

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	dateFormat      = "02/Jan/2006:15:04:05 -0700"
	commonLogFormat = `%s - - [%s] "%s %s %s" %d %d`
	// format:
	// remote_host - - [date] "method uri protocol" status response_size "referer" "user_agent"
	combinedLogFormat = commonLogFormat + ` "%s" "%s"`
	// duration in ms, requested host and served endpoint
	accessLogFormat = combinedLogFormat + " %d %s %s\n"
)

type accessLogFormatter struct {
	format string
}

// AccessEntry is an access log entry.
type AccessEntry struct {

	// The client request.
	Request *http.Request

	// The status code of the response.
	StatusCode int

	// The size of the response in bytes.
	ResponseSize int64

	// The time spent processing request.
	Duration time.Duration

	// The time that the request was received.
	RequestTime time.Time

	// The qualified name of the endpoint that served the request.
	Endpoint string
}

var accessLog *logrus.Logger

// accessKeys are the fields of an access entry, in the order of the text
// format.
var accessKeys = []string{
	"host", "timestamp", "method", "uri", "proto",
	"status", "response-size", "referer", "user-agent",
	"duration", "requested-host", "endpoint",
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

// clientHost returns the address of the client without the port. The
// X-Forwarded-For header, when set, wins over the remote address.
func clientHost(r *http.Request) string {
	a := r.Header.Get("X-Forwarded-For")
	if a == "" {
		a = r.RemoteAddr
	}

	if h, _, err := net.SplitHostPort(a); err == nil {
		a = h
	}

	return orDash(a)
}

func requestFields(r *http.Request) logrus.Fields {
	if r == nil {
		return logrus.Fields{
			"host":           "-",
			"method":         "",
			"uri":            "",
			"proto":          "",
			"referer":        "",
			"user-agent":     "",
			"requested-host": "-",
		}
	}

	return logrus.Fields{
		"host":           clientHost(r),
		"method":         r.Method,
		"uri":            r.RequestURI,
		"proto":          r.Proto,
		"referer":        r.Referer(),
		"user-agent":     r.UserAgent(),
		"requested-host": orDash(r.Host),
	}
}

func (f *accessLogFormatter) Format(e *logrus.Entry) ([]byte, error) {
	values := make([]any, len(accessKeys))
	for i, key := range accessKeys {
		values[i] = e.Data[key]
	}

	return fmt.Appendf(nil, f.format, values...), nil
}

// LogAccess logs an access event in Apache combined log format, extended
// with the duration, the requested host and the endpoint.
func LogAccess(entry *AccessEntry) {
	if accessLog == nil || entry == nil {
		return
	}

	fields := requestFields(entry.Request)
	fields["timestamp"] = entry.RequestTime.Format(dateFormat)
	fields["status"] = entry.StatusCode
	fields["response-size"] = entry.ResponseSize
	fields["duration"] = entry.Duration.Milliseconds()
	fields["endpoint"] = orDash(entry.Endpoint)
	accessLog.WithFields(fields).Infoln()
}
