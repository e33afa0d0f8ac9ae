package couchbase

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/13rac1/ddsync/internal/redactor"
	log "github.com/sirupsen/logrus"
)

// loggingTransport logs requests at Debug and bodies at Trace.
type loggingTransport struct {
	next http.RoundTripper
	log  log.FieldLogger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	fields := log.Fields{
		"method": req.Method,
		"url":    redactor.Redact(req.URL.Redacted()),
	}

	if traceEnabled(t.log) && req.Body != nil && req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			data, _ := io.ReadAll(body)
			_ = body.Close()
			t.log.WithFields(fields).WithField("headers", redactor.Header(req.Header)).
				Trace("request body: " + redactor.Redact(string(data)))
		}
	}

	resp, err := t.next.RoundTrip(req)
	fields["duration_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		t.log.WithFields(fields).WithError(err).Debug("request failed")
		return nil, err
	}

	fields["status"] = resp.StatusCode
	t.log.WithFields(fields).Debug("request")

	if traceEnabled(t.log) && resp.Body != nil {
		data, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(data))
		if readErr == nil {
			t.log.WithFields(fields).Trace("response body: " + redactor.Redact(string(data)))
		}
	}

	return resp, nil
}

func traceEnabled(l log.FieldLogger) bool {
	switch v := l.(type) {
	case *log.Logger:
		return v.IsLevelEnabled(log.TraceLevel)
	case *log.Entry:
		return v.Logger.IsLevelEnabled(log.TraceLevel)
	default:
		return false
	}
}
