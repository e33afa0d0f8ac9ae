package couchbase

import (
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
)

// SyncError is returned when the server rejects a design document.
type SyncError struct {
	Bucket     string
	Document   string
	StatusCode int
	// Errors holds the field to message pairs from the response body.
	// Never nil; empty when the body was missing or not a JSON object.
	Errors map[string]string
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("Unable to create bucket '%s'", e.Bucket)
}

// Keys returns the error field names in sorted order.
func (e *SyncError) Keys() []string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseErrors reads a rejection body as a JSON object of field to message.
// String values are unquoted; other values keep their raw JSON text.
// Anything that is not a valid JSON object yields an empty map.
func parseErrors(body []byte) map[string]string {
	errs := make(map[string]string)
	if !gjson.ValidBytes(body) {
		return errs
	}

	result := gjson.ParseBytes(body)
	if !result.IsObject() {
		return errs
	}

	result.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.String {
			errs[key.String()] = value.String()
		} else {
			errs[key.String()] = value.Raw
		}
		return true
	})
	return errs
}
