package couchbase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWireBody(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no newlines", `{"views":{}}`, `{"views":{}}`},
		{"newline in function", "{\"map\":\"a\nb\"}", `{"map":"a\nb"}`},
		{"newlines between tokens", "{\n  \"views\": {}\n}", `{\n  "views": {}\n}`},
		{"carriage return untouched", "a\r\nb", "a\r\\nb"},
		{"already escaped stays single", `a\nb`, `a\nb`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WireBody(tt.in))
		})
	}
}

func TestDesignDocPath(t *testing.T) {
	assert.Equal(t, "/test_design/_design/testDocumentDesign", DesignDocPath("test_design", "testDocumentDesign"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]string
	}{
		{"empty body", "", map[string]string{}},
		{"not json", "Service Unavailable", map[string]string{}},
		{"json array", `["a","b"]`, map[string]string{}},
		{"json string", `"oops"`, map[string]string{}},
		{"truncated object", `{"error":"bad`, map[string]string{}},
		{"string fields", `{"error":"bad_request","reason":"invalid"}`, map[string]string{"error": "bad_request", "reason": "invalid"}},
		{"non-string fields keep raw json", `{"code":42,"ok":false,"detail":{"line":3}}`, map[string]string{"code": "42", "ok": "false", "detail": `{"line":3}`}},
		{"empty object", `{}`, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseErrors([]byte(tt.body))
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}
