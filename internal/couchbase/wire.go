package couchbase

import "strings"

// DesignDocPath returns the REST path of a design document.
func DesignDocPath(bucket, name string) string {
	return "/" + bucket + "/_design/" + name
}

// WireBody serializes an assembled body for the wire. Every newline becomes
// the two-character escape \n, for flat and composite documents alike.
func WireBody(body string) string {
	return strings.ReplaceAll(body, "\n", `\n`)
}
