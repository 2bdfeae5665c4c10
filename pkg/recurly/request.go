package recurly

import (
	"net/http"

	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

// Request is one call to the API, as seen by the dispatcher and interceptors.
type Request struct {
	Method string
	// Path is relative to the configured endpoint ("/accounts/abc") or an
	// absolute URL, as returned by next-page links. It is sent as given, so
	// callers escape path segments and append the query themselves.
	Path string
	// Headers are added to the request after the standard ones.
	Headers http.Header
	// Body, when set, is serialized as the request document.
	Body     xmldoc.Encoder
	Metadata map[string]interface{}
}

// NewRequest creates a request without a body.
func NewRequest(method, path string) *Request {
	return &Request{Method: method, Path: path}
}
