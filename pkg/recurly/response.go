package recurly

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/recurly-client/internal/constants"
)

// Header is one response header line.
type Header struct {
	Name  string
	Value string
}

// Response is an immutable capture of one HTTP exchange. Every accessor for
// an optional header reports whether the header was present; a missing or
// unparseable header is "unknown", never an error and never zero.
type Response struct {
	statusCode int
	headers    []Header
	body       []byte
}

// NewResponse captures status, header, and body. Header names are stored in
// canonical form, sorted by name; values of a repeated header keep their
// received order.
func NewResponse(statusCode int, header http.Header, body []byte) *Response {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}

	slices.Sort(names)

	headers := make([]Header, 0, len(names))
	for _, name := range names {
		for _, value := range header[name] {
			headers = append(headers, Header{Name: http.CanonicalHeaderKey(name), Value: value})
		}
	}

	return &Response{
		statusCode: statusCode,
		headers:    headers,
		body:       slices.Clone(body),
	}
}

// StatusCode returns the HTTP status code, or 0 for a nil response.
func (r *Response) StatusCode() int {
	if r == nil {
		return 0
	}

	return r.statusCode
}

// Body returns the raw body. Callers must not modify it.
func (r *Response) Body() []byte {
	return r.body
}

// Headers returns a copy of all header lines.
func (r *Response) Headers() []Header {
	return slices.Clone(r.headers)
}

// IsSuccess reports whether the status is in the 2xx class.
func (r *Response) IsSuccess() bool {
	return r.statusCode >= http.StatusOK && r.statusCode < http.StatusMultipleChoices
}

// Header returns the first value of the header whose canonical name is
// exactly name.
func (r *Response) Header(name string) (string, bool) {
	for _, h := range r.headers {
		if h.Name == name {
			return h.Value, true
		}
	}

	return "", false
}

// TotalRecords returns the number of records across all pages.
func (r *Response) TotalRecords() (int, bool) {
	n, ok := r.intHeader(constants.HeaderTotalRecords)
	if ok {
		return n, true
	}

	return r.intHeader(constants.HeaderLegacyTotalRecords)
}

// RateLimitLimit returns the request quota of the current window.
func (r *Response) RateLimitLimit() (int, bool) {
	return r.intHeader(constants.HeaderRateLimitLimit)
}

// RateLimitRemaining returns the requests left in the current window.
func (r *Response) RateLimitRemaining() (int, bool) {
	return r.intHeader(constants.HeaderRateLimitRemaining)
}

// RateLimitReset returns when the current window ends.
func (r *Response) RateLimitReset() (time.Time, bool) {
	value, ok := r.Header(constants.HeaderRateLimitReset)
	if !ok {
		return time.Time{}, false
	}

	epoch, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	return time.Unix(epoch, 0).UTC(), true
}

// RequestID returns the server's request identifier, for support tickets.
func (r *Response) RequestID() (string, bool) {
	return r.Header(constants.HeaderRequestID)
}

// ContentType returns the media type of the body without parameters.
func (r *Response) ContentType() (string, bool) {
	value, ok := r.Header(constants.HeaderContentType)
	if !ok {
		return "", false
	}

	mediaType, _, _ := strings.Cut(value, ";")

	return strings.TrimSpace(mediaType), true
}

// NextURL returns the rel="next" target of the Link header.
func (r *Response) NextURL() (string, bool) {
	return r.link("next")
}

// PrevURL returns the rel="prev" target of the Link header.
func (r *Response) PrevURL() (string, bool) {
	return r.link("prev")
}

// StartURL returns the rel="start" target of the Link header.
func (r *Response) StartURL() (string, bool) {
	return r.link("start")
}

func (r *Response) link(rel string) (string, bool) {
	for _, h := range r.headers {
		if h.Name != constants.HeaderLink {
			continue
		}

		target, ok := ParseLinkHeader(h.Value)[rel]
		if ok {
			return target, true
		}
	}

	return "", false
}

func (r *Response) intHeader(name string) (int, bool) {
	value, ok := r.Header(name)
	if !ok {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}

	return n, true
}

// ParseLinkHeader parses an RFC 8288 Link header value into a map from
// relation type to target URL. Entries with several space-separated relation
// types are recorded under each; the first entry wins for a repeated relation.
// Malformed entries are skipped.
func ParseLinkHeader(value string) map[string]string {
	links := make(map[string]string)

	rest := value
	for {
		open := strings.IndexByte(rest, '<')
		if open < 0 {
			return links
		}

		end := strings.IndexByte(rest[open:], '>')
		if end < 0 {
			return links
		}

		target := rest[open+1 : open+end]
		rest = rest[open+end+1:]

		// Parameters run until the next link-value, which starts with '<'.
		params := rest
		if next := strings.IndexByte(rest, '<'); next >= 0 {
			params = rest[:next]
			rest = rest[next:]
		} else {
			rest = ""
		}

		for _, rel := range linkRelations(params) {
			if _, seen := links[rel]; !seen {
				links[rel] = target
			}
		}
	}
}

func linkRelations(params string) []string {
	for _, param := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
			continue
		}

		value = strings.TrimSpace(value)
		value = strings.TrimRight(value, ", ")
		value = strings.Trim(value, `"`)

		return strings.Fields(strings.ToLower(value))
	}

	return nil
}
