package recurly

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	// KindNotFound is a 404. Single-resource lookups recover it as a nil result.
	KindNotFound ErrorKind = iota + 1
	// KindValidation is any other 4xx, usually carrying field errors.
	KindValidation
	// KindServer is a 5xx. Callers decide whether to retry.
	KindServer
	// KindTransport is a failure below HTTP: DNS, connection, timeout.
	KindTransport
	// KindMalformed is a body that is not the expected document.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation failed"
	case KindServer:
		return "server error"
	case KindTransport:
		return "transport failure"
	case KindMalformed:
		return "malformed response"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrServer            = errors.New("server error")
	ErrTransport         = errors.New("transport failure")
	ErrMalformedResponse = errors.New("malformed response")
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired     = errors.New("config is required")
	ErrNoCredentials      = errors.New("API key or access token is required")
	ErrNoMoreItems        = errors.New("no more items")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrUnresolvedLink     = errors.New("link target cannot be decoded")
	ErrNoResolver         = errors.New("link has no resolver")
	ErrListNotFound       = errors.New("list endpoint not found")
	ErrKeyRequired        = errors.New("resource key is required")
	ErrUnknownFilterKey   = errors.New("unknown filter key")
	ErrUnexpectedRedirect = errors.New("unexpected redirect")
)

// FieldError is one entry of a validation error document.
type FieldError struct {
	Field   string
	Symbol  string
	Message string
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}

	return e.Field + " " + e.Message
}

// Error is returned for every failed call.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	// Errors holds the field-level errors of a validation document.
	Errors []FieldError
	// Symbol and Description come from a single <error> document.
	Symbol      string
	Description string
	// Body is the raw response body, kept when it could not be decoded.
	Body      []byte
	RequestID string
	// Err is the underlying cause for transport and malformed failures.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.Kind.String())

	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status: %d)", e.StatusCode)
	}

	switch {
	case len(e.Errors) == 1:
		b.WriteString(": " + e.Errors[0].String())
	case len(e.Errors) > 1:
		messages := make([]string, 0, len(e.Errors))
		for _, fe := range e.Errors {
			messages = append(messages, fe.String())
		}

		b.WriteString(": " + strings.Join(messages, "; "))
	case e.Description != "":
		b.WriteString(": " + e.Description)
	case e.Symbol != "":
		b.WriteString(": " + e.Symbol)
	case e.Err != nil:
		b.WriteString(": " + e.Err.Error())
	}

	if e.RequestID != "" {
		b.WriteString(" [request id: " + e.RequestID + "]")
	}

	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrServer:
		return e.Kind == KindServer
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrMalformedResponse:
		return e.Kind == KindMalformed
	}

	return false
}

// FirstError returns the first field error or nil.
func (e *Error) FirstError() *FieldError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// HasSymbol reports whether the error or any field error carries symbol.
func (e *Error) HasSymbol(symbol string) bool {
	if e.Symbol == symbol {
		return true
	}

	for _, fe := range e.Errors {
		if fe.Symbol == symbol {
			return true
		}
	}

	return false
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsServerError checks if the error is a server error.
func IsServerError(err error) bool {
	return errors.Is(err, ErrServer)
}

// IsTransport checks if the request never got an HTTP response.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsMalformed checks if the response body could not be decoded.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// NewTransportError wraps a failure that happened before a response was received.
func NewTransportError(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

// NewMalformedError wraps a decode failure of a successful response.
func NewMalformedError(resp *Response, err error) *Error {
	e := &Error{Kind: KindMalformed, Err: err}

	if resp != nil {
		e.StatusCode = resp.StatusCode()
		e.Body = resp.Body()
		e.RequestID, _ = resp.RequestID()
	}

	return e
}

// ErrorFromResponse maps a non-2xx response to an *Error, parsing the error
// document when the body holds one. It returns nil for 2xx responses.
func ErrorFromResponse(resp *Response) error {
	if resp.IsSuccess() {
		return nil
	}

	e := &Error{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}
	e.RequestID, _ = resp.RequestID()

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		e.Kind = KindNotFound
	case resp.StatusCode() >= http.StatusInternalServerError:
		e.Kind = KindServer
	case resp.StatusCode() >= http.StatusBadRequest:
		e.Kind = KindValidation
	default:
		// 1xx and 3xx are never expected from the API.
		e.Kind = KindServer
		e.Err = ErrUnexpectedRedirect
	}

	if len(strings.TrimSpace(string(e.Body))) > 0 {
		// An undecodable error body leaves the raw body and status on e.
		_ = xmldoc.NewReaderBytes(e.Body).DecodeRoot("", (*errorDocument)(e))
	}

	return e
}

// errorDocument decodes either <errors><error field="" symbol="">msg</error></errors>
// or <error><symbol/><description/></error> into the embedded Error.
type errorDocument Error

func (d *errorDocument) DecodeXML(r *xmldoc.Reader, start xml.StartElement) error {
	switch start.Name.Local {
	case "errors":
		return r.Children(func(child xml.StartElement) error {
			if child.Name.Local != "error" {
				return r.Skip()
			}

			fe := FieldError{}
			fe.Field, _ = xmldoc.Attr(child, "field")
			fe.Symbol, _ = xmldoc.Attr(child, "symbol")

			message, err := r.Text()
			if err != nil {
				return err
			}

			fe.Message = message
			d.Errors = append(d.Errors, fe)

			return nil
		})
	case "error":
		return xmldoc.Decode(r, d, errorDocumentFields)
	default:
		return r.Skip()
	}
}

var errorDocumentFields = xmldoc.Fields[errorDocument]{
	"symbol":      xmldoc.String(func(d *errorDocument) *string { return &d.Symbol }),
	"description": xmldoc.String(func(d *errorDocument) *string { return &d.Description }),
}
