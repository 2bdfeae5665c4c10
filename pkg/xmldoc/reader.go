package xmldoc

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Static errors for err113 compliance.
var (
	ErrMalformed    = errors.New("malformed document")
	ErrNoRoot       = errors.New("document has no root element")
	ErrRootMismatch = errors.New("unexpected root element")
)

// Decoder is implemented by every type that can populate itself from a
// document. DecodeXML is called with the reader positioned just after start
// and must consume everything up to and including the matching end tag.
type Decoder interface {
	DecodeXML(r *Reader, start xml.StartElement) error
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(r *Reader, start xml.StartElement) error

// DecodeXML calls f.
func (f DecoderFunc) DecodeXML(r *Reader, start xml.StartElement) error {
	return f(r, start)
}

// Encoder is implemented by every type that can write itself as a document.
type Encoder interface {
	EncodeXML(w *Writer) error
}

// Resolver fetches the document at href and decodes it into v.
type Resolver interface {
	Resolve(ctx context.Context, href string, v Decoder) error
}

// Reader is a forward-only cursor over a structured document.
type Reader struct {
	dec *xml.Decoder

	// Resolver is handed to lazily linked fields so that they can fetch the
	// referenced document on first access. It may be nil.
	Resolver Resolver
}

// NewReader creates a reader over src.
func NewReader(src io.Reader) *Reader {
	return &Reader{dec: xml.NewDecoder(src)}
}

// NewReaderBytes creates a reader over an in-memory document.
func NewReaderBytes(data []byte) *Reader {
	return NewReader(bytes.NewReader(data))
}

// WithResolver sets the resolver used by lazily linked fields and returns r.
func (r *Reader) WithResolver(resolver Resolver) *Reader {
	r.Resolver = resolver

	return r
}

// Root advances past the prolog and returns the root start element.
func (r *Reader) Root() (xml.StartElement, error) {
	for {
		tok, err := r.dec.Token()
		if errors.Is(err, io.EOF) {
			return xml.StartElement{}, fmt.Errorf("%w: %w", ErrMalformed, ErrNoRoot)
		}

		if err != nil {
			return xml.StartElement{}, r.wrap(err)
		}

		if start, ok := tok.(xml.StartElement); ok {
			return start.Copy(), nil
		}
	}
}

// DecodeRoot reads the root element and hands it to v. When name is not
// empty the root element must carry that name.
func (r *Reader) DecodeRoot(name string, v Decoder) error {
	start, err := r.Root()
	if err != nil {
		return err
	}

	if name != "" && start.Name.Local != name {
		return fmt.Errorf("%w: %w: got <%s>, want <%s>", ErrMalformed, ErrRootMismatch, start.Name.Local, name)
	}

	return v.DecodeXML(r, start)
}

// Children calls fn for every direct child element of the element whose
// start tag was read last, and returns once its end tag is consumed. fn must
// consume the child completely, via Text, Skip, Children or a DecodeXML call.
func (r *Reader) Children(fn func(start xml.StartElement) error) error {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return r.wrap(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			err = fn(t.Copy())
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// Elements decodes every child named name through newItem, in document order.
// Children with any other name are skipped.
func (r *Reader) Elements(name string, newItem func() Decoder) error {
	return r.Children(func(start xml.StartElement) error {
		if start.Name.Local != name {
			return r.Skip()
		}

		return newItem().DecodeXML(r, start)
	})
}

// Text returns the trimmed character data of the current element and
// consumes its end tag. Nested elements are skipped.
func (r *Reader) Text() (string, error) {
	var builder strings.Builder

	for {
		tok, err := r.dec.Token()
		if err != nil {
			return "", r.wrap(err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			builder.Write(t)
		case xml.StartElement:
			err = r.dec.Skip()
			if err != nil {
				return "", r.wrap(err)
			}
		case xml.EndElement:
			return strings.TrimSpace(builder.String()), nil
		}
	}
}

// Skip consumes the rest of the current element.
func (r *Reader) Skip() error {
	err := r.dec.Skip()
	if err != nil {
		return r.wrap(err)
	}

	return nil
}

func (r *Reader) wrap(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}

	return fmt.Errorf("%w: %w", ErrMalformed, err)
}

// Attr returns the value of the named attribute on start.
func Attr(start xml.StartElement, name string) (string, bool) {
	for _, attr := range start.Attr {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}

	return "", false
}

// IsNil reports whether start is marked nil="nil" (or nil="true"), which the
// API uses for explicitly empty values.
func IsNil(start xml.StartElement) bool {
	value, ok := Attr(start, "nil")

	return ok && (value == "nil" || value == "true")
}

// Unmarshal decodes data, which must have a root element named name, into v.
func Unmarshal(data []byte, name string, v Decoder) error {
	return NewReaderBytes(data).DecodeRoot(name, v)
}

// Expect wraps v so that decoding fails with ErrRootMismatch unless the
// element handed to it is named name.
func Expect(name string, v Decoder) Decoder {
	return DecoderFunc(func(r *Reader, start xml.StartElement) error {
		if start.Name.Local != name {
			return fmt.Errorf("%w: %w: got <%s>, want <%s>", ErrMalformed, ErrRootMismatch, start.Name.Local, name)
		}

		return v.DecodeXML(r, start)
	})
}
