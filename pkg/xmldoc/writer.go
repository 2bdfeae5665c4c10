package xmldoc

import (
	"bytes"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Writer emits a structured document. The first error is sticky: once a
// write fails every later call is a no-op and Flush reports the failure.
type Writer struct {
	enc *xml.Encoder
	err error
}

// NewWriter creates a writer that emits to dst.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{enc: xml.NewEncoder(dst)}
}

// Start opens an element.
func (w *Writer) Start(name string, attrs ...xml.Attr) {
	w.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

// End closes an element.
func (w *Writer) End(name string) {
	w.token(xml.EndElement{Name: xml.Name{Local: name}})
}

// Element writes <name attrs...>, runs body, then closes the element.
func (w *Writer) Element(name string, attrs []xml.Attr, body func(w *Writer) error) error {
	w.Start(name, attrs...)

	if body != nil && w.err == nil {
		err := body(w)
		if err != nil && w.err == nil {
			w.err = err
		}
	}

	w.End(name)

	return w.err
}

// Leaf writes <name>text</name> unconditionally.
func (w *Writer) Leaf(name, text string) {
	w.Start(name)
	w.token(xml.CharData(text))
	w.End(name)
}

// Empty writes <name attrs.../> with no content.
func (w *Writer) Empty(name string, attrs ...xml.Attr) {
	w.Start(name, attrs...)
	w.End(name)
}

// String writes the element when value is not empty.
func (w *Writer) String(name, value string) {
	if value != "" {
		w.Leaf(name, value)
	}
}

// Strings writes a container element with one <item> child per value, or
// nothing when values is empty.
func (w *Writer) Strings(name, item string, values []string) {
	if len(values) == 0 {
		return
	}

	w.Start(name)

	for _, value := range values {
		w.Leaf(item, value)
	}

	w.End(name)
}

// Int writes the element when value is not zero.
func (w *Writer) Int(name string, value int) {
	if value != 0 {
		w.Leaf(name, strconv.Itoa(value))
	}
}

// Int64 writes the element when value is not zero.
func (w *Writer) Int64(name string, value int64) {
	if value != 0 {
		w.Leaf(name, strconv.FormatInt(value, 10))
	}
}

// Bool writes the element when value is set.
func (w *Writer) Bool(name string, value *bool) {
	if value != nil {
		w.Leaf(name, strconv.FormatBool(*value))
	}
}

// Time writes the element in RFC 3339 (UTC) when value is not zero.
func (w *Writer) Time(name string, value time.Time) {
	if !value.IsZero() {
		w.Leaf(name, value.UTC().Format(time.RFC3339))
	}
}

// UUID writes the element in the API's compact 32-digit hex form when value
// is not the nil UUID.
func (w *Writer) UUID(name string, value uuid.UUID) {
	if value != uuid.Nil {
		w.Leaf(name, CompactUUID(value))
	}
}

// CompactUUID formats id without dashes, as the API prints it in documents
// and resource paths.
func CompactUUID(id uuid.UUID) string {
	return hex.EncodeToString(id[:])
}

// Decimal writes the element when value is not zero.
func (w *Writer) Decimal(name string, value decimal.Decimal) {
	if !value.IsZero() {
		w.Leaf(name, value.String())
	}
}

// Flush writes any buffered output and returns the first error seen.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}

	err := w.enc.Flush()
	if err != nil {
		w.err = fmt.Errorf("flushing document: %w", err)
	}

	return w.err
}

func (w *Writer) token(tok xml.Token) {
	if w.err != nil {
		return
	}

	err := w.enc.EncodeToken(tok)
	if err != nil {
		w.err = fmt.Errorf("encoding document: %w", err)
	}
}

// Marshal encodes v into a standalone document with an XML declaration.
func Marshal(v Encoder) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(xml.Header)

	w := NewWriter(&buf)

	err := v.EncodeXML(w)
	if err != nil {
		return nil, err
	}

	err = w.Flush()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
