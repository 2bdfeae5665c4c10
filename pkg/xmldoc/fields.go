package xmldoc

import (
	"encoding/xml"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FieldFunc reads one child element into v. It is called with the reader
// positioned after the child's start tag and must consume the child.
type FieldFunc[T any] func(v *T, r *Reader, start xml.StartElement) error

// Fields maps element names to the readers for the fields of T.
type Fields[T any] map[string]FieldFunc[T]

// Decode walks the children of the current element once, dispatching known
// elements through fields and skipping everything else, including elements
// marked nil.
func Decode[T any](r *Reader, v *T, fields Fields[T]) error {
	return r.Children(func(start xml.StartElement) error {
		read, ok := fields[start.Name.Local]
		if !ok || IsNil(start) {
			return r.Skip()
		}

		return read(v, r, start)
	})
}

// Text reads the element's character data and passes it to set.
func Text[T any](set func(v *T, text string)) FieldFunc[T] {
	return func(v *T, r *Reader, _ xml.StartElement) error {
		text, err := r.Text()
		if err != nil {
			return err
		}

		set(v, text)

		return nil
	}
}

// String stores the element's text in the field returned by field.
func String[T any](field func(v *T) *string) FieldFunc[T] {
	return Text(func(v *T, text string) {
		*field(v) = text
	})
}

// Strings appends the text of every child element to the slice returned by
// field, for list-valued fields such as <cc_emails>.
func Strings[T any](field func(v *T) *[]string) FieldFunc[T] {
	return func(v *T, r *Reader, _ xml.StartElement) error {
		return r.Children(func(xml.StartElement) error {
			text, err := r.Text()
			if err != nil {
				return err
			}

			if text != "" {
				*field(v) = append(*field(v), text)
			}

			return nil
		})
	}
}

// Int stores the element's text as an int. Unparseable text leaves the field unchanged.
func Int[T any](field func(v *T) *int) FieldFunc[T] {
	return Text(func(v *T, text string) {
		n, err := strconv.Atoi(text)
		if err == nil {
			*field(v) = n
		}
	})
}

// Int64 stores the element's text as an int64. Unparseable text leaves the field unchanged.
func Int64[T any](field func(v *T) *int64) FieldFunc[T] {
	return Text(func(v *T, text string) {
		n, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			*field(v) = n
		}
	})
}

// Bool stores the element's text as a *bool so that "false" and "unset"
// stay distinguishable. Unparseable text leaves the field unchanged.
func Bool[T any](field func(v *T) **bool) FieldFunc[T] {
	return Text(func(v *T, text string) {
		b, err := strconv.ParseBool(text)
		if err == nil {
			*field(v) = &b
		}
	})
}

// Time stores the element's text as an RFC 3339 timestamp. Unparseable
// text leaves the field unchanged.
func Time[T any](field func(v *T) *time.Time) FieldFunc[T] {
	return Text(func(v *T, text string) {
		t, err := time.Parse(time.RFC3339, text)
		if err == nil {
			*field(v) = t
		}
	})
}

// UUID stores the element's text as a UUID. Unparseable text leaves the field unchanged.
func UUID[T any](field func(v *T) *uuid.UUID) FieldFunc[T] {
	return Text(func(v *T, text string) {
		id, err := uuid.Parse(text)
		if err == nil {
			*field(v) = id
		}
	})
}

// Decimal stores the element's text as a decimal. Unparseable text leaves the field unchanged.
func Decimal[T any](field func(v *T) *decimal.Decimal) FieldFunc[T] {
	return Text(func(v *T, text string) {
		d, err := decimal.NewFromString(text)
		if err == nil {
			*field(v) = d
		}
	})
}

// Href stores the element's href attribute and skips its content.
func Href[T any](set func(v *T, href string)) FieldFunc[T] {
	return func(v *T, r *Reader, start xml.StartElement) error {
		if href, ok := Attr(start, "href"); ok {
			set(v, href)
		}

		return r.Skip()
	}
}

// Nested decodes an embedded document into the value returned by field.
func Nested[T any](field func(v *T) Decoder) FieldFunc[T] {
	return func(v *T, r *Reader, start xml.StartElement) error {
		return field(v).DecodeXML(r, start)
	}
}
