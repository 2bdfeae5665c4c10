package recurly

import (
	"context"
	"encoding/xml"
	"fmt"
	"reflect"
	"sync"

	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

// ElementEncoder is implemented by entities that can be written under an
// arbitrary element name, as embedded documents are.
type ElementEncoder interface {
	EncodeElement(w *xmldoc.Writer, name string) error
}

// Keyed is implemented by every entity.
type Keyed interface {
	Key() string
}

// Link references a related resource. It holds either the resource itself,
// when the document embedded it, or only its href. Get resolves an href
// through the backend that decoded the link, once, and caches the result for
// the life of the link. A Link is safe for concurrent use.
//
// T must be an entity type whose pointer implements xmldoc.Decoder.
type Link[T any] struct {
	mu       sync.Mutex
	href     string
	value    *T
	resolved bool
	resolver xmldoc.Resolver
}

// NewLink creates an unresolved link to href.
func NewLink[T any](href string) *Link[T] {
	return &Link[T]{href: href}
}

// LinkTo creates a resolved link holding v.
func LinkTo[T any](v *T) *Link[T] {
	return &Link[T]{value: v, resolved: v != nil}
}

// Href returns the referenced resource's URL, if the document carried one.
func (l *Link[T]) Href() string {
	if l == nil {
		return ""
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.href
}

// Resolved reports whether Get can answer without a fetch.
func (l *Link[T]) Resolved() bool {
	if l == nil {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.resolved
}

// Value returns the resource if it is already known, without fetching.
func (l *Link[T]) Value() *T {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.value
}

// Set stores v as the resolved resource.
func (l *Link[T]) Set(v *T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.value = v
	l.resolved = v != nil
}

// Get returns the linked resource, fetching it on first call when only the
// href is known. A resource the server reports as missing, and a link with
// neither href nor value, resolve to nil.
func (l *Link[T]) Get(ctx context.Context) (*T, error) {
	if l == nil {
		return nil, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.resolved {
		return l.value, nil
	}

	if l.href == "" {
		return nil, nil
	}

	if l.resolver == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoResolver, l.href)
	}

	v := new(T)

	decoder, ok := any(v).(xmldoc.Decoder)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not decodable", ErrUnresolvedLink, v)
	}

	err := l.resolver.Resolve(ctx, l.href, decoder)
	if err != nil {
		if IsNotFound(err) {
			l.resolved = true

			return nil, nil
		}

		return nil, fmt.Errorf("resolving %s: %w", l.href, err)
	}

	l.value = v
	l.resolved = true

	return v, nil
}

// DecodeXML reads the href attribute and, when the element embeds the
// resource, the resource itself.
func (l *Link[T]) DecodeXML(r *xmldoc.Reader, start xml.StartElement) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.href, _ = xmldoc.Attr(start, "href")
	l.resolver = r.Resolver

	v := new(T)

	decoder, ok := any(v).(xmldoc.Decoder)
	if !ok {
		return r.Skip()
	}

	err := decoder.DecodeXML(r, start)
	if err != nil {
		return err
	}

	// Any decoded content means the resource is embedded. An href-only
	// element stays lazy.
	if !reflect.ValueOf(v).Elem().IsZero() {
		l.value = v
		l.resolved = true
	}

	return nil
}

// EncodeElement writes the embedded resource under name when it is known,
// or an empty element carrying only the href otherwise.
func (l *Link[T]) EncodeElement(w *xmldoc.Writer, name string) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.value != nil {
		if encoder, ok := any(l.value).(ElementEncoder); ok {
			return encoder.EncodeElement(w, name)
		}
	}

	if l.href != "" {
		w.Empty(name, xml.Attr{Name: xml.Name{Local: "href"}, Value: l.href})
	}

	return nil
}

// KeyOf returns the key of the linked resource if it is known.
func (l *Link[T]) KeyOf() string {
	v := l.Value()
	if v == nil {
		return ""
	}

	if keyed, ok := any(v).(Keyed); ok {
		return keyed.Key()
	}

	return ""
}
