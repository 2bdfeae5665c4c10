package recurly

import (
	"context"
	"encoding/xml"
	"fmt"
	"iter"
	"net/http"
	"sync"

	"github.com/fivetwenty-io/recurly-client/pkg/xmldoc"
)

// Backend executes requests. It is implemented by the HTTP dispatcher and
// doubles as the resolver for lazily linked resources.
type Backend interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	xmldoc.Resolver
}

// Entity is the constraint for element types of a List: a pointer to T that
// decodes itself.
type Entity[T any] interface {
	*T
	xmldoc.Decoder
}

// List is one page of a remote collection. Nothing is fetched until its
// contents are first accessed; after that the page is cached until Refresh.
// Later pages reached through Next or All are cached on the list as well, so
// a second iteration replays them without network calls.
//
// A List is safe for concurrent use. Concurrent first access performs a
// single fetch.
type List[T any] struct {
	backend Backend
	path    string
	root    string
	element string
	decode  func(r *xmldoc.Reader, start xml.StartElement) (*T, error)

	mu      sync.Mutex
	fetched bool
	exists  bool
	items   []*T
	resp    *Response
	nextURL string
	next    *List[T]
}

// NewList creates an unfetched list over path. Each page must be a document
// rooted at root; every child element named element is decoded as an item.
func NewList[T any, PT Entity[T]](backend Backend, path, root, element string) *List[T] {
	return &List[T]{
		backend: backend,
		path:    path,
		root:    root,
		element: element,
		decode: func(r *xmldoc.Reader, start xml.StartElement) (*T, error) {
			item := PT(new(T))

			err := item.DecodeXML(r, start)
			if err != nil {
				return nil, err
			}

			return (*T)(item), nil
		},
	}
}

// URL returns the path or URL the list reads from.
func (l *List[T]) URL() string {
	return l.path
}

// Fetch loads the page if it has not been loaded yet.
func (l *List[T]) Fetch(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.fetchLocked(ctx)
}

// Refresh discards the cached page, and every later page, and loads it again.
func (l *List[T]) Refresh(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fetched = false
	l.exists = false
	l.items = nil
	l.resp = nil
	l.nextURL = ""
	l.next = nil

	return l.fetchLocked(ctx)
}

func (l *List[T]) fetchLocked(ctx context.Context) error {
	if l.fetched {
		return nil
	}

	resp, err := l.backend.Do(ctx, NewRequest(http.MethodGet, l.path))
	if err != nil {
		if IsNotFound(err) {
			l.fetched = true
			l.resp = resp

			return nil
		}

		return fmt.Errorf("listing %s: %w", l.element, err)
	}

	items, err := l.decodePage(resp)
	if err != nil {
		return fmt.Errorf("listing %s: %w", l.element, err)
	}

	l.items = items
	l.resp = resp
	l.exists = true
	l.fetched = true
	l.nextURL, _ = resp.NextURL()

	return nil
}

func (l *List[T]) decodePage(resp *Response) ([]*T, error) {
	if len(resp.Body()) == 0 {
		return nil, nil
	}

	r := xmldoc.NewReaderBytes(resp.Body()).WithResolver(l.backend)

	start, err := r.Root()
	if err != nil {
		return nil, NewMalformedError(resp, err)
	}

	if start.Name.Local != l.root {
		return nil, NewMalformedError(resp,
			fmt.Errorf("%w: %w: got <%s>, want <%s>", xmldoc.ErrMalformed, xmldoc.ErrRootMismatch, start.Name.Local, l.root))
	}

	var items []*T

	err = r.Elements(l.element, func() xmldoc.Decoder {
		return xmldoc.DecoderFunc(func(r *xmldoc.Reader, start xml.StartElement) error {
			item, err := l.decode(r, start)
			if err != nil {
				return err
			}

			items = append(items, item)

			return nil
		})
	})
	if err != nil {
		return nil, NewMalformedError(resp, err)
	}

	return items, nil
}

// Len returns the number of items on this page.
func (l *List[T]) Len(ctx context.Context) (int, error) {
	items, err := l.Items(ctx)

	return len(items), err
}

// Items returns the items on this page, in server order.
func (l *List[T]) Items(ctx context.Context) ([]*T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.fetchLocked(ctx)
	if err != nil {
		return nil, err
	}

	return l.items, nil
}

// At returns the i-th item on this page.
func (l *List[T]) At(ctx context.Context, i int) (*T, error) {
	items, err := l.Items(ctx)
	if err != nil {
		return nil, err
	}

	if i < 0 || i >= len(items) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(items))
	}

	return items[i], nil
}

// Total returns the number of records across all pages. known is false when
// the server did not report a count.
func (l *List[T]) Total(ctx context.Context) (total int, known bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	err = l.fetchLocked(ctx)
	if err != nil {
		return 0, false, err
	}

	if l.resp == nil {
		return 0, false, nil
	}

	total, known = l.resp.TotalRecords()

	return total, known, nil
}

// Exists reports whether the collection endpoint exists. A 404 yields false;
// a valid but empty collection yields true.
func (l *List[T]) Exists(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.fetchLocked(ctx)
	if err != nil {
		return false, err
	}

	return l.exists, nil
}

// HasNext reports whether the server linked a next page.
func (l *List[T]) HasNext(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.fetchLocked(ctx)
	if err != nil {
		return false, err
	}

	return l.nextURL != "", nil
}

// Next returns the unfetched list for the next page, or nil on the last page.
// The same list is returned on every call.
func (l *List[T]) Next(ctx context.Context) (*List[T], error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.fetchLocked(ctx)
	if err != nil {
		return nil, err
	}

	if l.nextURL == "" {
		return nil, nil
	}

	if l.next == nil {
		l.next = &List[T]{
			backend: l.backend,
			path:    l.nextURL,
			root:    l.root,
			element: l.element,
			decode:  l.decode,
		}
	}

	return l.next, nil
}

// All iterates the items of this page and every following page, fetching
// pages only as iteration reaches them. A failed fetch is yielded once as the
// error and ends the iteration.
func (l *List[T]) All(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		for page := l; page != nil; {
			items, err := page.Items(ctx)
			if err != nil {
				yield(nil, err)

				return
			}

			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}

			page, err = page.Next(ctx)
			if err != nil {
				yield(nil, err)

				return
			}
		}
	}
}

// Collect fetches every page and returns all items.
func (l *List[T]) Collect(ctx context.Context) ([]*T, error) {
	var all []*T

	for item, err := range l.All(ctx) {
		if err != nil {
			return all, err
		}

		all = append(all, item)
	}

	return all, nil
}

// Response returns the response of the last fetch, or nil before the first.
func (l *List[T]) Response() *Response {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.resp
}
