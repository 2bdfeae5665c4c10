package recurly

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FilterKey is a query parameter recognized by list endpoints.
type FilterKey string

// Recognized filter keys.
const (
	FilterState     FilterKey = "state"
	FilterType      FilterKey = "type"
	FilterCursor    FilterKey = "cursor"
	FilterSort      FilterKey = "sort"
	FilterOrder     FilterKey = "order"
	FilterPerPage   FilterKey = "per_page"
	FilterBeginTime FilterKey = "begin_time"
	FilterEndTime   FilterKey = "end_time"
)

var filterKeys = []FilterKey{
	FilterState, FilterType, FilterCursor, FilterSort,
	FilterOrder, FilterPerPage, FilterBeginTime, FilterEndTime,
}

// ParseFilterKey returns the key named s.
func ParseFilterKey(s string) (FilterKey, error) {
	for _, key := range filterKeys {
		if string(key) == s {
			return key, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFilterKey, s)
}

// SortField is a field list endpoints can sort by.
type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

type filterEntry struct {
	key   FilterKey
	value string
}

// FilterCriteria accumulates list query parameters. Setting a key again
// replaces its value in place, so the serialized order stays the order in
// which keys were first set. Setting an empty value removes the key.
// The zero value is ready to use.
type FilterCriteria struct {
	entries []filterEntry
}

// NewFilterCriteria creates empty criteria.
func NewFilterCriteria() *FilterCriteria {
	return &FilterCriteria{}
}

// Set stores value under key and returns the criteria. On a nil receiver it
// allocates new criteria and returns those, so the With methods can chain
// from a nil *FilterCriteria.
func (f *FilterCriteria) Set(key FilterKey, value string) *FilterCriteria {
	if f == nil {
		f = NewFilterCriteria()
	}

	for i, entry := range f.entries {
		if entry.key != key {
			continue
		}

		if value == "" {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
		} else {
			f.entries[i].value = value
		}

		return f
	}

	if value != "" {
		f.entries = append(f.entries, filterEntry{key: key, value: value})
	}

	return f
}

// Get returns the value stored under key.
func (f *FilterCriteria) Get(key FilterKey) (string, bool) {
	if f == nil {
		return "", false
	}

	for _, entry := range f.entries {
		if entry.key == key {
			return entry.value, true
		}
	}

	return "", false
}

// Len returns the number of keys set.
func (f *FilterCriteria) Len() int {
	if f == nil {
		return 0
	}

	return len(f.entries)
}

// WithState filters by state, e.g. "active" or "past_due".
func (f *FilterCriteria) WithState(state string) *FilterCriteria {
	return f.Set(FilterState, state)
}

// WithType filters by resource-specific type.
func (f *FilterCriteria) WithType(kind string) *FilterCriteria {
	return f.Set(FilterType, kind)
}

// WithCursor resumes a listing at a server-issued cursor.
func (f *FilterCriteria) WithCursor(cursor string) *FilterCriteria {
	return f.Set(FilterCursor, cursor)
}

// WithSort sets the sort field.
func (f *FilterCriteria) WithSort(field SortField) *FilterCriteria {
	return f.Set(FilterSort, string(field))
}

// WithOrder sets the sort direction.
func (f *FilterCriteria) WithOrder(order SortOrder) *FilterCriteria {
	return f.Set(FilterOrder, string(order))
}

// WithPerPage sets the page size. Non-positive values remove it.
func (f *FilterCriteria) WithPerPage(perPage int) *FilterCriteria {
	if perPage <= 0 {
		return f.Set(FilterPerPage, "")
	}

	return f.Set(FilterPerPage, strconv.Itoa(perPage))
}

// WithBeginTime limits results to records at or after t. The zero time removes it.
func (f *FilterCriteria) WithBeginTime(t time.Time) *FilterCriteria {
	return f.Set(FilterBeginTime, formatFilterTime(t))
}

// WithEndTime limits results to records before t. The zero time removes it.
func (f *FilterCriteria) WithEndTime(t time.Time) *FilterCriteria {
	return f.Set(FilterEndTime, formatFilterTime(t))
}

func formatFilterTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}

// Encode serializes the criteria as a query string in insertion order,
// without a leading "?". Empty criteria encode to "".
func (f *FilterCriteria) Encode() string {
	if f.Len() == 0 {
		return ""
	}

	var b strings.Builder

	for i, entry := range f.entries {
		if i > 0 {
			b.WriteByte('&')
		}

		b.WriteString(url.QueryEscape(string(entry.key)))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(entry.value))
	}

	return b.String()
}

// String implements fmt.Stringer.
func (f *FilterCriteria) String() string {
	return f.Encode()
}

// ToValues converts the criteria to url.Values.
func (f *FilterCriteria) ToValues() url.Values {
	values := url.Values{}

	if f == nil {
		return values
	}

	for _, entry := range f.entries {
		values.Set(string(entry.key), entry.value)
	}

	return values
}

// AppendTo returns path with the encoded criteria appended as its query.
func (f *FilterCriteria) AppendTo(path string) string {
	query := f.Encode()
	if query == "" {
		return path
	}

	if strings.Contains(path, "?") {
		return path + "&" + query
	}

	return path + "?" + query
}

// ParseFilterCriteria recovers the recognized keys of query, in their order
// of appearance. Unrecognized and empty parameters are ignored.
func ParseFilterCriteria(query string) (*FilterCriteria, error) {
	f := NewFilterCriteria()

	for _, pair := range strings.Split(strings.TrimPrefix(query, "?"), "&") {
		if pair == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(pair, "=")

		name, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("decoding query key %q: %w", rawKey, err)
		}

		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("decoding query value for %q: %w", name, err)
		}

		key, err := ParseFilterKey(name)
		if err != nil {
			continue
		}

		f.Set(key, value)
	}

	return f, nil
}

// ListOptions is the struct form of FilterCriteria. Zero fields are unset.
type ListOptions struct {
	State     string
	Type      string
	Cursor    string
	Sort      SortField
	Order     SortOrder
	PerPage   int
	BeginTime time.Time
	EndTime   time.Time
}

// Criteria converts the options, in field order.
func (o ListOptions) Criteria() *FilterCriteria {
	return NewFilterCriteria().
		WithState(o.State).
		WithType(o.Type).
		WithCursor(o.Cursor).
		WithSort(o.Sort).
		WithOrder(o.Order).
		WithPerPage(o.PerPage).
		WithBeginTime(o.BeginTime).
		WithEndTime(o.EndTime)
}
