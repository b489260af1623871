package listing

import (
	"maps"
	"net/url"
	"strconv"
)

// DefaultLimit is the page size used when none is configured.
const DefaultLimit = 10

// Filters is the query state of a remote collection.
type Filters struct {
	Page   int
	Limit  int
	Search string
	Sort   string
	// Fields holds resource-specific filters such as status or tag.
	Fields map[string]string
}

// FilterOption patches Filters.
type FilterOption func(*Filters)

// WithPage selects a page. Pages start at 1.
func WithPage(n int) FilterOption {
	return func(f *Filters) { f.Page = n }
}

// WithLimit sets the page size.
func WithLimit(n int) FilterOption {
	return func(f *Filters) { f.Limit = n }
}

// WithSearch sets the free-text search term.
func WithSearch(term string) FilterOption {
	return func(f *Filters) { f.Search = term }
}

// WithSort sets the sort key.
func WithSort(key string) FilterOption {
	return func(f *Filters) { f.Sort = key }
}

// WithField sets a resource-specific filter. An empty value removes it.
func WithField(name, value string) FilterOption {
	return func(f *Filters) {
		if value == "" {
			delete(f.Fields, name)
			return
		}
		if f.Fields == nil {
			f.Fields = map[string]string{}
		}
		f.Fields[name] = value
	}
}

func (f Filters) clone() Filters {
	f.Fields = maps.Clone(f.Fields)
	return f
}

func (f Filters) sameQuery(o Filters) bool {
	return f.Limit == o.Limit && f.Search == o.Search && f.Sort == o.Sort && maps.Equal(f.Fields, o.Fields)
}

// apply returns f patched by opts. A change to anything but the page sends
// the list back to page 1 unless the same patch also picked a page.
func (f Filters) apply(opts ...FilterOption) Filters {
	next := f.clone()
	next.Page = 0
	for _, opt := range opts {
		opt(&next)
	}
	if next.Page <= 0 {
		next.Page = f.Page
		if !f.sameQuery(next) {
			next.Page = 1
		}
	}
	if next.Page <= 0 {
		next.Page = 1
	}
	return next
}

// Query renders the filters as API query parameters.
func (f Filters) Query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	for k, v := range f.Fields {
		q.Set(k, v)
	}
	return q
}
