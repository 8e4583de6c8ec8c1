// Package pagination implements page number pagination over a counted result set.
package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// PageParam is the query parameter holding the page number.
	PageParam = "page"
	// PageSizeParam is the query parameter holding the requested page size.
	PageSizeParam = "page_size"
	// LastPage may be passed instead of a number to select the final page.
	LastPage = "last"
)

var ErrInvalidPage = errors.New("invalid page")

// Paginator resolves client supplied page sizes.
// A DefaultPageSize of 0 disables pagination unless the client asks for a page size.
type Paginator struct {
	DefaultPageSize int
	MaxPageSize     int
}

func New(defaultPageSize, maxPageSize int) Paginator {
	return Paginator{
		DefaultPageSize: defaultPageSize,
		MaxPageSize:     maxPageSize,
	}
}

// PageSize returns the page size for the raw page_size value, or 0 when the
// result should not be paginated. Values that are not strictly positive
// integers fall back to the default; larger values are clamped to MaxPageSize.
func (p Paginator) PageSize(raw string) int {
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err == nil && size > 0 {
		if p.MaxPageSize > 0 && size > p.MaxPageSize {
			return p.MaxPageSize
		}
		return size
	}

	return max(p.DefaultPageSize, 0)
}

// Page is one validated page of a result set of Count items.
type Page struct {
	Number   int
	Size     int
	Count    int
	NumPages int
}

// NewPage validates the raw page number against a result set of count items
// split into pages of size. An empty result set still has one (empty) page.
func NewPage(raw string, count, size int) (Page, error) {
	if size <= 0 {
		return Page{}, fmt.Errorf("page size must be positive, got %d", size)
	}

	numPages := max(1, (count+size-1)/size)

	var number int
	raw = strings.TrimSpace(raw)
	if raw == LastPage {
		number = numPages
	} else {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Page{}, fmt.Errorf("%w: page number %q is not an integer", ErrInvalidPage, raw)
		}
		number = n
	}

	if number < 1 {
		return Page{}, fmt.Errorf("%w: page number %d is less than 1", ErrInvalidPage, number)
	}
	if number > numPages {
		return Page{}, fmt.Errorf("%w: page %d contains no results", ErrInvalidPage, number)
	}

	return Page{
		Number:   number,
		Size:     size,
		Count:    count,
		NumPages: numPages,
	}, nil
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// NextURL returns current with the page parameter pointing at the next page,
// or nil on the last page.
func (p Page) NextURL(current *url.URL) *string {
	if !p.HasNext() {
		return nil
	}
	return withPage(current, p.Number+1)
}

// PreviousURL returns current with the page parameter pointing at the
// previous page, or nil on the first page. The link to the first page carries
// no page parameter at all.
func (p Page) PreviousURL(current *url.URL) *string {
	if !p.HasPrevious() {
		return nil
	}
	return withPage(current, p.Number-1)
}

func withPage(current *url.URL, number int) *string {
	u := *current
	query := u.Query()
	if number == 1 {
		query.Del(PageParam)
	} else {
		query.Set(PageParam, strconv.Itoa(number))
	}
	u.RawQuery = query.Encode()

	link := u.String()
	return &link
}
