// Package paginate slices ordered post listings into fixed-size pages.
//
// Page numbers are 1-based. A missing or malformed number means the first
// page, and a number past the last page yields an empty page rather than an
// error.
package paginate

import (
	"math"
	"strconv"
	"strings"
)

const DefaultPageSize = 10

// rangeRadius is how many page links are shown on each side of the current one.
const rangeRadius = 5

type Paginator struct {
	PageSize int
}

func New(pageSize int) Paginator {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return Paginator{PageSize: pageSize}
}

// ParseNumber reads the "page" query value.
func ParseNumber(raw string) int {
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || number < 1 {
		return 1
	}
	return number
}

// Window returns LIMIT and OFFSET selecting [(number-1)*size, number*size).
// Numbers too large for the offset to fit in an int are clamped, which keeps
// the offset non-negative and past any real listing.
func (p Paginator) Window(number int) (limit, offset int) {
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if number < 1 {
		number = 1
	}
	if maxNumber := math.MaxInt/p.PageSize + 1; number > maxNumber {
		number = maxNumber
	}
	return p.PageSize, (number - 1) * p.PageSize
}

// NumPages is the page count for total items, at least 1.
func (p Paginator) NumPages(total int) int {
	if total <= 0 || p.PageSize < 1 {
		return 1
	}
	return (total-1)/p.PageSize + 1
}

// InRange reports whether page number has any of total items on it.
func (p Paginator) InRange(number, total int) bool {
	return total > 0 && number >= 1 && number <= p.NumPages(total)
}

type Page[T any] struct {
	Items    []T
	Number   int
	PageSize int
	Total    int
}

func NewPage[T any](items []T, number, pageSize, total int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:    items,
		Number:   number,
		PageSize: pageSize,
		Total:    total,
	}
}

func (p *Page[T]) Len() int {
	return len(p.Items)
}

// NumPages is at least 1 so an empty listing still renders as "page 1 of 1".
func (p *Page[T]) NumPages() int {
	if p.PageSize < 1 {
		return 1
	}
	return Paginator{PageSize: p.PageSize}.NumPages(p.Total)
}

func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page[T]) HasNext() bool {
	return p.Number < p.NumPages()
}

func (p *Page[T]) PreviousNumber() int {
	if !p.HasPrevious() {
		return 1
	}
	return p.Number - 1
}

func (p *Page[T]) NextNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

// PageRange lists the page numbers around the current one for the navigation
// bar; first and last pages have their own links.
func (p *Page[T]) PageRange() []int {
	last := p.NumPages()
	current := min(max(p.Number, 1), last)
	from := max(1, current-rangeRadius)
	to := min(last, current+rangeRadius)

	numbers := make([]int, 0, to-from+1)
	for n := from; n <= to; n++ {
		numbers = append(numbers, n)
	}
	return numbers
}
