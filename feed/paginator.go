package feed

import (
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Page is one page of an ordered sequence. Number is 1-based.
type Page[T any] struct {
	Items          []T  `json:"items"`
	Number         int  `json:"number"`
	NumPages       int  `json:"num_pages"`
	Count          int  `json:"count"`
	HasNext        bool `json:"has_next"`
	HasPrevious    bool `json:"has_previous"`
	NextNumber     int  `json:"next_number,omitempty"`
	PreviousNumber int  `json:"previous_number,omitempty"`
}

// Bounds resolves the raw page parameter against count items split into pages of size.
// Anything that is not a positive integer means the first page, numbers past the end mean the last one.
// There is always at least one page.
func Bounds(count, size int, raw string) (number, numPages int) {
	if size < 1 {
		size = 1
	}
	numPages = (count + size - 1) / size
	if numPages < 1 {
		numPages = 1
	}
	raw = strings.TrimSpace(raw)
	number, err := strconv.Atoi(raw)
	switch {
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-"):
		number = numPages
	case err != nil || number < 1:
		number = 1
	}
	if number > numPages {
		number = numPages
	}
	return
}

func newPage[T any](items []T, number, numPages, count int) Page[T] {
	p := Page[T]{
		Items:       items,
		Number:      number,
		NumPages:    numPages,
		Count:       count,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
	if p.Items == nil {
		p.Items = []T{}
	}
	if p.HasNext {
		p.NextNumber = number + 1
	}
	if p.HasPrevious {
		p.PreviousNumber = number - 1
	}
	return p
}

// Paginate cuts an in-memory ordered slice
func Paginate[T any](items []T, pageSize int, raw string) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	number, numPages := Bounds(len(items), pageSize, raw)
	start := (number - 1) * pageSize
	end := min(start+pageSize, len(items))
	return newPage(items[start:end], number, numPages, len(items))
}

// PaginateQuery counts the rows matched by tx and loads only the requested page.
// tx must already carry its model, filters and ordering. scopes (preloads) apply to the page load only.
func PaginateQuery[T any](tx *gorm.DB, pageSize int, raw string, scopes ...func(*gorm.DB) *gorm.DB) (Page[T], error) {
	if pageSize < 1 {
		pageSize = 1
	}
	var count int64
	if err := tx.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return Page[T]{}, err
	}
	number, numPages := Bounds(int(count), pageSize, raw)
	var items []T
	err := tx.Session(&gorm.Session{}).
		Scopes(scopes...).
		Offset((number - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return Page[T]{}, err
	}
	return newPage(items, number, numPages, int(count)), nil
}
