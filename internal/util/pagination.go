package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*size within int.
	MaxPage = math.MaxInt / MaxPageSize
)

// Page turns the raw page/size query values into a normalized page, size and offset.
// Missing or malformed values fall back to page 1 and DefaultPageSize.
func Page(rawPage, rawSize string) (page, size, offset int) {
	page, _ = strconv.Atoi(rawPage)
	size, _ = strconv.Atoi(rawSize)
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size, (page - 1) * size
}
