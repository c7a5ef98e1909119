package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds page-based pagination parameters extracted from a request.
// Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// FromContext extracts pagination parameters from the echo context. It reads
// page/limit and accepts the FHIR _count alias for limit.
func FromContext(c echo.Context) Params {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit, _ = strconv.Atoi(c.QueryParam("_count"))
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	return Params{Page: page, Limit: limit}.Normalize()
}

// Normalize clamps the page to >= 1 and the limit to [1, MaxLimit],
// substituting DefaultLimit for an unset limit.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the zero-based row offset of the first item on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(total/limit).
func (p Params) TotalPages(total int) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// HasMore returns true if there are pages after the current one.
func (p Params) HasMore(total int) bool {
	return p.Page < p.TotalPages(total)
}

// FHIRLinks generates FHIR Bundle pagination links for a search result: a
// self link always, and a next link when more pages follow.
// basePath should be the request path (e.g., "/fhir/Slot").
func (p Params) FHIRLinks(basePath string, total int) []FHIRLink {
	links := []FHIRLink{
		{
			Relation: "self",
			URL:      fmt.Sprintf("%s%spage=%d&limit=%d", basePath, querySep(basePath), p.Page, p.Limit),
		},
	}

	if p.HasMore(total) {
		links = append(links, FHIRLink{
			Relation: "next",
			URL:      fmt.Sprintf("%s%spage=%d&limit=%d", basePath, querySep(basePath), p.Page+1, p.Limit),
		})
	}

	return links
}

// FHIRLink represents a single FHIR Bundle link entry.
type FHIRLink struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

// querySep returns "&" when basePath already carries a query string.
func querySep(basePath string) string {
	if strings.Contains(basePath, "?") {
		return "&"
	}
	return "?"
}
