package fhir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vetfhir/vetfhir/pkg/pagination"
)

// Bundle types produced by this service.
const (
	BundleTypeSearchset  = "searchset"
	BundleTypeCollection = "collection"
)

// Bundle represents a FHIR Bundle resource. The page fields are a product
// extension to the standard shape and are only present on paginated bundles.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id,omitempty"`
	Type         string        `json:"type"`
	Total        int           `json:"total"`
	Link         []BundleLink  `json:"link,omitempty"`
	Entry        []BundleEntry `json:"entry"`
	Page         *int          `json:"page,omitempty"`
	Limit        *int          `json:"limit,omitempty"`
	TotalCount   *int          `json:"totalCount,omitempty"`
	TotalPages   *int          `json:"totalPages,omitempty"`
	HasMore      *bool         `json:"hasMore,omitempty"`
}

type BundleLink struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

type BundleEntry struct {
	FullURL  string      `json:"fullUrl,omitempty"`
	Resource interface{} `json:"resource"`
}

// Pagination describes which page of a larger result a bundle carries.
type Pagination struct {
	Page       int
	Limit      int
	TotalCount int
	BaseURL    string
}

// ToBundle wraps already-converted resources in a Bundle. Total always equals
// len(resources); an empty input yields an empty, non-null entry array.
func ToBundle(resources []interface{}, bundleType string, page *Pagination) *Bundle {
	entries := make([]BundleEntry, len(resources))
	for i, r := range resources {
		entries[i] = BundleEntry{Resource: r}
	}

	b := &Bundle{
		ResourceType: "Bundle",
		Type:         bundleType,
		Total:        len(resources),
		Entry:        entries,
	}
	if page == nil {
		return b
	}

	// The caller's limit is used as given; request parsing owns the clamp.
	params := pagination.Params{Page: page.Page, Limit: page.Limit}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = pagination.DefaultLimit
	}
	totalCount := page.TotalCount
	totalPages := params.TotalPages(totalCount)
	hasMore := params.HasMore(totalCount)

	b.Page = &params.Page
	b.Limit = &params.Limit
	b.TotalCount = &totalCount
	b.TotalPages = &totalPages
	b.HasMore = &hasMore
	for _, l := range params.FHIRLinks(page.BaseURL, totalCount) {
		b.Link = append(b.Link, BundleLink{Relation: l.Relation, URL: l.URL})
	}
	return b
}

// FormatReference creates a FHIR reference string.
func FormatReference(resourceType, id string) string {
	return fmt.Sprintf("%s/%s", resourceType, id)
}

// ReferenceID returns the id part of a "Type/id" reference: the segment at
// index 1 after splitting on "/". A reference without "/" yields "".
func ReferenceID(ref string) string {
	parts := strings.Split(ref, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// DecodeEntries splits a JSON array of bundle entries into raw resources. An
// element carrying a "resource" member is unwrapped; any other element is
// taken to be the resource itself. Input that is not a JSON array yields
// ErrInvalidInput.
func DecodeEntries(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array of bundle entries", ErrInvalidInput)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resources := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		var entry struct {
			Resource json.RawMessage `json:"resource"`
		}
		if err := json.Unmarshal(item, &entry); err == nil && len(entry.Resource) > 0 {
			resources = append(resources, entry.Resource)
			continue
		}
		resources = append(resources, item)
	}
	return resources, nil
}
