package fhir

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestToBundle_Collection(t *testing.T) {
	resources := []interface{}{
		map[string]string{"id": "1", "resourceType": "Patient"},
		map[string]string{"id": "2", "resourceType": "Patient"},
	}

	bundle := ToBundle(resources, BundleTypeCollection, nil)

	if bundle.ResourceType != "Bundle" {
		t.Errorf("expected resourceType Bundle, got %s", bundle.ResourceType)
	}
	if bundle.Type != BundleTypeCollection {
		t.Errorf("expected type collection, got %s", bundle.Type)
	}
	if bundle.Total != 2 || len(bundle.Entry) != 2 {
		t.Fatalf("expected total and entries of 2, got total=%d entries=%d", bundle.Total, len(bundle.Entry))
	}
	if bundle.Page != nil || bundle.Link != nil {
		t.Error("expected no paging fields on an unpaginated bundle")
	}
}

func TestToBundle_EmptyEntryArray(t *testing.T) {
	bundle := ToBundle(nil, BundleTypeCollection, nil)

	data, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	entries, ok := raw["entry"].([]interface{})
	if !ok || len(entries) != 0 {
		t.Errorf("expected an empty entry array, got %v", raw["entry"])
	}
	if raw["total"] != float64(0) {
		t.Errorf("expected total 0, got %v", raw["total"])
	}
	if _, ok := raw["page"]; ok {
		t.Error("expected page to be omitted")
	}
}

func TestToBundle_Paginated(t *testing.T) {
	resources := []interface{}{"a", "b"}

	bundle := ToBundle(resources, BundleTypeSearchset, &Pagination{
		Page:       1,
		Limit:      2,
		TotalCount: 5,
		BaseURL:    "/fhir/Slot?doctorId=d1",
	})

	if bundle.Total != 2 {
		t.Errorf("total must count the entries on the page, got %d", bundle.Total)
	}
	if *bundle.TotalCount != 5 || *bundle.TotalPages != 3 || !*bundle.HasMore {
		t.Errorf("unexpected paging: totalCount=%d totalPages=%d hasMore=%v",
			*bundle.TotalCount, *bundle.TotalPages, *bundle.HasMore)
	}
	if len(bundle.Link) != 2 {
		t.Fatalf("expected self and next links, got %d", len(bundle.Link))
	}
	if bundle.Link[0].Relation != "self" || bundle.Link[0].URL != "/fhir/Slot?doctorId=d1&page=1&limit=2" {
		t.Errorf("unexpected self link: %+v", bundle.Link[0])
	}
	if bundle.Link[1].Relation != "next" || bundle.Link[1].URL != "/fhir/Slot?doctorId=d1&page=2&limit=2" {
		t.Errorf("unexpected next link: %+v", bundle.Link[1])
	}
}

func TestToBundle_LastPage(t *testing.T) {
	bundle := ToBundle([]interface{}{"e"}, BundleTypeSearchset, &Pagination{Page: 3, Limit: 2, TotalCount: 5, BaseURL: "/fhir/Slot"})

	if *bundle.HasMore {
		t.Error("expected hasMore false on the last page")
	}
	if len(bundle.Link) != 1 || bundle.Link[0].URL != "/fhir/Slot?page=3&limit=2" {
		t.Errorf("unexpected links: %+v", bundle.Link)
	}
}

func TestToBundle_NormalizesPage(t *testing.T) {
	bundle := ToBundle(nil, BundleTypeSearchset, &Pagination{BaseURL: "/fhir/Slot"})

	if *bundle.Page != 1 || *bundle.Limit != 20 {
		t.Errorf("expected page 1 limit 20, got page=%d limit=%d", *bundle.Page, *bundle.Limit)
	}
	if *bundle.TotalPages != 0 || *bundle.HasMore {
		t.Errorf("expected no pages for an empty result, got %d", *bundle.TotalPages)
	}
}

func TestToBundle_KeepsLargeLimit(t *testing.T) {
	bundle := ToBundle(nil, BundleTypeSearchset, &Pagination{Page: 1, Limit: 200, TotalCount: 400, BaseURL: "/fhir/Slot"})

	if *bundle.Limit != 200 || *bundle.TotalPages != 2 {
		t.Errorf("expected limit 200 and 2 pages, got limit=%d totalPages=%d", *bundle.Limit, *bundle.TotalPages)
	}
	if !*bundle.HasMore {
		t.Error("expected hasMore on page 1 of 2")
	}
}

func TestReferenceID(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"Patient/123", "123"},
		{"Organization/h1/_history/2", "h1"},
		{"Patient/", ""},
		{"123", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ReferenceID(tt.ref); got != tt.want {
			t.Errorf("ReferenceID(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestFormatReference(t *testing.T) {
	if got := FormatReference("Schedule", "d1"); got != "Schedule/d1" {
		t.Errorf("unexpected reference %q", got)
	}
}

func TestDecodeEntries(t *testing.T) {
	raw := json.RawMessage(`[
		{"fullUrl": "urn:1", "resource": {"resourceType": "Patient", "id": "p1"}},
		{"resourceType": "Patient", "id": "p2"}
	]`)

	resources, err := DecodeEntries(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(resources))
	}
	for i, want := range []string{"p1", "p2"} {
		var r Resource
		if err := json.Unmarshal(resources[i], &r); err != nil {
			t.Fatalf("decode resource %d: %v", i, err)
		}
		if r.ID != want {
			t.Errorf("resource %d: expected id %s, got %s", i, want, r.ID)
		}
	}
}

func TestDecodeEntries_Empty(t *testing.T) {
	resources, err := DecodeEntries(json.RawMessage(` [] `))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resources == nil || len(resources) != 0 {
		t.Errorf("expected an empty, non-nil slice, got %v", resources)
	}
}

func TestDecodeEntries_NotAnArray(t *testing.T) {
	for _, in := range []string{`{"resourceType":"Bundle"}`, ``, `"x"`, `[1,`} {
		if _, err := DecodeEntries(json.RawMessage(in)); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("DecodeEntries(%q): expected ErrInvalidInput, got %v", in, err)
		}
	}
}
