package appointment

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

const appointmentEntries = `[
  {"resource": {
    "resourceType": "Appointment",
    "id": "apt-1",
    "status": "booked",
    "serviceType": [{"text": "General"}],
    "start": "2025-04-10T11:00:00+05:30",
    "description": "Annual visit",
    "reasonCode": [{"text": "checkup"}],
    "slot": [{"reference": "Slot/s1"}],
    "participant": [
      {"actor": {"reference": "Patient/p1", "display": "Bruno"}, "status": "accepted"},
      {"actor": {"reference": "Practitioner/d1", "display": "Dr. Rao"}, "status": "accepted"}
    ],
    "extension": [{"url": "http://example.org/fhir/StructureDefinition/token-number", "valueInteger": 7}]
  }},
  {"resource": {"resourceType": "Appointment", "id": "apt-2", "status": "pending"}}
]`

func TestListFromFHIR_ExtractsFields(t *testing.T) {
	items := ListFromFHIR(context.Background(), json.RawMessage(appointmentEntries), nil)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	it := items[0]
	if it.ID != "apt-1" || it.Status != "booked" || it.ServiceType != "General" {
		t.Errorf("unexpected basic fields: %+v", it)
	}
	if it.Reason != "checkup" || it.Description != "Annual visit" || it.Slot != "Slot/s1" {
		t.Errorf("unexpected reason/description/slot: %+v", it)
	}
	if it.TokenNumber != "7" {
		t.Errorf("tokenNumber = %q, want 7", it.TokenNumber)
	}
	if len(it.Participants) != 2 || it.Participants[0].Name != "Bruno" || it.Participants[1].Status != "accepted" {
		t.Errorf("unexpected participants: %+v", it.Participants)
	}
	if it.Date == nil || *it.Date != "10 Apr 2025" {
		t.Errorf("date = %v, want 10 Apr 2025", it.Date)
	}
	if it.Time == nil || *it.Time != "11:00 AM" {
		t.Errorf("time = %v, want 11:00 AM", it.Time)
	}
}

func TestListFromFHIR_MissingStartGivesNullDateTime(t *testing.T) {
	items := ListFromFHIR(context.Background(), json.RawMessage(appointmentEntries), nil)
	if items[1].Date != nil || items[1].Time != nil {
		t.Errorf("expected nil date/time, got %v / %v", items[1].Date, items[1].Time)
	}

	data, _ := json.Marshal(items[1])
	var m map[string]interface{}
	json.Unmarshal(data, &m)
	if v, ok := m["date"]; !ok || v != nil {
		t.Errorf("date should serialize as null, got %v (present=%v)", v, ok)
	}
}

func TestListFromFHIR_DisplayLocation(t *testing.T) {
	items := ListFromFHIR(context.Background(), json.RawMessage(appointmentEntries), time.UTC)
	if *items[0].Time != "05:30 AM" {
		t.Errorf("time in UTC = %q, want 05:30 AM", *items[0].Time)
	}
}

func TestListFromFHIR_AfternoonTime(t *testing.T) {
	raw := `[{"resourceType":"Appointment","id":"a","status":"booked","start":"2025-12-01T15:05:00Z"}]`
	items := ListFromFHIR(context.Background(), json.RawMessage(raw), nil)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if *items[0].Date != "01 Dec 2025" || *items[0].Time != "03:05 PM" {
		t.Errorf("got %s %s", *items[0].Date, *items[0].Time)
	}
}

func TestListFromFHIR_NonArrayReturnsEmpty(t *testing.T) {
	for _, raw := range []string{`{"resourceType":"Bundle"}`, `"x"`, ``, `null`} {
		items := ListFromFHIR(context.Background(), json.RawMessage(raw), nil)
		if items == nil {
			t.Errorf("input %q: expected empty non-nil slice", raw)
		}
		if len(items) != 0 {
			t.Errorf("input %q: expected 0 items, got %d", raw, len(items))
		}
	}
}

func TestListFromFHIR_UnparseableStart(t *testing.T) {
	raw := `[{"resourceType":"Appointment","id":"a","start":"tomorrow"}]`
	items := ListFromFHIR(context.Background(), json.RawMessage(raw), nil)
	if items[0].Date != nil || items[0].Time != nil {
		t.Error("expected nil date/time for unparseable start")
	}
	if items[0].Start != "tomorrow" {
		t.Errorf("start should pass through, got %q", items[0].Start)
	}
}
