package observation

import (
	"context"
	"encoding/json"
	"testing"
)

func TestTransformObservations(t *testing.T) {
	feedback, _ := json.Marshal(ToObservationResource(&Feedback{
		ID: "o1", PetID: "p1", DoctorID: "d1", Rating: 5, Feedback: "Lovely", MeetingID: "m1", CreatedAt: "2025-01-01T00:00:00Z",
	}))
	duty, _ := json.Marshal(CreateObservation(&DutyObservation{
		ID: "o2", PetID: "p2", PerformerID: "d2", Rating: 2, Comment: "Stiff", RecordedAt: "2025-01-02T00:00:00Z",
	}))
	raw := `[{"resource":` + string(feedback) + `},` + string(duty) + `]`

	items := TransformObservations(context.Background(), json.RawMessage(raw))
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	a := items[0]
	if a.ID != "o1" || a.PetID != "p1" || a.VetID != "d1" || a.Rating != 5 || a.Feedback != "Lovely" || a.MeetingID != "m1" {
		t.Errorf("unexpected feedback item: %+v", a)
	}
	if a.Date != "2025-01-01T00:00:00Z" {
		t.Errorf("date = %q", a.Date)
	}

	b := items[1]
	if b.Rating != 2 || b.Feedback != "Stiff" || b.VetID != "d2" {
		t.Errorf("duty item should read components: %+v", b)
	}
	if b.Vet != (VetSummary{}) {
		t.Errorf("vet should be an empty placeholder: %+v", b.Vet)
	}
}

func TestTransformObservations_ReferenceWithoutSlash(t *testing.T) {
	raw := `[{"resourceType":"Observation","status":"final","code":{},"subject":{"reference":"p1"},"performer":[{"reference":"d1"}]}]`
	items := TransformObservations(context.Background(), json.RawMessage(raw))
	if items[0].PetID != "" || items[0].VetID != "" {
		t.Errorf("ids should be empty for malformed references: %+v", items[0])
	}
}

func TestTransformObservations_NotArray(t *testing.T) {
	items := TransformObservations(context.Background(), json.RawMessage(`{"resourceType":"Observation"}`))
	if items == nil || len(items) != 0 {
		t.Errorf("expected empty list, got %v", items)
	}
}
