package immunization

import (
	"testing"

	"github.com/vetfhir/vetfhir/pkg/fhirmodels"
)

func sampleVaccination() *Vaccination {
	return &Vaccination{
		ID:              "imm-1",
		UserID:          "owner-1",
		PetID:           "pet-1",
		VaccineName:     "Rabies",
		Manufacturer:    "Zoetis",
		BatchNumber:     "LOT-42",
		VaccinationDate: "2025-01-10",
		ExpiryDate:      "2026-01-10",
		BusinessName:    "Paws Clinic",
		NextDueOn:       "2026-01-01",
		Attachments: []Attachment{
			{ID: "a1", URL: "https://cdn.example.org/card.jpg", OriginalName: "card.jpg", MimeType: "image/jpeg"},
			{ID: "a2", URL: "https://cdn.example.org/cert.pdf", OriginalName: "cert.pdf", MimeType: "application/pdf"},
		},
	}
}

func TestVaccination_ToFHIR(t *testing.T) {
	r := sampleVaccination().ToFHIR()

	if r.ResourceType != "Immunization" || r.Status != StatusCompleted {
		t.Errorf("unexpected header: %s %s", r.ResourceType, r.Status)
	}
	c := r.VaccineCode.Coding[0]
	if c.Code != "rabies" || c.Display != "Rabies" || r.VaccineCode.Text != "Rabies" {
		t.Errorf("unexpected vaccineCode: %+v", r.VaccineCode)
	}
	if r.Patient.Reference != "Patient/pet-1" {
		t.Errorf("patient = %q", r.Patient.Reference)
	}
	if r.Manufacturer.Display != "Zoetis" || r.LotNumber != "LOT-42" || r.ExpirationDate != "2026-01-10" {
		t.Errorf("unexpected product fields: %+v", r)
	}
	if r.Performer[0].Actor.Display != "Paws Clinic" || r.Location.Display != "Paws Clinic" {
		t.Errorf("performer/location should carry business name")
	}
	if len(r.Note) != 2 || r.Note[0].Text != "Next due: 2026-01-01" || r.Note[1].Text != "Expiry date: 2026-01-10" {
		t.Errorf("notes = %+v", r.Note)
	}
	if len(r.Contained) != 2 || r.Contained[1].Content[0].Attachment.ContentType != "application/pdf" {
		t.Errorf("contained = %+v", r.Contained)
	}
	if len(r.Extension) != 1 || r.Extension[0].URL != fhirmodels.ExtOwnerID {
		t.Errorf("owner extension missing: %+v", r.Extension)
	}
}

func TestVaccination_ToFHIR_NoOptionalNotes(t *testing.T) {
	v := sampleVaccination()
	v.NextDueOn, v.ExpiryDate = "", ""
	if notes := v.ToFHIR().Note; len(notes) != 0 {
		t.Errorf("expected no notes, got %+v", notes)
	}
}

func TestFromFHIR_RoundTrip(t *testing.T) {
	in := sampleVaccination()
	out := FromFHIR(in.ToFHIR())

	if out.PetID != in.PetID || out.UserID != in.UserID || out.VaccineName != in.VaccineName {
		t.Errorf("identity fields lost: %+v", out)
	}
	if out.NextDueOn != in.NextDueOn || out.ExpiryDate != in.ExpiryDate {
		t.Errorf("dates lost: next=%q expiry=%q", out.NextDueOn, out.ExpiryDate)
	}
	if out.BusinessName != in.BusinessName || out.BatchNumber != in.BatchNumber || out.Manufacturer != in.Manufacturer {
		t.Errorf("product fields lost: %+v", out)
	}
	if len(out.Attachments) != 2 || out.Attachments[0] != in.Attachments[0] {
		t.Errorf("attachments lost: %+v", out.Attachments)
	}
}
