package immunization

import (
	"fmt"
	"strings"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
	"github.com/vetfhir/vetfhir/pkg/fhirmodels"
)

// Note prefixes are the only channel for the next-due and expiry dates.
// Readers match them literally.
const (
	NextDuePrefix       = "Next due:"
	ExpiryDatePrefix    = "Expiry date:"
	legacyNextDuePrefix = "Next due date:"
)

// StatusCompleted is used when a vaccination record carries no status.
const StatusCompleted = "completed"

// Vaccination is the internal vaccination record for one pet.
type Vaccination struct {
	ID              string       `json:"id,omitempty"`
	UserID          string       `json:"userId,omitempty"`
	PetID           string       `json:"petId" validate:"required"`
	VaccineName     string       `json:"vaccineName" validate:"required"`
	Manufacturer    string       `json:"manufacturer,omitempty"`
	BatchNumber     string       `json:"batchNumber,omitempty"`
	VaccinationDate string       `json:"vaccinationDate" validate:"required"`
	ExpiryDate      string       `json:"expiryDate,omitempty"`
	BusinessName    string       `json:"businessName,omitempty"`
	NextDueOn       string       `json:"nextDueOn,omitempty"`
	Status          string       `json:"status,omitempty"`
	Attachments     []Attachment `json:"attachments,omitempty" validate:"dive"`
}

// Attachment is an uploaded certificate or photo of a vaccination card.
type Attachment struct {
	ID           string `json:"_id,omitempty"`
	URL          string `json:"url" validate:"required"`
	OriginalName string `json:"originalname,omitempty"`
	MimeType     string `json:"mimetype,omitempty"`
	Size         int    `json:"size,omitempty"`
}

// Resource is the FHIR Immunization resource shape.
type Resource struct {
	ResourceType       string                `json:"resourceType"`
	ID                 string                `json:"id,omitempty"`
	Status             string                `json:"status,omitempty"`
	VaccineCode        *fhir.CodeableConcept `json:"vaccineCode,omitempty"`
	Patient            *fhir.Reference       `json:"patient,omitempty"`
	OccurrenceDateTime string                `json:"occurrenceDateTime,omitempty"`
	Manufacturer       *fhir.Reference       `json:"manufacturer,omitempty"`
	LotNumber          string                `json:"lotNumber,omitempty"`
	ExpirationDate     string                `json:"expirationDate,omitempty"`
	Performer          []Performer           `json:"performer,omitempty"`
	Location           *fhir.Reference       `json:"location,omitempty"`
	Note               []fhir.Annotation     `json:"note,omitempty"`
	Contained          []ContainedDocument   `json:"contained,omitempty"`
	Extension          []fhir.Extension      `json:"extension,omitempty"`
}

type Performer struct {
	Actor fhir.Reference `json:"actor"`
}

// ContainedDocument is a DocumentReference embedded in the Immunization to
// carry its attachments.
type ContainedDocument struct {
	ResourceType string            `json:"resourceType"`
	ID           string            `json:"id,omitempty"`
	Status       string            `json:"status,omitempty"`
	Content      []DocumentContent `json:"content"`
}

type DocumentContent struct {
	Attachment fhir.Attachment `json:"attachment"`
}

// ToFHIR converts a vaccination record into a FHIR Immunization. The vaccine
// code is the lowercased vaccine name; the dates that have no FHIR home are
// written as prefixed notes.
func (v *Vaccination) ToFHIR() *Resource {
	status := strings.ToLower(strings.TrimSpace(v.Status))
	if status == "" {
		status = StatusCompleted
	}
	r := &Resource{
		ResourceType: "Immunization",
		ID:           v.ID,
		Status:       status,
		VaccineCode: &fhir.CodeableConcept{
			Coding: []fhir.Coding{{Code: strings.ToLower(v.VaccineName), Display: v.VaccineName}},
			Text:   v.VaccineName,
		},
		Patient:            &fhir.Reference{Reference: fhir.FormatReference("Patient", v.PetID)},
		OccurrenceDateTime: v.VaccinationDate,
		LotNumber:          v.BatchNumber,
		ExpirationDate:     v.ExpiryDate,
	}
	if v.Manufacturer != "" {
		r.Manufacturer = &fhir.Reference{Display: v.Manufacturer}
	}
	if v.BusinessName != "" {
		r.Performer = []Performer{{Actor: fhir.Reference{Display: v.BusinessName}}}
		r.Location = &fhir.Reference{Display: v.BusinessName}
	}
	if v.NextDueOn != "" {
		r.Note = append(r.Note, fhir.Annotation{Text: fmt.Sprintf("%s %s", NextDuePrefix, v.NextDueOn)})
	}
	if v.ExpiryDate != "" {
		r.Note = append(r.Note, fhir.Annotation{Text: fmt.Sprintf("%s %s", ExpiryDatePrefix, v.ExpiryDate)})
	}
	for i, a := range v.Attachments {
		r.Contained = append(r.Contained, ContainedDocument{
			ResourceType: "DocumentReference",
			ID:           fmt.Sprintf("attachment-%d", i+1),
			Status:       "current",
			Content: []DocumentContent{{Attachment: fhir.Attachment{
				ID:          a.ID,
				URL:         a.URL,
				Title:       a.OriginalName,
				ContentType: a.MimeType,
				Size:        a.Size,
			}}},
		})
	}
	if v.UserID != "" {
		r.Extension = append(r.Extension, fhir.StringExtension(fhirmodels.ExtOwnerID, v.UserID))
	}
	return r
}

// noteValue returns the text following prefix in the first matching note.
func noteValue(notes []fhir.Annotation, prefixes ...string) string {
	for _, n := range notes {
		for _, p := range prefixes {
			if strings.HasPrefix(n.Text, p) {
				return strings.TrimSpace(strings.TrimPrefix(n.Text, p))
			}
		}
	}
	return ""
}

// nextDue reads the next-due note, also accepting the prefix older writers
// used.
func nextDue(notes []fhir.Annotation) string {
	return noteValue(notes, NextDuePrefix, legacyNextDuePrefix)
}

func vaccineName(r *Resource) string {
	if r.VaccineCode == nil {
		return ""
	}
	if r.VaccineCode.Text != "" {
		return r.VaccineCode.Text
	}
	return r.VaccineCode.FirstCoding().Display
}

func referenceDisplay(ref *fhir.Reference) string {
	if ref == nil {
		return ""
	}
	return ref.Display
}

func (r *Resource) attachments() []fhir.Attachment {
	var out []fhir.Attachment
	for _, doc := range r.Contained {
		for _, c := range doc.Content {
			out = append(out, c.Attachment)
		}
	}
	return out
}

// FromFHIR converts a FHIR Immunization back into the internal record.
func FromFHIR(r *Resource) *Vaccination {
	v := &Vaccination{
		ID:              r.ID,
		UserID:          fhir.ExtensionString(r.Extension, fhirmodels.ExtOwnerID),
		VaccineName:     vaccineName(r),
		Manufacturer:    referenceDisplay(r.Manufacturer),
		BatchNumber:     r.LotNumber,
		VaccinationDate: r.OccurrenceDateTime,
		ExpiryDate:      r.ExpirationDate,
		BusinessName:    referenceDisplay(r.Location),
		NextDueOn:       nextDue(r.Note),
		Status:          r.Status,
	}
	if r.Patient != nil {
		v.PetID = fhir.ReferenceID(r.Patient.Reference)
	}
	if v.ExpiryDate == "" {
		v.ExpiryDate = noteValue(r.Note, ExpiryDatePrefix)
	}
	if v.BusinessName == "" && len(r.Performer) > 0 {
		v.BusinessName = r.Performer[0].Actor.Display
	}
	for _, a := range r.attachments() {
		v.Attachments = append(v.Attachments, Attachment{
			ID:           a.ID,
			URL:          a.URL,
			OriginalName: a.Title,
			MimeType:     a.ContentType,
			Size:         a.Size,
		})
	}
	return v
}
