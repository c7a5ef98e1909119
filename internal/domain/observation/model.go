package observation

import (
	"time"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
	"github.com/vetfhir/vetfhir/pkg/fhirmodels"
)

// now is replaced in tests.
var now = time.Now

// Component code texts that distinguish duty sub-values.
const (
	ComponentRating  = "Rating"
	ComponentComment = "Comment"
)

// Feedback is a pet parent's rating of a consultation.
type Feedback struct {
	ID        string `json:"id,omitempty"`
	PetID     string `json:"petId" validate:"required"`
	DoctorID  string `json:"doctorId" validate:"required"`
	Rating    int    `json:"rating" validate:"min=0,max=5"`
	Feedback  string `json:"feedback,omitempty"`
	MeetingID string `json:"meetingId,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// DutyObservation is a shared-duty or pain-journal entry recorded against a
// pet. Code overrides the default "Patient feedback" code when set.
type DutyObservation struct {
	ID          string                `json:"id,omitempty"`
	PetID       string                `json:"petId" validate:"required"`
	PerformerID string                `json:"performerId,omitempty"`
	Rating      int                   `json:"rating" validate:"min=0,max=5"`
	Comment     string                `json:"comment,omitempty"`
	MeetingID   string                `json:"meetingId,omitempty"`
	OwnerID     string                `json:"ownerId,omitempty"`
	IsSynced    bool                  `json:"isSynced"`
	Code        *fhir.CodeableConcept `json:"code,omitempty"`
	RecordedAt  string                `json:"recordedAt,omitempty"`
}

// Resource is the FHIR Observation resource shape.
type Resource struct {
	ResourceType      string                 `json:"resourceType"`
	ID                string                 `json:"id,omitempty"`
	Status            string                 `json:"status"`
	Category          []fhir.CodeableConcept `json:"category,omitempty"`
	Code              fhir.CodeableConcept   `json:"code"`
	Subject           *fhir.Reference        `json:"subject,omitempty"`
	Performer         []fhir.Reference       `json:"performer,omitempty"`
	EffectiveDateTime string                 `json:"effectiveDateTime,omitempty"`
	ValueInteger      *int                   `json:"valueInteger,omitempty"`
	Note              []fhir.Annotation      `json:"note"`
	Component         []Component            `json:"component,omitempty"`
	Extension         []fhir.Extension       `json:"extension,omitempty"`
}

type Component struct {
	Code          fhir.CodeableConcept `json:"code"`
	ValueQuantity *fhir.Quantity       `json:"valueQuantity,omitempty"`
	ValueString   *string              `json:"valueString,omitempty"`
}

func loincConcept(code, display string) fhir.CodeableConcept {
	return fhir.CodeableConcept{
		Coding: []fhir.Coding{{System: fhirmodels.SystemLOINC, Code: code, Display: display}},
		Text:   display,
	}
}

func effectiveOrNow(ts string) string {
	if ts != "" {
		return ts
	}
	return now().UTC().Format(time.RFC3339)
}

// ToObservationResource converts a consultation rating into a final
// Observation coded as LOINC patient satisfaction. note is an empty array
// when there is no feedback text.
func ToObservationResource(f *Feedback) *Resource {
	rating := f.Rating
	r := &Resource{
		ResourceType:      "Observation",
		ID:                f.ID,
		Status:            fhirmodels.ObservationStatusFinal,
		Code:              loincConcept(fhirmodels.LOINCPatientSatisfaction, fhirmodels.LOINCPatientSatisfactionDisplay),
		Subject:           &fhir.Reference{Reference: fhir.FormatReference("Patient", f.PetID)},
		Performer:         []fhir.Reference{{Reference: fhir.FormatReference("Practitioner", f.DoctorID)}},
		EffectiveDateTime: effectiveOrNow(f.CreatedAt),
		ValueInteger:      &rating,
		Note:              []fhir.Annotation{},
	}
	if f.Feedback != "" {
		r.Note = append(r.Note, fhir.Annotation{Text: f.Feedback})
	}
	if f.MeetingID != "" {
		r.Extension = append(r.Extension, fhir.StringExtension(fhirmodels.ExtMeetingID, f.MeetingID))
	}
	return r
}

// CreateObservation converts a duty entry into a survey Observation whose
// components carry the star rating and the free-text comment.
func CreateObservation(d *DutyObservation) *Resource {
	code := loincConcept(fhirmodels.LOINCPatientFeedback, fhirmodels.LOINCPatientFeedbackDisplay)
	if d.Code != nil {
		code = *d.Code
	}
	r := &Resource{
		ResourceType: "Observation",
		ID:           d.ID,
		Status:       fhirmodels.ObservationStatusFinal,
		Category: []fhir.CodeableConcept{{
			Coding: []fhir.Coding{{
				System:  fhirmodels.SystemObservationCategory,
				Code:    fhirmodels.ObsCategorySurvey,
				Display: "Survey",
			}},
		}},
		Code:              code,
		Subject:           &fhir.Reference{Reference: fhir.FormatReference("Patient", d.PetID)},
		EffectiveDateTime: effectiveOrNow(d.RecordedAt),
		Note:              []fhir.Annotation{},
		Component: []Component{{
			Code: fhir.CodeableConcept{
				Coding: []fhir.Coding{{
					System:  fhirmodels.SystemLOINC,
					Code:    fhirmodels.LOINCPatientSatisfaction,
					Display: fhirmodels.LOINCPatientSatisfactionDisplay,
				}},
				Text: ComponentRating,
			},
			ValueQuantity: &fhir.Quantity{
				Value:  float64(d.Rating),
				Unit:   "stars",
				System: fhirmodels.SystemUCUM,
				Code:   "{score}",
			},
		}},
	}
	if d.PerformerID != "" {
		r.Performer = []fhir.Reference{{Reference: fhir.FormatReference("Practitioner", d.PerformerID)}}
	}
	if d.Comment != "" {
		comment := d.Comment
		r.Component = append(r.Component, Component{
			Code:        fhir.CodeableConcept{Text: ComponentComment},
			ValueString: &comment,
		})
	}
	if d.MeetingID != "" {
		r.Extension = append(r.Extension, fhir.StringExtension(fhirmodels.ExtMeetingID, d.MeetingID))
	}
	if d.OwnerID != "" {
		r.Extension = append(r.Extension, fhir.StringExtension(fhirmodels.ExtOwnerID, d.OwnerID))
	}
	r.Extension = append(r.Extension, fhir.BooleanExtension(fhirmodels.ExtSyncFlag, d.IsSynced))
	return r
}

// ErrorOutcome reports a failed observation conversion.
func ErrorOutcome(msg string) *fhir.OperationOutcome {
	return fhir.ErrorOutcome(msg)
}

// FeedbackNotFoundOutcome is returned when no feedback exists for a request.
func FeedbackNotFoundOutcome() *fhir.OperationOutcome {
	return fhir.NewOperationOutcome(fhir.IssueSeverityError, fhir.IssueTypeNotFound, "Feedback not found")
}
