package appointment

import (
	"strings"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
	"github.com/vetfhir/vetfhir/pkg/fhirmodels"
)

// Appointment is the internal booking record as the clinic apps submit it.
type Appointment struct {
	ID             string `json:"id,omitempty"`
	PetID          string `json:"petId" validate:"required"`
	PetName        string `json:"petName,omitempty"`
	DoctorID       string `json:"doctorId" validate:"required_without=Veterinarian"`
	Veterinarian   string `json:"veterinarian,omitempty"`
	DoctorName     string `json:"doctorName,omitempty"`
	BusinessID     string `json:"businessId" validate:"required"`
	BusinessName   string `json:"businessName,omitempty"`
	StartDateTime  string `json:"startDateTime" validate:"required"`
	EndDateTime    string `json:"endDateTime,omitempty"`
	Status         string `json:"status,omitempty"`
	DepartmentID   string `json:"departmentId,omitempty"`
	DepartmentName string `json:"departmentName,omitempty"`
	SlotID         string `json:"slotId,omitempty"`
	ReasonText     string `json:"reasonText,omitempty"`
	Description    string `json:"description,omitempty"`
	TokenNumber    string `json:"tokenNumber,omitempty"`
}

// practitionerID returns the doctor id, accepting the older "veterinarian"
// field name some clients still send.
func (a *Appointment) practitionerID() string {
	if a.DoctorID != "" {
		return a.DoctorID
	}
	return a.Veterinarian
}

// MonthlySlotRequest asks for the bookable slots of one doctor in a month.
type MonthlySlotRequest struct {
	DoctorID   string `json:"doctorId" validate:"required"`
	BusinessID string `json:"businessId,omitempty"`
	SlotID     string `json:"slotId,omitempty"`
	Month      int    `json:"month" validate:"required,min=1,max=12"`
	Year       int    `json:"year" validate:"required,min=1970"`
}

// Resource is the FHIR Appointment resource shape.
type Resource struct {
	ResourceType string                 `json:"resourceType"`
	ID           string                 `json:"id,omitempty"`
	Status       string                 `json:"status"`
	ServiceType  []fhir.CodeableConcept `json:"serviceType,omitempty"`
	ReasonCode   []fhir.CodeableConcept `json:"reasonCode,omitempty"`
	Description  string                 `json:"description,omitempty"`
	Start        string                 `json:"start,omitempty"`
	End          string                 `json:"end,omitempty"`
	Slot         []fhir.Reference       `json:"slot,omitempty"`
	Participant  []Participant          `json:"participant"`
	Extension    []fhir.Extension       `json:"extension,omitempty"`
}

type Participant struct {
	Actor  fhir.Reference `json:"actor"`
	Status string         `json:"status"`
}

// NormalizeStatus maps an internal status onto the lowercase FHIR
// AppointmentStatus code. An empty status is a fresh booking.
func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return fhirmodels.AppointmentBooked
	}
	return s
}

// ToFHIR converts a booking into a FHIR Appointment. Participants are always
// emitted pet, practitioner, location in that order; an actor is skipped only
// when its id is empty.
func (a *Appointment) ToFHIR() *Resource {
	r := &Resource{
		ResourceType: "Appointment",
		ID:           a.ID,
		Status:       NormalizeStatus(a.Status),
		Start:        a.StartDateTime,
		End:          a.EndDateTime,
		Description:  a.Description,
		Participant:  buildParticipants(a.PetID, a.PetName, a.practitionerID(), a.DoctorName, a.BusinessID, a.BusinessName),
	}

	if a.DepartmentID != "" || a.DepartmentName != "" {
		r.ServiceType = []fhir.CodeableConcept{{
			Coding: []fhir.Coding{{
				System:  fhirmodels.SystemDepartment,
				Code:    a.DepartmentID,
				Display: a.DepartmentName,
			}},
			Text: a.DepartmentName,
		}}
	}
	if a.ReasonText != "" {
		r.ReasonCode = []fhir.CodeableConcept{{Text: a.ReasonText}}
	}
	if a.SlotID != "" {
		r.Slot = []fhir.Reference{{Reference: fhir.FormatReference("Slot", a.SlotID)}}
		r.Extension = append(r.Extension, fhir.StringExtension(fhirmodels.ExtSlotsID, a.SlotID))
	}
	if a.TokenNumber != "" {
		r.Extension = append(r.Extension, fhir.StringExtension(fhirmodels.ExtTokenNumber, a.TokenNumber))
	}
	return r
}

// ToFHIR converts a monthly slot request into a proposed Appointment carrying
// the month and year as integer extensions.
func (m *MonthlySlotRequest) ToFHIR() *Resource {
	r := &Resource{
		ResourceType: "Appointment",
		Status:       fhirmodels.AppointmentProposed,
		Participant:  buildParticipants("", "", m.DoctorID, "", m.BusinessID, ""),
	}
	if m.SlotID != "" {
		r.Extension = append(r.Extension, fhir.StringExtension(fhirmodels.ExtSlotsID, m.SlotID))
	}
	r.Extension = append(r.Extension,
		fhir.IntegerExtension(fhirmodels.ExtSlotMonth, m.Month),
		fhir.IntegerExtension(fhirmodels.ExtSlotYear, m.Year),
	)
	return r
}

func buildParticipants(petID, petName, doctorID, doctorName, businessID, businessName string) []Participant {
	participants := []Participant{}
	if petID != "" {
		participants = append(participants, Participant{
			Actor:  fhir.Reference{Reference: fhir.FormatReference("Patient", petID), Display: petName},
			Status: fhirmodels.ParticipationAccepted,
		})
	}
	if doctorID != "" {
		participants = append(participants, Participant{
			Actor:  fhir.Reference{Reference: fhir.FormatReference("Practitioner", doctorID), Display: doctorName},
			Status: fhirmodels.ParticipationAccepted,
		})
	}
	if businessID != "" {
		participants = append(participants, Participant{
			Actor:  fhir.Reference{Reference: fhir.FormatReference("Location", businessID), Display: businessName},
			Status: fhirmodels.ParticipationAccepted,
		})
	}
	return participants
}

// FromFHIR converts a FHIR Appointment back into the internal booking record.
// Actors are matched by reference type, so participant order does not matter.
func FromFHIR(r *Resource) *Appointment {
	a := &Appointment{
		ID:            r.ID,
		Status:        r.Status,
		StartDateTime: r.Start,
		EndDateTime:   r.End,
		Description:   r.Description,
		SlotID:        fhir.ExtensionString(r.Extension, fhirmodels.ExtSlotsID),
		TokenNumber:   fhir.ExtensionString(r.Extension, fhirmodels.ExtTokenNumber),
	}
	for _, p := range r.Participant {
		id := fhir.ReferenceID(p.Actor.Reference)
		switch {
		case strings.HasPrefix(p.Actor.Reference, "Patient/"):
			a.PetID, a.PetName = id, p.Actor.Display
		case strings.HasPrefix(p.Actor.Reference, "Practitioner/"):
			a.DoctorID, a.DoctorName = id, p.Actor.Display
		case strings.HasPrefix(p.Actor.Reference, "Location/"):
			a.BusinessID, a.BusinessName = id, p.Actor.Display
		}
	}
	if len(r.ServiceType) > 0 {
		c := r.ServiceType[0].FirstCoding()
		a.DepartmentID = c.Code
		a.DepartmentName = c.Display
		if a.DepartmentName == "" {
			a.DepartmentName = r.ServiceType[0].Text
		}
	}
	if len(r.ReasonCode) > 0 {
		a.ReasonText = r.ReasonCode[0].Text
	}
	if a.SlotID == "" && len(r.Slot) > 0 {
		a.SlotID = fhir.ReferenceID(r.Slot[0].Reference)
	}
	return a
}
