package fhirmodels

// Common FHIR value set constants and wire-level URLs used across the
// converters. These strings are part of the wire contract with the web and
// mobile clients; change them only with a versioned contract change.

// Base URLs.
const (
	ExtensionBaseURL = "http://example.org/fhir/StructureDefinition"
	CodeSystemBase   = "http://example.org/fhir/CodeSystem"
	ValueSetBaseURL  = "http://example.org/fhir/ValueSet"
)

// Coding systems.
const (
	SystemLOINC               = "http://loinc.org"
	SystemUCUM                = "http://unitsofmeasure.org"
	SystemDepartment          = "http://example.org/fhir/department"
	SystemObservationCategory = "http://terminology.hl7.org/CodeSystem/observation-category"
	SystemOrganizationType    = "http://terminology.hl7.org/CodeSystem/organization-type"
	SystemServiceType         = "http://terminology.hl7.org/CodeSystem/service-type"
	SystemPurposeOfVisit      = CodeSystemBase + "/purpose-of-visit"
	SystemGeolocation         = "http://hl7.org/fhir/StructureDefinition/geolocation"
)

// Extension URLs shared by more than one converter.
const (
	ExtSlotsID      = ExtensionBaseURL + "/slotsId"
	ExtSlotMonth    = ExtensionBaseURL + "/slot-month"
	ExtSlotYear     = ExtensionBaseURL + "/slot-year"
	ExtTokenNumber  = ExtensionBaseURL + "/token-number"
	ExtPetParentID  = ExtensionBaseURL + "/pet-parent-id"
	ExtPassport     = ExtensionBaseURL + "/passport-number"
	ExtMicroChip    = ExtensionBaseURL + "/micro-chip-number"
	ExtMeetingID    = ExtensionBaseURL + "/meeting-id"
	ExtOwnerID      = ExtensionBaseURL + "/owner-id"
	ExtSyncFlag     = ExtensionBaseURL + "/is-synced"
	ExtRating       = ExtensionBaseURL + "/rating"
	ExtLogo         = ExtensionBaseURL + "/logo"
	ExtWebsite      = ExtensionBaseURL + "/website"
	ExtSelectedSvc  = ExtensionBaseURL + "/selected-service"
	ExtGeoLatitude  = "latitude"
	ExtGeoLongitude = "longitude"
)

// AppointmentStatus values per FHIR R4.
const (
	AppointmentProposed  = "proposed"
	AppointmentPending   = "pending"
	AppointmentBooked    = "booked"
	AppointmentArrived   = "arrived"
	AppointmentFulfilled = "fulfilled"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "noshow"
	AppointmentCheckedIn = "checked-in"
	AppointmentWaitlist  = "waitlist"
)

// ParticipationStatus values.
const (
	ParticipationAccepted    = "accepted"
	ParticipationNeedsAction = "needs-action"
)

// SlotStatus values per FHIR R4.
const (
	SlotBusy = "busy"
	SlotFree = "free"
)

// ObservationCategory codes.
const (
	ObsCategorySurvey = "survey"
)

// LOINC codes used by the observation converters.
const (
	LOINCPatientSatisfaction        = "71007-4"
	LOINCPatientSatisfactionDisplay = "Patient satisfaction"
	LOINCPatientFeedback            = "76490-0"
	LOINCPatientFeedbackDisplay     = "Patient feedback"
)

// ObservationStatusFinal is the only status the observation converters emit.
const ObservationStatusFinal = "final"

// AdministrativeGender codes.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderOther   = "other"
	GenderUnknown = "unknown"
)
