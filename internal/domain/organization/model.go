package organization

import (
	"strings"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
	"github.com/vetfhir/vetfhir/pkg/fhirmodels"
)

// UnknownName is used when a business has no name in any of its fields.
const UnknownName = "Unknown"

// Business is a veterinary practice profile as the onboarding flow stores it.
type Business struct {
	CognitoID        string       `json:"cognitoId" validate:"required"`
	BusinessName     string       `json:"businessName,omitempty"`
	BusinessType     string       `json:"businessType,omitempty"`
	ProfileData      *ProfileData `json:"profileData,omitempty"`
	AddressLine1     string       `json:"addressLine1,omitempty"`
	City             string       `json:"city,omitempty"`
	State            string       `json:"state,omitempty"`
	Country          string       `json:"country,omitempty"`
	ZipCode          string       `json:"zipCode,omitempty"`
	Latitude         *float64     `json:"latitude,omitempty"`
	Longitude        *float64     `json:"longitude,omitempty"`
	Phone            string       `json:"phone,omitempty"`
	Email            string       `json:"email,omitempty" validate:"omitempty,email"`
	Website          string       `json:"website,omitempty"`
	Logo             string       `json:"logo,omitempty"`
	Rating           *float64     `json:"rating,omitempty"`
	SelectedServices []string     `json:"selectedServices,omitempty"`
	Departments      []Department `json:"departments,omitempty" validate:"dive"`
}

// ProfileData holds the public profile fields edited after onboarding.
type ProfileData struct {
	Name         string `json:"name,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
}

type Department struct {
	DepartmentID   string `json:"departmentId" validate:"required"`
	DepartmentName string `json:"departmentName,omitempty"`
	Description    string `json:"description,omitempty"`
}

// Resource is the FHIR Organization resource shape.
type Resource struct {
	ResourceType string                 `json:"resourceType"`
	ID           string                 `json:"id,omitempty"`
	Active       bool                   `json:"active"`
	Name         string                 `json:"name"`
	Type         []fhir.CodeableConcept `json:"type,omitempty"`
	Telecom      []fhir.ContactPoint    `json:"telecom,omitempty"`
	Address      []fhir.Address         `json:"address,omitempty"`
	Extension    []fhir.Extension       `json:"extension"`
}

// HealthcareService is the FHIR HealthcareService resource shape.
type HealthcareService struct {
	ResourceType string                 `json:"resourceType"`
	ID           string                 `json:"id"`
	Active       bool                   `json:"active"`
	ProvidedBy   fhir.Reference         `json:"providedBy"`
	Type         []fhir.CodeableConcept `json:"type,omitempty"`
	Name         string                 `json:"name,omitempty"`
	Comment      string                 `json:"comment,omitempty"`
}

// DisplayName resolves the organization name: profile name, then profile
// business name, then business name.
func (b *Business) DisplayName() string {
	if b.ProfileData != nil {
		if b.ProfileData.Name != "" {
			return b.ProfileData.Name
		}
		if b.ProfileData.BusinessName != "" {
			return b.ProfileData.BusinessName
		}
	}
	if b.BusinessName != "" {
		return b.BusinessName
	}
	return UnknownName
}

// AddressText joins the address parts with single spaces. An empty middle
// part leaves a double space; only the ends are trimmed.
func (b *Business) AddressText() string {
	return strings.TrimSpace(strings.Join([]string{b.AddressLine1, b.City, b.State, b.Country}, " "))
}

// ToFHIROrganization converts a business profile into an Organization. The
// rating extension is always present and comes first.
func ToFHIROrganization(b *Business) *Resource {
	r := &Resource{
		ResourceType: "Organization",
		ID:           b.CognitoID,
		Active:       true,
		Name:         b.DisplayName(),
		Type: []fhir.CodeableConcept{{
			Coding: []fhir.Coding{{
				System:  fhirmodels.SystemOrganizationType,
				Code:    "prov",
				Display: "Healthcare Provider",
			}},
			Text: b.BusinessType,
		}},
	}

	if b.Phone != "" {
		r.Telecom = append(r.Telecom, fhir.ContactPoint{System: "phone", Value: b.Phone, Use: "work"})
	}
	if b.Email != "" {
		r.Telecom = append(r.Telecom, fhir.ContactPoint{System: "email", Value: b.Email, Use: "work"})
	}
	if b.Website != "" {
		r.Telecom = append(r.Telecom, fhir.ContactPoint{System: "url", Value: b.Website, Use: "work"})
	}

	addr := fhir.Address{
		Use:        "work",
		Text:       b.AddressText(),
		City:       b.City,
		State:      b.State,
		PostalCode: b.ZipCode,
		Country:    b.Country,
	}
	if b.AddressLine1 != "" {
		addr.Line = []string{b.AddressLine1}
	}
	if b.Latitude != nil && b.Longitude != nil {
		addr.Extension = []fhir.Extension{{
			URL: fhirmodels.SystemGeolocation,
			Extension: []fhir.Extension{
				fhir.DecimalExtension(fhirmodels.ExtGeoLatitude, *b.Latitude),
				fhir.DecimalExtension(fhirmodels.ExtGeoLongitude, *b.Longitude),
			},
		}}
	}
	if addr.Text != "" || addr.Extension != nil {
		r.Address = []fhir.Address{addr}
	}

	rating := 0.0
	if b.Rating != nil {
		rating = *b.Rating
	}
	r.Extension = []fhir.Extension{fhir.DecimalExtension(fhirmodels.ExtRating, rating)}
	if b.Logo != "" {
		r.Extension = append(r.Extension, fhir.Extension{URL: fhirmodels.ExtLogo, ValueURL: fhir.StrPtr(b.Logo)})
	}
	if b.Website != "" {
		r.Extension = append(r.Extension, fhir.Extension{URL: fhirmodels.ExtWebsite, ValueURL: fhir.StrPtr(b.Website)})
	}
	for _, svc := range b.SelectedServices {
		r.Extension = append(r.Extension, fhir.StringExtension(fhirmodels.ExtSelectedSvc, svc))
	}
	return r
}

// HealthcareServiceID namespaces a department id by its organization so that
// ids never collide across practices.
func HealthcareServiceID(cognitoID, departmentID string) string {
	return cognitoID + "-" + departmentID
}

// ToFHIRHealthcareServices emits one HealthcareService per department.
func ToFHIRHealthcareServices(b *Business) []*HealthcareService {
	out := make([]*HealthcareService, 0, len(b.Departments))
	for _, d := range b.Departments {
		out = append(out, &HealthcareService{
			ResourceType: "HealthcareService",
			ID:           HealthcareServiceID(b.CognitoID, d.DepartmentID),
			Active:       true,
			ProvidedBy:   fhir.Reference{Reference: fhir.FormatReference("Organization", b.CognitoID)},
			Type: []fhir.CodeableConcept{{
				Coding: []fhir.Coding{{System: fhirmodels.SystemServiceType, Code: d.DepartmentID, Display: d.DepartmentName}},
				Text:   d.DepartmentName,
			}},
			Name:    d.DepartmentName,
			Comment: d.Description,
		})
	}
	return out
}

// FromFHIROrganization converts an Organization back into a business
// profile. Departments are not recoverable from the Organization alone.
func FromFHIROrganization(r *Resource) *Business {
	b := &Business{
		CognitoID:    r.ID,
		BusinessName: r.Name,
	}
	if b.BusinessName == UnknownName {
		b.BusinessName = ""
	}
	if len(r.Type) > 0 {
		b.BusinessType = r.Type[0].Text
	}
	for _, tp := range r.Telecom {
		switch tp.System {
		case "phone":
			b.Phone = tp.Value
		case "email":
			b.Email = tp.Value
		case "url":
			b.Website = tp.Value
		}
	}
	if len(r.Address) > 0 {
		a := r.Address[0]
		if len(a.Line) > 0 {
			b.AddressLine1 = a.Line[0]
		}
		b.City, b.State, b.Country, b.ZipCode = a.City, a.State, a.Country, a.PostalCode
		if geo, ok := fhir.FindExtension(a.Extension, fhirmodels.SystemGeolocation); ok {
			if lat, ok := fhir.FindExtension(geo.Extension, fhirmodels.ExtGeoLatitude); ok && lat.ValueDecimal != nil {
				b.Latitude = fhir.FloatPtr(*lat.ValueDecimal)
			}
			if lng, ok := fhir.FindExtension(geo.Extension, fhirmodels.ExtGeoLongitude); ok && lng.ValueDecimal != nil {
				b.Longitude = fhir.FloatPtr(*lng.ValueDecimal)
			}
		}
	}
	for _, ext := range r.Extension {
		switch ext.URL {
		case fhirmodels.ExtRating:
			if ext.ValueDecimal != nil {
				b.Rating = fhir.FloatPtr(*ext.ValueDecimal)
			}
		case fhirmodels.ExtLogo:
			b.Logo = ext.StringValue()
		case fhirmodels.ExtWebsite:
			if b.Website == "" {
				b.Website = ext.StringValue()
			}
		case fhirmodels.ExtSelectedSvc:
			b.SelectedServices = append(b.SelectedServices, ext.StringValue())
		}
	}
	return b
}
