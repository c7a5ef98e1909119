package valueset

import (
	"github.com/vetfhir/vetfhir/pkg/fhirmodels"
)

// PurposeOfVisitPrefix prefixes the id of every hospital-scoped
// purpose-of-visit ValueSet.
const PurposeOfVisitPrefix = "purpose-of-visit-"

// PurposeOfVisit maps to the purpose_of_visit table.
type PurposeOfVisit struct {
	ID         string `db:"id" json:"_id"`
	HospitalID string `db:"hospital_id" json:"hospitalId"`
	Name       string `db:"name" json:"name"`
	Active     bool   `db:"active" json:"active"`
}

type Resource struct {
	ResourceType string   `json:"resourceType"`
	ID           string   `json:"id"`
	URL          string   `json:"url"`
	Status       string   `json:"status"`
	Name         string   `json:"name,omitempty"`
	Title        string   `json:"title,omitempty"`
	Compose      *Compose `json:"compose"`
}

type Compose struct {
	Include []Include `json:"include"`
}

type Include struct {
	System  string    `json:"system,omitempty"`
	Concept []Concept `json:"concept"`
}

type Concept struct {
	Code    string `json:"code"`
	Display string `json:"display"`
}

// PurposeOfVisitConverter turns one hospital's purpose-of-visit records into
// a ValueSet.
type PurposeOfVisitConverter struct {
	HospitalID string
	Records    []PurposeOfVisit
}

// ToValueSet emits a single compose.include whose concepts follow the record
// order. An empty record list still yields an include with no concepts.
func (p PurposeOfVisitConverter) ToValueSet() *Resource {
	id := PurposeOfVisitPrefix + p.HospitalID
	concepts := make([]Concept, 0, len(p.Records))
	for _, r := range p.Records {
		concepts = append(concepts, Concept{Code: r.ID, Display: r.Name})
	}
	return &Resource{
		ResourceType: "ValueSet",
		ID:           id,
		URL:          fhirmodels.ValueSetBaseURL + "/" + id,
		Status:       "active",
		Name:         "PurposeOfVisit",
		Title:        "Purpose of Visit",
		Compose: &Compose{
			Include: []Include{{
				System:  fhirmodels.SystemPurposeOfVisit,
				Concept: concepts,
			}},
		},
	}
}
