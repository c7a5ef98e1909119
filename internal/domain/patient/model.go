package patient

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
	"github.com/vetfhir/vetfhir/pkg/fhirmodels"
)

// Pet is the internal pet profile. The pet's own name and the owner's display
// name are separate fields; they share Patient.name[] only on the wire.
type Pet struct {
	ID               string                 `json:"id,omitempty"`
	Name             string                 `json:"name" validate:"required"`
	OwnerDisplayName string                 `json:"petParentName,omitempty"`
	PetParentID      string                 `json:"petParentId" validate:"required"`
	Gender           string                 `json:"gender,omitempty"`
	BirthDate        string                 `json:"birthDate,omitempty"`
	Species          string                 `json:"species,omitempty"`
	Breed            string                 `json:"breed,omitempty"`
	GenderStatus     string                 `json:"genderStatus,omitempty"`
	PassportNumber   string                 `json:"passportNumber,omitempty"`
	MicroChipNumber  string                 `json:"microChipNumber,omitempty"`
	Attributes       map[string]interface{} `json:"attributes,omitempty"`
}

// PetImage is the uploaded-file descriptor stored under the petImage
// attribute.
type PetImage struct {
	ID           string `json:"_id,omitempty"`
	URL          string `json:"url,omitempty"`
	OriginalName string `json:"originalname,omitempty"`
	MimeType     string `json:"mimetype,omitempty"`
}

// Resource is the FHIR Patient resource shape.
type Resource struct {
	ResourceType string           `json:"resourceType"`
	ID           string           `json:"id,omitempty"`
	Name         []fhir.HumanName `json:"name,omitempty"`
	Gender       string           `json:"gender,omitempty"`
	BirthDate    string           `json:"birthDate,omitempty"`
	Animal       *Animal          `json:"animal,omitempty"`
	Extension    []fhir.Extension `json:"extension,omitempty"`
}

// Animal is the R3-era patient-animal backbone the mobile apps still read.
type Animal struct {
	Species      *fhir.CodeableConcept `json:"species,omitempty"`
	Breed        *fhir.CodeableConcept `json:"breed,omitempty"`
	GenderStatus *fhir.CodeableConcept `json:"genderStatus,omitempty"`
}

// fixedExtensionURLs are written from dedicated Pet fields; an attribute
// whose url lands on one of them is dropped so it cannot shadow the field.
var fixedExtensionURLs = map[string]bool{
	fhirmodels.ExtPetParentID: true,
	fhirmodels.ExtPassport:    true,
	fhirmodels.ExtMicroChip:   true,
}

// jsonContentType marks an attachment whose data is an attribute value
// encoded as JSON rather than an uploaded file.
const jsonContentType = "application/json"

// AttributeURL returns the extension url an attribute key is written under.
func AttributeURL(key string) string {
	return fhirmodels.ExtensionBaseURL + "/" + fhir.CamelToKebab(key)
}

// isReservedKey reports whether key would be written over a fixed extension.
func isReservedKey(key string) bool {
	return fixedExtensionURLs[AttributeURL(key)]
}

// ToFHIR converts one pet into a Patient resource.
func (p *Pet) ToFHIR() *Resource {
	r := &Resource{
		ResourceType: "Patient",
		ID:           p.ID,
		Name:         []fhir.HumanName{{Text: p.Name}},
		Gender:       p.Gender,
		BirthDate:    p.BirthDate,
	}
	if p.OwnerDisplayName != "" {
		r.Name = append(r.Name, fhir.HumanName{Text: p.OwnerDisplayName})
	}
	if p.Species != "" || p.Breed != "" || p.GenderStatus != "" {
		r.Animal = &Animal{
			Species:      displayConcept(p.Species),
			Breed:        displayConcept(p.Breed),
			GenderStatus: displayConcept(p.GenderStatus),
		}
	}

	r.Extension = append(r.Extension, fhir.StringExtension(fhirmodels.ExtPetParentID, p.PetParentID))
	if p.PassportNumber != "" {
		r.Extension = append(r.Extension, fhir.StringExtension(fhirmodels.ExtPassport, p.PassportNumber))
	}
	if p.MicroChipNumber != "" {
		r.Extension = append(r.Extension, fhir.StringExtension(fhirmodels.ExtMicroChip, p.MicroChipNumber))
	}

	keys := make([]string, 0, len(p.Attributes))
	for k := range p.Attributes {
		if k == "" || isReservedKey(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.Extension = append(r.Extension, attributeExtension(k, p.Attributes[k]))
	}
	return r
}

// ToFHIRList converts every pet, preserving order.
func ToFHIRList(pets []Pet) []*Resource {
	out := make([]*Resource, 0, len(pets))
	for i := range pets {
		out = append(out, pets[i].ToFHIR())
	}
	return out
}

func displayConcept(display string) *fhir.CodeableConcept {
	if display == "" {
		return nil
	}
	return &fhir.CodeableConcept{Coding: []fhir.Coding{{Display: display}}}
}

func conceptDisplay(cc *fhir.CodeableConcept) string {
	if cc == nil {
		return ""
	}
	if d := cc.FirstCoding().Display; d != "" {
		return d
	}
	return cc.Text
}

// attributeExtension picks the value[x] slot from the Go type of value.
// json.Number is split into integer or decimal. Objects that describe an
// image become a valueAttachment; every other object, array or unknown type
// is carried as JSON in the attachment data. A key the kebab-case url cannot
// reproduce is kept verbatim in title.
func attributeExtension(key string, value interface{}) fhir.Extension {
	ext := attributeValueExtension(key, AttributeURL(key), value)
	if fhir.KebabToCamel(fhir.CamelToKebab(key)) != key {
		ext.Title = key
	}
	return ext
}

func attributeValueExtension(key, url string, value interface{}) fhir.Extension {
	switch v := value.(type) {
	case string:
		return fhir.StringExtension(url, v)
	case bool:
		return fhir.BooleanExtension(url, v)
	case int:
		return fhir.IntegerExtension(url, v)
	case int32:
		return fhir.IntegerExtension(url, int(v))
	case int64:
		return fhir.IntegerExtension(url, int(v))
	case float32:
		return fhir.DecimalExtension(url, float64(v))
	case float64:
		return fhir.DecimalExtension(url, v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return fhir.IntegerExtension(url, int(n))
		}
		f, _ := v.Float64()
		return fhir.DecimalExtension(url, f)
	case PetImage:
		return fhir.Extension{URL: url, ValueAttachment: v.attachment()}
	case *PetImage:
		return fhir.Extension{URL: url, ValueAttachment: v.attachment()}
	case map[string]interface{}:
		if key == petImageKey || isImageMap(v) {
			return fhir.Extension{URL: url, ValueAttachment: imageFromMap(v).attachment()}
		}
	case nil:
		return fhir.Extension{URL: url}
	}
	data, _ := json.Marshal(value)
	return fhir.Extension{URL: url, ValueAttachment: &fhir.Attachment{ContentType: jsonContentType, Data: data}}
}

func isImageMap(m map[string]interface{}) bool {
	_, hasURL := m["url"]
	_, hasMime := m["mimetype"]
	return hasURL || hasMime
}

func (img *PetImage) attachment() *fhir.Attachment {
	return &fhir.Attachment{
		ID:          img.ID,
		URL:         img.URL,
		Title:       img.OriginalName,
		ContentType: img.MimeType,
	}
}

func imageFromMap(m map[string]interface{}) *PetImage {
	str := func(k string) string {
		s, _ := m[k].(string)
		return s
	}
	return &PetImage{ID: str("_id"), URL: str("url"), OriginalName: str("originalname"), MimeType: str("mimetype")}
}

func imageFromAttachment(a *fhir.Attachment) PetImage {
	return PetImage{ID: a.ID, URL: a.URL, OriginalName: a.Title, MimeType: a.ContentType}
}

// AttributeKey derives the canonical camelCase key of an extension. A url
// under the product extension base wins, unless title holds the exact key
// that url was written from. A legacy title is used when the url is empty or
// foreign.
func AttributeKey(ext fhir.Extension) string {
	if strings.HasPrefix(ext.URL, fhirmodels.ExtensionBaseURL+"/") {
		if ext.Title != "" && AttributeURL(ext.Title) == ext.URL {
			return ext.Title
		}
		return fhir.KebabToCamel(fhir.URLSuffix(ext.URL))
	}
	if ext.Title != "" {
		return fhir.TitleToCamel(ext.Title)
	}
	if ext.URL != "" {
		return fhir.KebabToCamel(fhir.URLSuffix(ext.URL))
	}
	return ""
}

// attributeValue is the inverse of attributeValueExtension.
func attributeValue(ext fhir.Extension) interface{} {
	if a := ext.ValueAttachment; a != nil {
		if a.ContentType == jsonContentType && len(a.Data) > 0 {
			var v interface{}
			if err := json.Unmarshal(a.Data, &v); err == nil {
				return v
			}
		}
		return imageFromAttachment(a)
	}
	return ext.Value()
}

// FromFHIR converts a Patient back into the internal pet. Fixed extensions
// are matched by exact url; every other extension becomes an attribute.
func FromFHIR(r *Resource) *Pet {
	p := &Pet{
		ID:        r.ID,
		Gender:    r.Gender,
		BirthDate: r.BirthDate,
	}
	if len(r.Name) > 0 {
		p.Name = r.Name[0].Text
	}
	if len(r.Name) > 1 {
		p.OwnerDisplayName = r.Name[1].Text
	}
	if r.Animal != nil {
		p.Species = conceptDisplay(r.Animal.Species)
		p.Breed = conceptDisplay(r.Animal.Breed)
		p.GenderStatus = conceptDisplay(r.Animal.GenderStatus)
	}

	for _, ext := range r.Extension {
		switch ext.URL {
		case fhirmodels.ExtPetParentID:
			p.PetParentID = ext.StringValue()
			continue
		case fhirmodels.ExtPassport:
			p.PassportNumber = ext.StringValue()
			continue
		case fhirmodels.ExtMicroChip:
			p.MicroChipNumber = ext.StringValue()
			continue
		}
		key := AttributeKey(ext)
		if key == "" {
			continue
		}
		if p.Attributes == nil {
			p.Attributes = make(map[string]interface{})
		}
		p.Attributes[key] = attributeValue(ext)
	}
	return p
}
