package documents

import (
	"github.com/vetfhir/vetfhir/internal/platform/fhir"
)

const (
	ResourceTypeDocumentReference = "DocumentReference"
	StatusCurrent                 = "current"
)

// Document is an uploaded medical document filed in a pet's record folder.
type Document struct {
	ID               string       `json:"id,omitempty"`
	ResourceType     string       `json:"resourceType,omitempty"`
	Status           string       `json:"status,omitempty"`
	PatientID        string       `json:"patientId" validate:"required"`
	TypeText         string       `json:"typeText" validate:"required"`
	FolderID         string       `json:"folderId,omitempty"`
	Description      string       `json:"description,omitempty"`
	Date             string       `json:"date,omitempty"`
	ContextPeriodEnd string       `json:"contextPeriodEnd,omitempty"`
	Attachments      []Attachment `json:"attachments,omitempty" validate:"dive"`
}

type Attachment struct {
	URL         string `json:"url" validate:"required"`
	ContentType string `json:"contentType,omitempty"`
	Title       string `json:"title,omitempty"`
	Size        int    `json:"size,omitempty"`
	Creation    string `json:"creation,omitempty"`
}

// Resource is the FHIR DocumentReference shape as the apps exchange it.
type Resource struct {
	ResourceType string          `json:"resourceType"`
	ID           string          `json:"id,omitempty"`
	Status       string          `json:"status,omitempty"`
	Type         *DocumentType   `json:"type,omitempty"`
	Subject      *fhir.Reference `json:"subject,omitempty"`
	Date         string          `json:"date,omitempty"`
	Description  string          `json:"description,omitempty"`
	Context      *Context        `json:"context,omitempty"`
	Content      []Content       `json:"content"`
}

// DocumentType carries the human document type and, in reference, the id of
// the folder the document is filed in. This is not standard FHIR.
type DocumentType struct {
	Text      string `json:"text,omitempty"`
	Reference string `json:"reference,omitempty"`
}

type Context struct {
	Period *fhir.Period `json:"period,omitempty"`
}

type Content struct {
	Attachment fhir.Attachment `json:"attachment"`
}

// MedicalRecord is the strict internal view of a DocumentReference used by
// the medical-record screens.
type MedicalRecord struct {
	ID          string       `json:"id,omitempty"`
	PatientID   string       `json:"patientId"`
	Title       string       `json:"title"`
	FolderID    string       `json:"folderId,omitempty"`
	Description string       `json:"description"`
	Date        string       `json:"date,omitempty"`
	ExpiryDate  string       `json:"expiryDate,omitempty"`
	Attachments []Attachment `json:"attachments"`
}

// ToFHIR converts a document into a DocumentReference. resourceType defaults
// to DocumentReference.
func (d *Document) ToFHIR() *Resource {
	rt := d.ResourceType
	if rt == "" {
		rt = ResourceTypeDocumentReference
	}
	status := d.Status
	if status == "" {
		status = StatusCurrent
	}
	r := &Resource{
		ResourceType: rt,
		ID:           d.ID,
		Status:       status,
		Type:         &DocumentType{Text: d.TypeText, Reference: d.FolderID},
		Subject:      &fhir.Reference{Reference: fhir.FormatReference("Patient", d.PatientID)},
		Date:         d.Date,
		Description:  d.Description,
		Content:      make([]Content, 0, len(d.Attachments)),
	}
	if d.ContextPeriodEnd != "" {
		r.Context = &Context{Period: &fhir.Period{End: d.ContextPeriodEnd}}
	}
	for _, a := range d.Attachments {
		r.Content = append(r.Content, Content{Attachment: fhir.Attachment{
			URL:         a.URL,
			ContentType: a.ContentType,
			Title:       a.Title,
			Size:        a.Size,
			Creation:    a.Creation,
		}})
	}
	return r
}

func (r *Resource) attachments() []Attachment {
	out := make([]Attachment, 0, len(r.Content))
	for _, c := range r.Content {
		a := c.Attachment
		out = append(out, Attachment{URL: a.URL, ContentType: a.ContentType, Title: a.Title, Size: a.Size, Creation: a.Creation})
	}
	return out
}

func (r *Resource) periodEnd() string {
	if r.Context == nil || r.Context.Period == nil {
		return ""
	}
	return r.Context.Period.End
}

func (r *Resource) patientID() string {
	if r.Subject == nil {
		return ""
	}
	return fhir.ReferenceID(r.Subject.Reference)
}

// FromFHIR converts a DocumentReference back into a document. Missing parts
// are left empty.
func FromFHIR(r *Resource) *Document {
	d := &Document{
		ID:               r.ID,
		ResourceType:     r.ResourceType,
		Status:           r.Status,
		PatientID:        r.patientID(),
		Date:             r.Date,
		Description:      r.Description,
		ContextPeriodEnd: r.periodEnd(),
		Attachments:      r.attachments(),
	}
	if r.Type != nil {
		d.TypeText = r.Type.Text
		d.FolderID = r.Type.Reference
	}
	return d
}

// MedicalRecordFromFHIR is the strict reader: the resource must be a
// DocumentReference with type.text and description present.
func MedicalRecordFromFHIR(r *Resource) (*MedicalRecord, error) {
	if r.ResourceType != ResourceTypeDocumentReference {
		return nil, fhir.UnsupportedResourceType(r.ResourceType, ResourceTypeDocumentReference)
	}
	if r.Type == nil || r.Type.Text == "" {
		return nil, fhir.MissingField("type.text")
	}
	if r.Description == "" {
		return nil, fhir.MissingField("description")
	}
	return &MedicalRecord{
		ID:          r.ID,
		PatientID:   r.patientID(),
		Title:       r.Type.Text,
		FolderID:    r.Type.Reference,
		Description: r.Description,
		Date:        r.Date,
		ExpiryDate:  r.periodEnd(),
		Attachments: r.attachments(),
	}, nil
}
