package immunization

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
)

// Defaults for list rows whose source omits the field.
const (
	UnknownVaccine = "Unknown Vaccine"
	UnknownStatus  = "unknown"
)

// TransformOptions tunes TransformImmunizations.
type TransformOptions struct {
	// UseFHIRID takes row ids from the resource id. When false the row id is
	// the entry's position in the input, which is not stable across fetches.
	UseFHIRID bool
}

// ListItem is the flat vaccination row the record screens render.
type ListItem struct {
	ID           string         `json:"id"`
	Vaccine      string         `json:"vaccine"`
	Status       string         `json:"status"`
	Date         string         `json:"date"`
	Manufacturer string         `json:"manufacturer"`
	LotNumber    string         `json:"lotNumber"`
	Location     string         `json:"location"`
	NextDue      string         `json:"nextDue"`
	ExpiryDate   string         `json:"expiryDate"`
	Attachments  AttachmentSets `json:"attachments"`
}

// AttachmentSets groups attachments by what the client can preview.
type AttachmentSets struct {
	Images []AttachmentItem `json:"images"`
	PDFs   []AttachmentItem `json:"pdfs"`
	Others []AttachmentItem `json:"others"`
}

type AttachmentItem struct {
	ID          string `json:"id,omitempty"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

// Attachment kinds returned by ClassifyAttachment.
const (
	KindImage = "image"
	KindPDF   = "pdf"
	KindOther = "other"
)

// ClassifyAttachment buckets a content type by substring.
func ClassifyAttachment(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "image"):
		return KindImage
	case strings.Contains(ct, "pdf"):
		return KindPDF
	}
	return KindOther
}

// ToListItem flattens one Immunization; index is used as id unless
// opts.UseFHIRID is set.
func ToListItem(r *Resource, index int, opts TransformOptions) ListItem {
	item := ListItem{
		ID:           strconv.Itoa(index),
		Vaccine:      vaccineName(r),
		Status:       r.Status,
		Date:         r.OccurrenceDateTime,
		Manufacturer: referenceDisplay(r.Manufacturer),
		LotNumber:    r.LotNumber,
		Location:     referenceDisplay(r.Location),
		NextDue:      nextDue(r.Note),
		ExpiryDate:   noteValue(r.Note, ExpiryDatePrefix),
		Attachments: AttachmentSets{
			Images: []AttachmentItem{},
			PDFs:   []AttachmentItem{},
			Others: []AttachmentItem{},
		},
	}
	if opts.UseFHIRID {
		item.ID = r.ID
	}
	if item.Vaccine == "" {
		item.Vaccine = UnknownVaccine
	}
	if item.Status == "" {
		item.Status = UnknownStatus
	}
	if item.ExpiryDate == "" {
		item.ExpiryDate = r.ExpirationDate
	}

	for _, a := range r.attachments() {
		ai := AttachmentItem{ID: a.ID, URL: a.URL, Name: a.Title, ContentType: a.ContentType}
		switch ClassifyAttachment(a.ContentType) {
		case KindImage:
			item.Attachments.Images = append(item.Attachments.Images, ai)
		case KindPDF:
			item.Attachments.PDFs = append(item.Attachments.PDFs, ai)
		default:
			item.Attachments.Others = append(item.Attachments.Others, ai)
		}
	}
	return item
}

// TransformImmunizations converts a JSON array of Immunization bundle entries
// into list rows. Non-array input is logged and yields an empty list.
func TransformImmunizations(ctx context.Context, raw json.RawMessage, opts TransformOptions) []ListItem {
	logger := zerolog.Ctx(ctx)
	items := []ListItem{}

	resources, err := fhir.DecodeEntries(raw)
	if err != nil {
		logger.Warn().Err(err).Str("resource", "Immunization").Msg("immunization list conversion skipped")
		return items
	}
	for i, res := range resources {
		var r Resource
		if err := json.Unmarshal(res, &r); err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("skipping undecodable immunization entry")
			continue
		}
		items = append(items, ToListItem(&r, i, opts))
	}
	return items
}
