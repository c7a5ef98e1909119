package observation

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
	"github.com/vetfhir/vetfhir/pkg/fhirmodels"
)

// FeedbackItem is the flat feedback row shown on the vet review screens.
type FeedbackItem struct {
	ID        string     `json:"id"`
	PetID     string     `json:"petId"`
	VetID     string     `json:"vetId"`
	Rating    int        `json:"rating"`
	Feedback  string     `json:"feedback"`
	Date      string     `json:"date"`
	MeetingID string     `json:"meetingId"`
	Vet       VetSummary `json:"vet"`
}

// VetSummary is filled by the caller from the practitioner directory; this
// package only emits the empty placeholder.
type VetSummary struct {
	Name           string `json:"name"`
	Qualification  string `json:"qualification"`
	Specialization string `json:"specialization"`
	Image          string `json:"image"`
}

func component(r *Resource, text string) *Component {
	for i := range r.Component {
		if r.Component[i].Code.Text == text {
			return &r.Component[i]
		}
	}
	return nil
}

// ToFeedbackItem flattens one Observation. The rating comes from
// valueInteger, falling back to the Rating component.
func ToFeedbackItem(r *Resource) FeedbackItem {
	item := FeedbackItem{
		ID:        r.ID,
		Date:      r.EffectiveDateTime,
		MeetingID: fhir.ExtensionString(r.Extension, fhirmodels.ExtMeetingID),
	}
	if r.Subject != nil {
		item.PetID = fhir.ReferenceID(r.Subject.Reference)
	}
	if len(r.Performer) > 0 {
		item.VetID = fhir.ReferenceID(r.Performer[0].Reference)
	}

	if r.ValueInteger != nil {
		item.Rating = *r.ValueInteger
	} else if c := component(r, ComponentRating); c != nil && c.ValueQuantity != nil {
		item.Rating = int(c.ValueQuantity.Value)
	}

	if len(r.Note) > 0 {
		item.Feedback = r.Note[0].Text
	} else if c := component(r, ComponentComment); c != nil && c.ValueString != nil {
		item.Feedback = *c.ValueString
	}
	return item
}

// TransformObservations converts a JSON array of Observation bundle entries
// into feedback rows. Non-array input is logged and yields an empty list.
func TransformObservations(ctx context.Context, raw json.RawMessage) []FeedbackItem {
	logger := zerolog.Ctx(ctx)
	items := []FeedbackItem{}

	resources, err := fhir.DecodeEntries(raw)
	if err != nil {
		logger.Warn().Err(err).Str("resource", "Observation").Msg("observation list conversion skipped")
		return items
	}
	for i, res := range resources {
		var r Resource
		if err := json.Unmarshal(res, &r); err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("skipping undecodable observation entry")
			continue
		}
		items = append(items, ToFeedbackItem(&r))
	}
	return items
}
