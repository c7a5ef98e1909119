package appointment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
	"github.com/vetfhir/vetfhir/pkg/fhirmodels"
)

// Display layouts for list rows: "10 Apr 2025" and "11:00 AM".
const (
	DisplayDateLayout = "02 Jan 2006"
	DisplayTimeLayout = "03:04 PM"
)

// ListItem is the normalized row the appointment list screens render.
type ListItem struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	ServiceType  string            `json:"serviceType"`
	Start        string            `json:"start"`
	Date         *string           `json:"date"`
	Time         *string           `json:"time"`
	Participants []ParticipantItem `json:"participants"`
	Reason       string            `json:"reason"`
	Description  string            `json:"description"`
	Slot         string            `json:"slot"`
	TokenNumber  string            `json:"tokenNumber"`
}

type ParticipantItem struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ToListItem flattens one FHIR Appointment. Date and time are rendered in
// loc; a nil loc keeps the offset carried by start.
func ToListItem(r *Resource, loc *time.Location) ListItem {
	item := ListItem{
		ID:           r.ID,
		Status:       r.Status,
		Start:        r.Start,
		Description:  r.Description,
		Participants: make([]ParticipantItem, 0, len(r.Participant)),
		TokenNumber:  fhir.ExtensionString(r.Extension, fhirmodels.ExtTokenNumber),
	}
	if len(r.ServiceType) > 0 {
		item.ServiceType = r.ServiceType[0].Text
	}
	for _, p := range r.Participant {
		item.Participants = append(item.Participants, ParticipantItem{Name: p.Actor.Display, Status: p.Status})
	}
	if len(r.ReasonCode) > 0 {
		item.Reason = r.ReasonCode[0].Text
	}
	if len(r.Slot) > 0 {
		item.Slot = r.Slot[0].Reference
	}
	if t, ok := parseStart(r.Start); ok {
		if loc != nil {
			t = t.In(loc)
		}
		date := t.Format(DisplayDateLayout)
		clock := t.Format(DisplayTimeLayout)
		item.Date = &date
		item.Time = &clock
	}
	return item
}

// ListFromFHIR converts a JSON array of Appointment bundle entries into list
// rows. Input that is not an array is logged and yields an empty list, as do
// entries that fail to decode.
func ListFromFHIR(ctx context.Context, raw json.RawMessage, loc *time.Location) []ListItem {
	logger := zerolog.Ctx(ctx)
	items := []ListItem{}

	resources, err := fhir.DecodeEntries(raw)
	if err != nil {
		logger.Warn().Err(err).Str("resource", "Appointment").Msg("appointment list conversion skipped")
		return items
	}
	for i, res := range resources {
		var r Resource
		if err := json.Unmarshal(res, &r); err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("skipping undecodable appointment entry")
			continue
		}
		items = append(items, ToListItem(&r, loc))
	}
	return items
}

func parseStart(start string) (time.Time, bool) {
	if start == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, start); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
