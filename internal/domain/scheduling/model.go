package scheduling

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
	"github.com/vetfhir/vetfhir/pkg/fhirmodels"
)

// DefaultTimezone is the zone slot wall-clock times are interpreted in when
// none is configured.
const DefaultTimezone = "Asia/Kolkata"

const (
	SlotStatusBusy = fhirmodels.SlotBusy
	SlotStatusFree = fhirmodels.SlotFree
)

// Slot times arrive as 12-hour clock strings, with or without a leading zero.
var slotTimeLayouts = []string{
	"2006-01-02 03:04 PM",
	"2006-01-02 3:04 PM",
}

// Slot is one bookable time on a doctor's calendar.
type Slot struct {
	ID       string `json:"_id" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"required"`
	DoctorID string `json:"doctorId,omitempty"`
}

// UnmarshalJSON accepts _id as a string, a number or an {"$oid": ...}
// object and keeps its string form, the same coercion booked slot ids get.
func (s *Slot) UnmarshalJSON(data []byte) error {
	type plain Slot
	aux := struct {
		ID interface{} `json:"_id"`
		*plain
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.ID = idString(aux.ID)
	return nil
}

// BookedAppointment only matters for the slot it holds. SlotsID is kept
// loose because clients send it as a string, a number or an object id.
type BookedAppointment struct {
	SlotsID interface{} `json:"slotsId"`
}

// Resource is the Slot wire shape. IsBooked is the string "true" or "false"
// and Start is null when the slot time cannot be parsed.
type Resource struct {
	ResourceType string         `json:"resourceType"`
	ID           string         `json:"id"`
	Schedule     fhir.Reference `json:"schedule"`
	Status       string         `json:"status"`
	Start        *string        `json:"start"`
	IsBooked     string         `json:"isBooked"`
}

// DefaultLocation returns the DefaultTimezone location.
func DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

// CreateFHIRSlot converts a slot, marking it busy when any booked appointment
// references it. A nil loc means DefaultLocation.
func CreateFHIRSlot(slot Slot, doctorID string, booked []BookedAppointment, loc *time.Location) *Resource {
	if loc == nil {
		loc = DefaultLocation()
	}
	isBooked := IsSlotBooked(slot.ID, booked)

	status := SlotStatusFree
	if isBooked {
		status = SlotStatusBusy
	}
	return &Resource{
		ResourceType: "Slot",
		ID:           slot.ID,
		Schedule:     fhir.Reference{Reference: fhir.FormatReference("Schedule", doctorID)},
		Status:       status,
		Start:        SlotStart(slot.Date, slot.Time, loc),
		IsBooked:     strconv.FormatBool(isBooked),
	}
}

// IsSlotBooked compares ids by their string form. An empty id never matches.
func IsSlotBooked(slotID string, booked []BookedAppointment) bool {
	if slotID == "" {
		return false
	}
	for _, b := range booked {
		if id := idString(b.SlotsID); id != "" && id == slotID {
			return true
		}
	}
	return false
}

// SlotStart combines a calendar date and a 12-hour clock time in loc and
// returns the instant in UTC ISO form, or nil when neither layout matches.
func SlotStart(date, clock string, loc *time.Location) *string {
	date = strings.TrimSpace(date)
	if len(date) > 10 && date[10] == 'T' {
		date = date[:10]
	}
	value := date + " " + strings.ToUpper(strings.TrimSpace(clock))
	for _, layout := range slotTimeLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			continue
		}
		s := t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
		return &s
	}
	return nil
}

func idString(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case map[string]interface{}:
		// Extended JSON object ids: {"$oid": "..."}.
		if oid, ok := id["$oid"].(string); ok {
			return oid
		}
		return fmt.Sprint(id)
	default:
		return fmt.Sprint(id)
	}
}
