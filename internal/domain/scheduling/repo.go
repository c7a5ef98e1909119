package scheduling

import "context"

type SlotRepository interface {
	ListByDoctorDate(ctx context.Context, doctorID, date string, limit, offset int) ([]Slot, int, error)
	ListBooked(ctx context.Context, doctorID string, slotIDs []string) ([]BookedAppointment, error)
}
