package scheduling

import (
	"context"
	"time"

	"github.com/vetfhir/vetfhir/pkg/pagination"
)

type Service struct {
	repo SlotRepository
	loc  *time.Location
}

func NewService(repo SlotRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = DefaultLocation()
	}
	return &Service{repo: repo, loc: loc}
}

// SearchSlots returns one page of a doctor's slots for a date, converted,
// together with the total slot count for that day.
func (s *Service) SearchSlots(ctx context.Context, doctorID, date string, pg pagination.Params) ([]*Resource, int, error) {
	slots, total, err := s.repo.ListByDoctorDate(ctx, doctorID, date, pg.Limit, pg.Offset())
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(slots))
	for i, sl := range slots {
		ids[i] = sl.ID
	}
	booked, err := s.repo.ListBooked(ctx, doctorID, ids)
	if err != nil {
		return nil, 0, err
	}

	resources := make([]*Resource, len(slots))
	for i, sl := range slots {
		resources[i] = CreateFHIRSlot(sl, doctorID, booked, s.loc)
	}
	return resources, total, nil
}
