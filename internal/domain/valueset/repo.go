package valueset

import "context"

type PurposeOfVisitRepository interface {
	ListByHospital(ctx context.Context, hospitalID string) ([]PurposeOfVisit, error)
}
