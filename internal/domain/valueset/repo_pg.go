package valueset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

type purposeOfVisitRepoPG struct{ pool *pgxpool.Pool }

func NewPurposeOfVisitRepoPG(pool *pgxpool.Pool) PurposeOfVisitRepository {
	return &purposeOfVisitRepoPG{pool: pool}
}

func (r *purposeOfVisitRepoPG) conn() queryable {
	return r.pool
}

const povCols = `id, hospital_id, name, active`

// ListByHospital returns the active purposes of visit for a hospital in name
// order.
func (r *purposeOfVisitRepoPG) ListByHospital(ctx context.Context, hospitalID string) ([]PurposeOfVisit, error) {
	rows, err := r.conn().Query(ctx, `SELECT `+povCols+` FROM purpose_of_visit
		WHERE hospital_id = $1 AND active ORDER BY name, id`, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("query purpose_of_visit: %w", err)
	}
	defer rows.Close()

	items := []PurposeOfVisit{}
	for rows.Next() {
		var p PurposeOfVisit
		if err := rows.Scan(&p.ID, &p.HospitalID, &p.Name, &p.Active); err != nil {
			return nil, fmt.Errorf("scan purpose_of_visit: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
