package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type slotRepoPG struct{ pool *pgxpool.Pool }

func NewSlotRepoPG(pool *pgxpool.Pool) SlotRepository { return &slotRepoPG{pool: pool} }

func (r *slotRepoPG) conn() queryable {
	return r.pool
}

const slotCols = `id, doctor_id, slot_date, slot_time`

func (r *slotRepoPG) ListByDoctorDate(ctx context.Context, doctorID, date string, limit, offset int) ([]Slot, int, error) {
	var total int
	if err := r.conn().QueryRow(ctx, `SELECT COUNT(*) FROM slot WHERE doctor_id = $1 AND slot_date = $2`,
		doctorID, date).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count slots: %w", err)
	}
	rows, err := r.conn().Query(ctx, `SELECT `+slotCols+` FROM slot
		WHERE doctor_id = $1 AND slot_date = $2
		ORDER BY created_at ASC, id ASC LIMIT $3 OFFSET $4`, doctorID, date, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query slots: %w", err)
	}
	defer rows.Close()

	items := []Slot{}
	for rows.Next() {
		var (
			s   Slot
			day time.Time
		)
		if err := rows.Scan(&s.ID, &s.DoctorID, &day, &s.Time); err != nil {
			return nil, 0, fmt.Errorf("scan slot: %w", err)
		}
		s.Date = day.Format("2006-01-02")
		items = append(items, s)
	}
	return items, total, rows.Err()
}

// ListBooked returns the live bookings holding any of slotIDs.
func (r *slotRepoPG) ListBooked(ctx context.Context, doctorID string, slotIDs []string) ([]BookedAppointment, error) {
	if len(slotIDs) == 0 {
		return []BookedAppointment{}, nil
	}
	rows, err := r.conn().Query(ctx, `SELECT slots_id FROM booked_appointment
		WHERE doctor_id = $1 AND slots_id = ANY($2) AND status <> 'cancelled'`, doctorID, slotIDs)
	if err != nil {
		return nil, fmt.Errorf("query booked appointments: %w", err)
	}
	defer rows.Close()

	items := []BookedAppointment{}
	for rows.Next() {
		var slotsID string
		if err := rows.Scan(&slotsID); err != nil {
			return nil, fmt.Errorf("scan booked appointment: %w", err)
		}
		items = append(items, BookedAppointment{SlotsID: slotsID})
	}
	return items, rows.Err()
}
