package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

type BlockedSlotRepo struct {
	db *sql.DB
}

func NewBlockedSlotRepository(db *sql.DB) *BlockedSlotRepo {
	return &BlockedSlotRepo{db: db}
}

func (r *BlockedSlotRepo) DeleteForDates(ctx context.Context, doctorID string, dates []string) error {
	if len(dates) == 0 {
		return nil
	}
	query := `DELETE FROM blocked_slots WHERE doctor_id = $1 AND date = ANY($2)`
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, query, doctorID, dates)
	return err
}

func (r *BlockedSlotRepo) InsertSlots(ctx context.Context, slots []domain.BlockedSlot) error {
	query := `INSERT INTO blocked_slots (id, doctor_id, date, day, time)
        VALUES ($1, $2, $3, $4, $5)`
	exec := GetExecutor(ctx, r.db)
	for i := range slots {
		slots[i].ID = uuid.NewString()
		if _, err := exec.ExecContext(ctx, query,
			slots[i].ID, slots[i].DoctorID, slots[i].Date, slots[i].Day, slots[i].Time,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *BlockedSlotRepo) ListTimes(ctx context.Context, doctorID, date string) ([]string, error) {
	query := `SELECT time FROM blocked_slots WHERE doctor_id = $1 AND date = $2 ORDER BY time`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *BlockedSlotRepo) ListByDoctor(ctx context.Context, doctorID string) ([]domain.BlockedSlot, error) {
	query := `SELECT id, doctor_id, date, day, time, created_at
        FROM blocked_slots WHERE doctor_id = $1 ORDER BY date, time`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BlockedSlot
	for rows.Next() {
		var s domain.BlockedSlot
		if err := rows.Scan(&s.ID, &s.DoctorID, &s.Date, &s.Day, &s.Time, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
