package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

type AppointmentRepo struct {
	db *sql.DB
}

func NewAppointmentRepository(db *sql.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) CountConflicts(ctx context.Context, doctorID, date, timeSlot string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM appointments
        WHERE doctor_id = $1 AND date = $2 AND time = $3 AND status <> 'cancelled'`
	exec := GetExecutor(ctx, r.db)
	if err := exec.QueryRowContext(ctx, query, doctorID, date, timeSlot).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *AppointmentRepo) CreateAppointment(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	a.ID = uuid.NewString()
	query := `INSERT INTO appointments (id, patient_id, doctor_id, date, day, time, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.Day, a.Time, a.Status,
	).Scan(&a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByPatient joins in the doctor's name and category so the patient
// app can render the schedule without a second round trip.
func (r *AppointmentRepo) ListByPatient(ctx context.Context, patientID string) ([]domain.Appointment, error) {
	query := `SELECT a.id, a.patient_id, a.doctor_id, a.date, a.day, a.time, a.status, a.created_at,
            COALESCE(d.name, 'Unknown'), COALESCE(d.category, 'Unknown')
        FROM appointments a
        LEFT JOIN doctors d ON d.id = a.doctor_id
        WHERE a.patient_id = $1
        ORDER BY a.date, a.time`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Day, &a.Time, &a.Status, &a.CreatedAt,
			&a.DoctorName, &a.DoctorCategory); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AppointmentRepo) ListByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error) {
	return r.listForDoctor(ctx, doctorID, false)
}

func (r *AppointmentRepo) ListPendingByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error) {
	return r.listForDoctor(ctx, doctorID, true)
}

func (r *AppointmentRepo) listForDoctor(ctx context.Context, doctorID string, pendingOnly bool) ([]domain.Appointment, error) {
	query := `SELECT a.id, a.patient_id, a.doctor_id, a.date, a.day, a.time, a.status, a.created_at,
            COALESCE(p.name, 'Unknown')
        FROM appointments a
        LEFT JOIN patients p ON p.id = a.patient_id
        WHERE a.doctor_id = $1`
	if pendingOnly {
		query += ` AND a.status = 'pending_reschedule'`
	}
	query += ` ORDER BY a.date, a.time`

	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Day, &a.Time, &a.Status, &a.CreatedAt,
			&a.PatientName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AppointmentRepo) ListBookedTimes(ctx context.Context, doctorID, date string) ([]string, error) {
	query := `SELECT time FROM appointments
        WHERE doctor_id = $1 AND date = $2 AND status <> 'cancelled'
        ORDER BY time`
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

func (r *AppointmentRepo) UpdateSchedule(ctx context.Context, id, date, day, timeSlot string, status domain.AppointmentStatus) error {
	query := `UPDATE appointments SET date = $2, day = $3, time = $4, status = $5 WHERE id = $1`
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, query, id, date, day, timeSlot, status)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrAppointmentMissing
	}
	return nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $2 WHERE id = $1`
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrAppointmentMissing
	}
	return nil
}
