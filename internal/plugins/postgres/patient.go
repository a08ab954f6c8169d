package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

type PatientRepo struct {
	db *sql.DB
}

func NewPatientRepository(db *sql.DB) *PatientRepo {
	return &PatientRepo{db: db}
}

func (r *PatientRepo) CreatePatient(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	p.ID = uuid.NewString()
	query := `INSERT INTO patients (id, name, email, password, phone, role)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Email, p.Password, p.Phone, p.Role,
	).Scan(&p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PatientRepo) GetPatientByEmail(ctx context.Context, email string) (*domain.Patient, error) {
	p := &domain.Patient{Email: email}
	query := `SELECT id, name, password, phone, role, COALESCE(fcm_token, ''), created_at
        FROM patients WHERE email = $1`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, email).Scan(
		&p.ID, &p.Name, &p.Password, &p.Phone, &p.Role, &p.FCMToken, &p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PatientRepo) GetPatientPushToken(ctx context.Context, id string) (string, error) {
	var token sql.NullString
	query := `SELECT fcm_token FROM patients WHERE id = $1`
	exec := GetExecutor(ctx, r.db)
	if err := exec.QueryRowContext(ctx, query, id).Scan(&token); err != nil {
		if err == sql.ErrNoRows {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}
	return token.String, nil
}

func (r *PatientRepo) UpdatePatientPushToken(ctx context.Context, id, token string) error {
	query := `UPDATE patients SET fcm_token = $2 WHERE id = $1`
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, query, id, token)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
