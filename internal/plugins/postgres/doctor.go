package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

type DoctorRepo struct {
	db *sql.DB
}

func NewDoctorRepository(db *sql.DB) *DoctorRepo {
	return &DoctorRepo{db: db}
}

func (r *DoctorRepo) CreateDoctor(ctx context.Context, d *domain.Doctor) (*domain.Doctor, error) {
	d.ID = uuid.NewString()
	query := `INSERT INTO doctors (id, name, email, password, phone, license_id, category, role)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query,
		d.ID, d.Name, d.Email, d.Password, d.Phone, d.LicenseID, d.Category, d.Role,
	).Scan(&d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DoctorRepo) GetDoctorByEmail(ctx context.Context, email string) (*domain.Doctor, error) {
	d := &domain.Doctor{Email: email}
	query := `SELECT id, name, password, phone, license_id, category, role, COALESCE(fcm_token, ''), created_at
        FROM doctors WHERE email = $1`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, email).Scan(
		&d.ID, &d.Name, &d.Password, &d.Phone, &d.LicenseID, &d.Category, &d.Role, &d.FCMToken, &d.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *DoctorRepo) GetDoctorPushToken(ctx context.Context, id string) (string, error) {
	var token sql.NullString
	query := `SELECT fcm_token FROM doctors WHERE id = $1`
	exec := GetExecutor(ctx, r.db)
	if err := exec.QueryRowContext(ctx, query, id).Scan(&token); err != nil {
		if err == sql.ErrNoRows {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}
	return token.String, nil
}

func (r *DoctorRepo) UpdateDoctorPushToken(ctx context.Context, id, token string) error {
	query := `UPDATE doctors SET fcm_token = $2 WHERE id = $1`
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
