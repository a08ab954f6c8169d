package postgres

import (
	"context"
	"database/sql"
)

type LicenseRepo struct {
	db *sql.DB
}

func NewLicenseRepository(db *sql.DB) *LicenseRepo {
	return &LicenseRepo{db: db}
}

func (r *LicenseRepo) LicenseExists(ctx context.Context, licenseID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM licenses WHERE licenseid = $1)`
	exec := GetExecutor(ctx, r.db)
	if err := exec.QueryRowContext(ctx, query, licenseID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
