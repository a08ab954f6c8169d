package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

// UserService covers registration and login for both doctors and
// patients. The two roles live in separate tables but share one login
// endpoint: doctors are checked first, then patients.
type UserService struct {
	log      *slog.Logger
	doctors  domain.DoctorRepository
	patients domain.PatientRepository
	licenses domain.LicenseRepository
}

func NewUserService(
	log *slog.Logger,
	doctors domain.DoctorRepository,
	patients domain.PatientRepository,
	licenses domain.LicenseRepository,
) *UserService {
	return &UserService{
		log:      log,
		doctors:  doctors,
		patients: patients,
		licenses: licenses,
	}
}

func (s *UserService) ValidateLicense(ctx context.Context, licenseID string) (bool, error) {
	if licenseID == "" {
		return false, domain.ErrInvalidRequest
	}
	return s.licenses.LicenseExists(ctx, licenseID)
}

func (s *UserService) RegisterDoctor(ctx context.Context, d *domain.Doctor) (*domain.Doctor, error) {
	if d.Name == "" || d.Email == "" || d.Password == "" || d.LicenseID == "" {
		return nil, domain.ErrInvalidRequest
	}
	valid, err := s.licenses.LicenseExists(ctx, d.LicenseID)
	if err != nil {
		s.log.ErrorContext(ctx, "user - register doctor - license check failed", "license_id", d.LicenseID, "err", err)
		return nil, fmt.Errorf("validating license: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidLicense
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(d.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	d.Password = string(hashed)
	d.Role = "doctor"
	created, err := s.doctors.CreateDoctor(ctx, d)
	if err != nil {
		s.log.ErrorContext(ctx, "user - register doctor - insert failed", "email", d.Email, "err", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "user - register doctor - success", "doctor_id", created.ID)
	return created, nil
}

func (s *UserService) RegisterPatient(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	if p.Name == "" || p.Email == "" || p.Password == "" {
		return nil, domain.ErrInvalidRequest
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	p.Password = string(hashed)
	p.Role = "patient"
	created, err := s.patients.CreatePatient(ctx, p)
	if err != nil {
		s.log.ErrorContext(ctx, "user - register patient - insert failed", "email", p.Email, "err", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "user - register patient - success", "patient_id", created.ID)
	return created, nil
}

// LoginResult carries what the clients cache after a successful login.
type LoginResult struct {
	ID    string
	Name  string
	Email string
	Phone string
	Role  string
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidRequest
	}
	var hashed string
	var res LoginResult
	if d, err := s.doctors.GetDoctorByEmail(ctx, email); err == nil {
		hashed = d.Password
		res = LoginResult{ID: d.ID, Name: d.Name, Email: d.Email, Phone: d.Phone, Role: d.Role}
	} else if p, err := s.patients.GetPatientByEmail(ctx, email); err == nil {
		hashed = p.Password
		res = LoginResult{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone, Role: p.Role}
	} else {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	s.log.InfoContext(ctx, "user - login - success", "user_id", res.ID, "role", res.Role)
	return &res, nil
}

// UpdatePushToken records the device token a client reports after FCM
// registration. Calls cannot reach a user whose token is stale.
func (s *UserService) UpdatePushToken(ctx context.Context, userID, role, token string) error {
	if userID == "" || token == "" {
		return domain.ErrInvalidRequest
	}
	if role == "doctor" {
		return s.doctors.UpdateDoctorPushToken(ctx, userID, token)
	}
	return s.patients.UpdatePatientPushToken(ctx, userID, token)
}
