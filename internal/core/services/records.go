package services

import (
	"context"
	"log/slog"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

// RecordService is the medical-record surface: diagnoses, prescriptions,
// test results and treatment plans, each a create plus a per-patient
// listing.
type RecordService struct {
	log  *slog.Logger
	repo domain.MedicalRecordRepository
}

func NewRecordService(log *slog.Logger, repo domain.MedicalRecordRepository) *RecordService {
	return &RecordService{log: log, repo: repo}
}

func (s *RecordService) CreateDiagnosis(ctx context.Context, d *domain.Diagnosis) (*domain.Diagnosis, error) {
	if d.PatientName == "" || d.DoctorName == "" || d.DiagnosisDetails == "" {
		return nil, domain.ErrInvalidRequest
	}
	created, err := s.repo.CreateDiagnosis(ctx, d)
	if err != nil {
		s.log.ErrorContext(ctx, "records - create diagnosis - failed", "patient", d.PatientName, "err", err)
		return nil, err
	}
	return created, nil
}

func (s *RecordService) ListDiagnoses(ctx context.Context, patientName string) ([]domain.Diagnosis, error) {
	if patientName == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.ListDiagnoses(ctx, patientName)
}

func (s *RecordService) CreatePrescription(ctx context.Context, p *domain.Prescription) (*domain.Prescription, error) {
	if p.PatientName == "" || p.DrugName == "" || p.Dosage == "" {
		return nil, domain.ErrInvalidRequest
	}
	created, err := s.repo.CreatePrescription(ctx, p)
	if err != nil {
		s.log.ErrorContext(ctx, "records - create prescription - failed", "patient", p.PatientName, "err", err)
		return nil, err
	}
	return created, nil
}

func (s *RecordService) ListPrescriptions(ctx context.Context, patientName string) ([]domain.Prescription, error) {
	if patientName == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.ListPrescriptions(ctx, patientName)
}

func (s *RecordService) CreateTestResult(ctx context.Context, t *domain.TestResult) (*domain.TestResult, error) {
	if t.PatientName == "" || t.TestName == "" {
		return nil, domain.ErrInvalidRequest
	}
	created, err := s.repo.CreateTestResult(ctx, t)
	if err != nil {
		s.log.ErrorContext(ctx, "records - create test result - failed", "patient", t.PatientName, "err", err)
		return nil, err
	}
	return created, nil
}

func (s *RecordService) ListTestResults(ctx context.Context, patientName string) ([]domain.TestResult, error) {
	if patientName == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.ListTestResults(ctx, patientName)
}

func (s *RecordService) CreateTreatmentPlan(ctx context.Context, t *domain.TreatmentPlan) (*domain.TreatmentPlan, error) {
	if t.PatientName == "" || t.Plan == "" {
		return nil, domain.ErrInvalidRequest
	}
	created, err := s.repo.CreateTreatmentPlan(ctx, t)
	if err != nil {
		s.log.ErrorContext(ctx, "records - create treatment plan - failed", "patient", t.PatientName, "err", err)
		return nil, err
	}
	return created, nil
}

func (s *RecordService) ListTreatmentPlans(ctx context.Context, patientName string) ([]domain.TreatmentPlan, error) {
	if patientName == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.ListTreatmentPlans(ctx, patientName)
}

// ListRecordsForPair returns the patient's full history under one
// doctor, every record kind in a single bundle.
func (s *RecordService) ListRecordsForPair(ctx context.Context, patientName, doctorName string) (*domain.RecordBundle, error) {
	if patientName == "" || doctorName == "" {
		return nil, domain.ErrInvalidRequest
	}
	bundle, err := s.repo.ListRecordsForPair(ctx, patientName, doctorName)
	if err != nil {
		s.log.ErrorContext(ctx, "records - combined listing - failed", "patient", patientName, "doctor", doctorName, "err", err)
		return nil, err
	}
	return bundle, nil
}
