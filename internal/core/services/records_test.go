package services

import (
	"context"
	"errors"
	"testing"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

type stubRecords struct {
	bundle    *domain.RecordBundle
	pairCalls int
}

func (s *stubRecords) CreateDiagnosis(_ context.Context, d *domain.Diagnosis) (*domain.Diagnosis, error) {
	d.ID = "diag-1"
	return d, nil
}

func (s *stubRecords) ListDiagnoses(context.Context, string) ([]domain.Diagnosis, error) {
	return nil, nil
}

func (s *stubRecords) CreatePrescription(_ context.Context, p *domain.Prescription) (*domain.Prescription, error) {
	p.ID = "rx-1"
	return p, nil
}

func (s *stubRecords) ListPrescriptions(context.Context, string) ([]domain.Prescription, error) {
	return nil, nil
}

func (s *stubRecords) CreateTestResult(_ context.Context, t *domain.TestResult) (*domain.TestResult, error) {
	t.ID = "test-1"
	return t, nil
}

func (s *stubRecords) ListTestResults(context.Context, string) ([]domain.TestResult, error) {
	return nil, nil
}

func (s *stubRecords) CreateTreatmentPlan(_ context.Context, t *domain.TreatmentPlan) (*domain.TreatmentPlan, error) {
	t.ID = "plan-1"
	return t, nil
}

func (s *stubRecords) ListTreatmentPlans(context.Context, string) ([]domain.TreatmentPlan, error) {
	return nil, nil
}

func (s *stubRecords) ListRecordsForPair(context.Context, string, string) (*domain.RecordBundle, error) {
	s.pairCalls++
	return s.bundle, nil
}

func TestListRecordsForPairRequiresBothNames(t *testing.T) {
	repo := &stubRecords{}
	svc := NewRecordService(testLogger(), repo)

	tests := []struct {
		name    string
		patient string
		doctor  string
	}{
		{"missing patient", "", "Dr. Otieno"},
		{"missing doctor", "Jane Doe", ""},
		{"missing both", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ListRecordsForPair(context.Background(), tt.patient, tt.doctor); !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
	if repo.pairCalls != 0 {
		t.Error("repository queried despite invalid input")
	}
}

func TestListRecordsForPairReturnsBundle(t *testing.T) {
	repo := &stubRecords{bundle: &domain.RecordBundle{
		Diagnoses:      []domain.Diagnosis{{ID: "diag-1", PatientName: "Jane Doe", DoctorName: "Dr. Otieno"}},
		Prescriptions:  []domain.Prescription{},
		TestResults:    []domain.TestResult{{ID: "test-1"}},
		TreatmentPlans: []domain.TreatmentPlan{},
	}}
	svc := NewRecordService(testLogger(), repo)

	bundle, err := svc.ListRecordsForPair(context.Background(), "Jane Doe", "Dr. Otieno")
	if err != nil {
		t.Fatalf("ListRecordsForPair: %v", err)
	}
	if len(bundle.Diagnoses) != 1 || bundle.Diagnoses[0].ID != "diag-1" {
		t.Errorf("diagnoses = %+v, want the stored diagnosis", bundle.Diagnoses)
	}
	if len(bundle.TestResults) != 1 {
		t.Errorf("test results = %+v, want one entry", bundle.TestResults)
	}
	if bundle.Prescriptions == nil || bundle.TreatmentPlans == nil {
		t.Error("empty record kinds must encode as [] not null")
	}
}
