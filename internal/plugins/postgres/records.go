package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

type MedicalRecordRepo struct {
	db *sql.DB
}

func NewMedicalRecordRepository(db *sql.DB) *MedicalRecordRepo {
	return &MedicalRecordRepo{db: db}
}

func (r *MedicalRecordRepo) CreateDiagnosis(ctx context.Context, d *domain.Diagnosis) (*domain.Diagnosis, error) {
	d.ID = uuid.NewString()
	query := `INSERT INTO diagnoses (id, patient_name, doctor_name, appointment_date, diagnosis_details, severity, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query,
		d.ID, d.PatientName, d.DoctorName, d.AppointmentDate, d.DiagnosisDetails, d.Severity, d.Notes,
	).Scan(&d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *MedicalRecordRepo) ListDiagnoses(ctx context.Context, patientName string) ([]domain.Diagnosis, error) {
	query := `SELECT id, patient_name, doctor_name, appointment_date, diagnosis_details, severity, notes, created_at
        FROM diagnoses WHERE patient_name = $1 ORDER BY created_at DESC`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, patientName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Diagnosis
	for rows.Next() {
		var d domain.Diagnosis
		if err := rows.Scan(&d.ID, &d.PatientName, &d.DoctorName, &d.AppointmentDate,
			&d.DiagnosisDetails, &d.Severity, &d.Notes, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *MedicalRecordRepo) CreatePrescription(ctx context.Context, p *domain.Prescription) (*domain.Prescription, error) {
	p.ID = uuid.NewString()
	query := `INSERT INTO prescriptions (id, patient_name, doctor_name, appointment_id, drug_name, dosage, frequency, duration, special_instructions)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query,
		p.ID, p.PatientName, p.DoctorName, p.AppointmentID, p.DrugName, p.Dosage, p.Frequency, p.Duration, p.SpecialInstructions,
	).Scan(&p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *MedicalRecordRepo) ListPrescriptions(ctx context.Context, patientName string) ([]domain.Prescription, error) {
	query := `SELECT id, patient_name, doctor_name, appointment_id, drug_name, dosage, frequency, duration, special_instructions, created_at
        FROM prescriptions WHERE patient_name = $1 ORDER BY created_at DESC`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, patientName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Prescription
	for rows.Next() {
		var p domain.Prescription
		if err := rows.Scan(&p.ID, &p.PatientName, &p.DoctorName, &p.AppointmentID,
			&p.DrugName, &p.Dosage, &p.Frequency, &p.Duration, &p.SpecialInstructions, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MedicalRecordRepo) CreateTestResult(ctx context.Context, t *domain.TestResult) (*domain.TestResult, error) {
	t.ID = uuid.NewString()
	query := `INSERT INTO test_results (id, patient_name, doctor_name, test_name, result, notes)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query,
		t.ID, t.PatientName, t.DoctorName, t.TestName, t.Result, t.Notes,
	).Scan(&t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *MedicalRecordRepo) ListTestResults(ctx context.Context, patientName string) ([]domain.TestResult, error) {
	query := `SELECT id, patient_name, doctor_name, test_name, result, notes, created_at
        FROM test_results WHERE patient_name = $1 ORDER BY created_at DESC`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, patientName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TestResult
	for rows.Next() {
		var t domain.TestResult
		if err := rows.Scan(&t.ID, &t.PatientName, &t.DoctorName, &t.TestName, &t.Result, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *MedicalRecordRepo) CreateTreatmentPlan(ctx context.Context, t *domain.TreatmentPlan) (*domain.TreatmentPlan, error) {
	t.ID = uuid.NewString()
	query := `INSERT INTO treatment_plans (id, patient_name, doctor_name, plan, start_date, end_date, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query,
		t.ID, t.PatientName, t.DoctorName, t.Plan, t.StartDate, t.EndDate, t.Notes,
	).Scan(&t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *MedicalRecordRepo) ListTreatmentPlans(ctx context.Context, patientName string) ([]domain.TreatmentPlan, error) {
	query := `SELECT id, patient_name, doctor_name, plan, start_date, end_date, notes, created_at
        FROM treatment_plans WHERE patient_name = $1 ORDER BY created_at DESC`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, patientName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TreatmentPlan
	for rows.Next() {
		var t domain.TreatmentPlan
		if err := rows.Scan(&t.ID, &t.PatientName, &t.DoctorName, &t.Plan, &t.StartDate, &t.EndDate, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *MedicalRecordRepo) ListRecordsForPair(ctx context.Context, patientName, doctorName string) (*domain.RecordBundle, error) {
	exec := GetExecutor(ctx, r.db)
	bundle := &domain.RecordBundle{
		Diagnoses:      []domain.Diagnosis{},
		Prescriptions:  []domain.Prescription{},
		TestResults:    []domain.TestResult{},
		TreatmentPlans: []domain.TreatmentPlan{},
	}

	rows, err := exec.QueryContext(ctx, `SELECT id, patient_name, doctor_name, appointment_date, diagnosis_details, severity, notes, created_at
        FROM diagnoses WHERE patient_name = $1 AND doctor_name = $2 ORDER BY created_at DESC`, patientName, doctorName)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var d domain.Diagnosis
		if err := rows.Scan(&d.ID, &d.PatientName, &d.DoctorName, &d.AppointmentDate,
			&d.DiagnosisDetails, &d.Severity, &d.Notes, &d.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		bundle.Diagnoses = append(bundle.Diagnoses, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = exec.QueryContext(ctx, `SELECT id, patient_name, doctor_name, appointment_id, drug_name, dosage, frequency, duration, special_instructions, created_at
        FROM prescriptions WHERE patient_name = $1 AND doctor_name = $2 ORDER BY created_at DESC`, patientName, doctorName)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var p domain.Prescription
		if err := rows.Scan(&p.ID, &p.PatientName, &p.DoctorName, &p.AppointmentID,
			&p.DrugName, &p.Dosage, &p.Frequency, &p.Duration, &p.SpecialInstructions, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		bundle.Prescriptions = append(bundle.Prescriptions, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = exec.QueryContext(ctx, `SELECT id, patient_name, doctor_name, test_name, result, notes, created_at
        FROM test_results WHERE patient_name = $1 AND doctor_name = $2 ORDER BY created_at DESC`, patientName, doctorName)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var t domain.TestResult
		if err := rows.Scan(&t.ID, &t.PatientName, &t.DoctorName, &t.TestName, &t.Result, &t.Notes, &t.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		bundle.TestResults = append(bundle.TestResults, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = exec.QueryContext(ctx, `SELECT id, patient_name, doctor_name, plan, start_date, end_date, notes, created_at
        FROM treatment_plans WHERE patient_name = $1 AND doctor_name = $2 ORDER BY created_at DESC`, patientName, doctorName)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var t domain.TreatmentPlan
		if err := rows.Scan(&t.ID, &t.PatientName, &t.DoctorName, &t.Plan, &t.StartDate, &t.EndDate, &t.Notes, &t.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		bundle.TreatmentPlans = append(bundle.TreatmentPlans, t)
	}
	rows.Close()
	return bundle, rows.Err()
}
