package domain

import "context"

// DoctorRepository handles the doctors table.
type DoctorRepository interface {
	CreateDoctor(ctx context.Context, d *Doctor) (*Doctor, error)
	GetDoctorByEmail(ctx context.Context, email string) (*Doctor, error)
	GetDoctorPushToken(ctx context.Context, id string) (string, error)
	UpdateDoctorPushToken(ctx context.Context, id, token string) error
}

// PatientRepository handles the patients table.
type PatientRepository interface {
	CreatePatient(ctx context.Context, p *Patient) (*Patient, error)
	GetPatientByEmail(ctx context.Context, email string) (*Patient, error)
	GetPatientPushToken(ctx context.Context, id string) (string, error)
	UpdatePatientPushToken(ctx context.Context, id, token string) error
}

// LicenseRepository validates practitioner licenses during registration.
type LicenseRepository interface {
	LicenseExists(ctx context.Context, licenseID string) (bool, error)
}

type AppointmentRepository interface {
	// CountConflicts reports existing appointments for the doctor at the
	// exact date and time. Runs inside the booking transaction.
	CountConflicts(ctx context.Context, doctorID, date, timeSlot string) (int, error)
	CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]Appointment, error)
	ListPendingByDoctor(ctx context.Context, doctorID string) ([]Appointment, error)
	// ListBookedTimes returns the times already taken for the doctor on
	// the given date, for the slot picker.
	ListBookedTimes(ctx context.Context, doctorID, date string) ([]string, error)
	UpdateSchedule(ctx context.Context, id, date, day, timeSlot string, status AppointmentStatus) error
	UpdateStatus(ctx context.Context, id string, status AppointmentStatus) error
}

// BlockedSlotRepository handles the blocked_slots table.
type BlockedSlotRepository interface {
	// DeleteForDates clears the doctor's blocked slots on the given
	// dates. Runs inside the replace transaction.
	DeleteForDates(ctx context.Context, doctorID string, dates []string) error
	InsertSlots(ctx context.Context, slots []BlockedSlot) error
	ListTimes(ctx context.Context, doctorID, date string) ([]string, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]BlockedSlot, error)
}

type MedicalRecordRepository interface {
	CreateDiagnosis(ctx context.Context, d *Diagnosis) (*Diagnosis, error)
	ListDiagnoses(ctx context.Context, patientName string) ([]Diagnosis, error)
	CreatePrescription(ctx context.Context, p *Prescription) (*Prescription, error)
	ListPrescriptions(ctx context.Context, patientName string) ([]Prescription, error)
	CreateTestResult(ctx context.Context, t *TestResult) (*TestResult, error)
	ListTestResults(ctx context.Context, patientName string) ([]TestResult, error)
	CreateTreatmentPlan(ctx context.Context, t *TreatmentPlan) (*TreatmentPlan, error)
	ListTreatmentPlans(ctx context.Context, patientName string) ([]TreatmentPlan, error)
	// ListRecordsForPair gathers every record kind filtered to one
	// patient and one doctor.
	ListRecordsForPair(ctx context.Context, patientName, doctorName string) (*RecordBundle, error)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
}
