package domain

import "time"

// Doctor is a registered practitioner. FCMToken is the push address used
// for call invitations; it is empty until the mobile client reports one.
type Doctor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Phone     string    `json:"phone"`
	LicenseID string    `json:"license_id"`
	Category  string    `json:"category"`
	Role      string    `json:"role"`
	FCMToken  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Patient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	FCMToken  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type AppointmentStatus string

const (
	AppointmentUpcoming          AppointmentStatus = "upcoming"
	AppointmentPendingReschedule AppointmentStatus = "pending_reschedule"
	AppointmentCancelled         AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID        string            `json:"id"`
	PatientID string            `json:"patient_id"`
	DoctorID  string            `json:"doctor_id"`
	Date      string            `json:"date"`
	Day       string            `json:"day"`
	Time      string            `json:"time"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`

	// Display fields filled by joins, not stored.
	DoctorName     string `json:"doctor_name,omitempty"`
	DoctorCategory string `json:"doctor_category,omitempty"`
	PatientName    string `json:"patient_name,omitempty"`
}

// BlockedSlot is a time a doctor has marked unavailable for booking.
type BlockedSlot struct {
	ID        string    `json:"id"`
	DoctorID  string    `json:"doctor_id"`
	Date      string    `json:"date"`
	Day       string    `json:"day"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
}

// DaySlots is the per-day availability picture the booking UI renders:
// times the doctor blocked and times already taken by appointments.
type DaySlots struct {
	BlockedSlots []string `json:"blockedSlots"`
	BookedSlots  []string `json:"bookedSlots"`
}

// Invitation is the transient request to ring a recipient's device.
// It lives only for the duration of one dispatch.
type Invitation struct {
	RecipientID string
	CallerName  string
	ChannelName string
}

type Diagnosis struct {
	ID               string    `json:"id"`
	PatientName      string    `json:"patient_name"`
	DoctorName       string    `json:"doctor_name"`
	AppointmentDate  string    `json:"appointment_date"`
	DiagnosisDetails string    `json:"diagnosis_details"`
	Severity         string    `json:"severity"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
}

type Prescription struct {
	ID                  string    `json:"id"`
	PatientName         string    `json:"patient_name"`
	DoctorName          string    `json:"doctor_name"`
	AppointmentID       string    `json:"appointment_id"`
	DrugName            string    `json:"drug_name"`
	Dosage              string    `json:"dosage"`
	Frequency           string    `json:"frequency"`
	Duration            string    `json:"duration"`
	SpecialInstructions string    `json:"special_instructions"`
	CreatedAt           time.Time `json:"created_at"`
}

type TestResult struct {
	ID          string    `json:"id"`
	PatientName string    `json:"patient_name"`
	DoctorName  string    `json:"doctor_name"`
	TestName    string    `json:"test_name"`
	Result      string    `json:"result"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

type TreatmentPlan struct {
	ID          string    `json:"id"`
	PatientName string    `json:"patient_name"`
	DoctorName  string    `json:"doctor_name"`
	Plan        string    `json:"plan"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordBundle is the combined history for one patient under one
// doctor, every record kind in a single response.
type RecordBundle struct {
	Diagnoses      []Diagnosis     `json:"diagnoses"`
	Prescriptions  []Prescription  `json:"prescriptions"`
	TestResults    []TestResult    `json:"testResults"`
	TreatmentPlans []TreatmentPlan `json:"treatmentPlans"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
