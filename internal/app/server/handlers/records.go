package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
	"github.com/eric-kaloki/server-medconnect/internal/core/services"
	"github.com/eric-kaloki/server-medconnect/pkg/logging"
)

type RecordHandler struct {
	svc *services.RecordService
}

func NewRecordHandler(svc *services.RecordService) *RecordHandler {
	return &RecordHandler{svc: svc}
}

func (h *RecordHandler) CreateDiagnosis(w http.ResponseWriter, r *http.Request) {
	var d domain.Diagnosis
	var req struct {
		PatientName      string `json:"patient_name"`
		DoctorName       string `json:"doctor_name"`
		AppointmentDate  string `json:"appointment_date"`
		DiagnosisDetails string `json:"diagnosis_details"`
		Severity         string `json:"severity"`
		Notes            string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	d = domain.Diagnosis{
		PatientName:      req.PatientName,
		DoctorName:       req.DoctorName,
		AppointmentDate:  req.AppointmentDate,
		DiagnosisDetails: req.DiagnosisDetails,
		Severity:         req.Severity,
		Notes:            req.Notes,
	}
	created, err := h.svc.CreateDiagnosis(r.Context(), &d)
	if err != nil {
		h.writeCreateError(w, r, "diagnosis", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RecordHandler) GetDiagnoses(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListDiagnoses(r.Context(), r.URL.Query().Get("patient_name"))
	if err != nil {
		h.writeListError(w, r, "diagnoses", err)
		return
	}
	if list == nil {
		list = []domain.Diagnosis{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *RecordHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientName         string `json:"patient_name"`
		DoctorName          string `json:"doctor_name"`
		AppointmentID       string `json:"appointment_id"`
		DrugName            string `json:"drug_name"`
		Dosage              string `json:"dosage"`
		Frequency           string `json:"frequency"`
		Duration            string `json:"duration"`
		SpecialInstructions string `json:"special_instructions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	created, err := h.svc.CreatePrescription(r.Context(), &domain.Prescription{
		PatientName:         req.PatientName,
		DoctorName:          req.DoctorName,
		AppointmentID:       req.AppointmentID,
		DrugName:            req.DrugName,
		Dosage:              req.Dosage,
		Frequency:           req.Frequency,
		Duration:            req.Duration,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		h.writeCreateError(w, r, "prescription", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RecordHandler) GetPrescriptions(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPrescriptions(r.Context(), r.URL.Query().Get("patient_name"))
	if err != nil {
		h.writeListError(w, r, "prescriptions", err)
		return
	}
	if list == nil {
		list = []domain.Prescription{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *RecordHandler) CreateTestResult(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientName string `json:"patient_name"`
		DoctorName  string `json:"doctor_name"`
		TestName    string `json:"test_name"`
		Result      string `json:"result"`
		Notes       string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	created, err := h.svc.CreateTestResult(r.Context(), &domain.TestResult{
		PatientName: req.PatientName,
		DoctorName:  req.DoctorName,
		TestName:    req.TestName,
		Result:      req.Result,
		Notes:       req.Notes,
	})
	if err != nil {
		h.writeCreateError(w, r, "test result", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RecordHandler) GetTestResults(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListTestResults(r.Context(), r.URL.Query().Get("patient_name"))
	if err != nil {
		h.writeListError(w, r, "test results", err)
		return
	}
	if list == nil {
		list = []domain.TestResult{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *RecordHandler) CreateTreatmentPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientName string `json:"patient_name"`
		DoctorName  string `json:"doctor_name"`
		Plan        string `json:"plan"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
		Notes       string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	created, err := h.svc.CreateTreatmentPlan(r.Context(), &domain.TreatmentPlan{
		PatientName: req.PatientName,
		DoctorName:  req.DoctorName,
		Plan:        req.Plan,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Notes:       req.Notes,
	})
	if err != nil {
		h.writeCreateError(w, r, "treatment plan", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RecordHandler) GetTreatmentPlans(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListTreatmentPlans(r.Context(), r.URL.Query().Get("patient_name"))
	if err != nil {
		h.writeListError(w, r, "treatment plans", err)
		return
	}
	if list == nil {
		list = []domain.TreatmentPlan{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *RecordHandler) GetRecordsByPatientAndDoctor(w http.ResponseWriter, r *http.Request) {
	patientName := r.URL.Query().Get("patient_name")
	doctorName := r.URL.Query().Get("doctor_name")
	bundle, err := h.svc.ListRecordsForPair(r.Context(), patientName, doctorName)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			writeMessage(w, http.StatusBadRequest, "Patient name and doctor name are required")
			return
		}
		h.writeListError(w, r, "combined records", err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (h *RecordHandler) writeCreateError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	if errors.Is(err, domain.ErrInvalidRequest) {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	logging.FromContext(r.Context()).ErrorContext(r.Context(), "records handler - create failed", "kind", kind, "err", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

func (h *RecordHandler) writeListError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	if errors.Is(err, domain.ErrInvalidRequest) {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	logging.FromContext(r.Context()).ErrorContext(r.Context(), "records handler - list failed", "kind", kind, "err", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}
