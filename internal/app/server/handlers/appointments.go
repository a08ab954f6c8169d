package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
	"github.com/eric-kaloki/server-medconnect/internal/core/services"
	"github.com/eric-kaloki/server-medconnect/pkg/logging"
	"github.com/eric-kaloki/server-medconnect/pkg/middleware"
)

type AppointmentHandler struct {
	svc *services.AppointmentService
}

func NewAppointmentHandler(svc *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	patientID, _ := r.Context().Value(middleware.UserIDKey).(string)
	var req struct {
		Date     string `json:"date"`
		Day      string `json:"day"`
		Time     string `json:"time"`
		DoctorID string `json:"doctor_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	appointment, err := h.svc.Book(r.Context(), &domain.Appointment{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Day:       req.Day,
		Time:      req.Time,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{
			"message":     "Appointment booked successfully",
			"appointment": appointment,
		})
	case errors.Is(err, domain.ErrInvalidRequest):
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, domain.ErrSlotTaken):
		writeMessage(w, http.StatusConflict, "Time slot already booked")
	default:
		log.ErrorContext(r.Context(), "appointments handler - book failed", "doctor_id", req.DoctorID, "err", err)
		writeMessage(w, http.StatusInternalServerError, "Error booking appointment")
	}
}

func (h *AppointmentHandler) PatientAppointments(w http.ResponseWriter, r *http.Request) {
	patientID, _ := r.Context().Value(middleware.UserIDKey).(string)
	appointments, err := h.svc.ListForPatient(r.Context(), patientID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error fetching appointments")
		return
	}
	if appointments == nil {
		appointments = []domain.Appointment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appointments})
}

func (h *AppointmentHandler) DoctorAppointments(w http.ResponseWriter, r *http.Request) {
	doctorID, _ := r.Context().Value(middleware.UserIDKey).(string)
	appointments, err := h.svc.ListForDoctor(r.Context(), doctorID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error fetching appointments")
		return
	}
	if appointments == nil {
		appointments = []domain.Appointment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appointments})
}

func (h *AppointmentHandler) PendingAppointments(w http.ResponseWriter, r *http.Request) {
	doctorID, _ := r.Context().Value(middleware.UserIDKey).(string)
	appointments, err := h.svc.ListPending(r.Context(), doctorID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error fetching appointments")
		return
	}
	if appointments == nil {
		appointments = []domain.Appointment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appointments})
}

func (h *AppointmentHandler) Slots(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctor_id")
	date := r.URL.Query().Get("date")
	slots, err := h.svc.SlotsForDay(r.Context(), doctorID, date)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			writeMessage(w, http.StatusBadRequest, "Invalid request data. doctor_id and date are required.")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Error fetching slots")
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *AppointmentHandler) BlockSlots(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	doctorID, _ := r.Context().Value(middleware.UserIDKey).(string)
	var req struct {
		BlockedSlots []domain.BlockedSlot `json:"blockedSlots"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request data.")
		return
	}
	if err := h.svc.BlockSlots(r.Context(), doctorID, req.BlockedSlots); err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			writeMessage(w, http.StatusBadRequest, "Invalid request data.")
			return
		}
		log.ErrorContext(r.Context(), "appointments handler - block slots failed", "doctor_id", doctorID, "err", err)
		writeMessage(w, http.StatusInternalServerError, "Error blocking time slots")
		return
	}
	writeMessage(w, http.StatusOK, "Time slots blocked successfully.")
}

func (h *AppointmentHandler) DoctorBlockedSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, _ := r.Context().Value(middleware.UserIDKey).(string)
	slots, err := h.svc.BlockedSlotsForDoctor(r.Context(), doctorID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error fetching blocked slots")
		return
	}
	if slots == nil {
		slots = []domain.BlockedSlot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"blockedSlots": slots})
}

func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	var req struct {
		AppointmentID string `json:"appointment_id"`
		Date          string `json:"date"`
		Day           string `json:"day"`
		Time          string `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	err := h.svc.Reschedule(r.Context(), req.AppointmentID, req.Date, req.Day, req.Time)
	switch {
	case err == nil:
		writeMessage(w, http.StatusOK, "Appointment rescheduled, awaiting confirmation")
	case errors.Is(err, domain.ErrInvalidRequest):
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, domain.ErrAppointmentMissing):
		writeMessage(w, http.StatusNotFound, "Appointment not found")
	default:
		log.ErrorContext(r.Context(), "appointments handler - reschedule failed", "appointment_id", req.AppointmentID, "err", err)
		writeMessage(w, http.StatusInternalServerError, "Error rescheduling appointment")
	}
}

func (h *AppointmentHandler) ConfirmReschedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AppointmentID string `json:"appointment_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err := h.svc.ConfirmReschedule(r.Context(), req.AppointmentID); err != nil {
		if errors.Is(err, domain.ErrAppointmentMissing) {
			writeMessage(w, http.StatusNotFound, "Appointment not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Error confirming reschedule")
		return
	}
	writeMessage(w, http.StatusOK, "Reschedule confirmed")
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AppointmentID string `json:"appointment_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err := h.svc.Cancel(r.Context(), req.AppointmentID); err != nil {
		if errors.Is(err, domain.ErrAppointmentMissing) {
			writeMessage(w, http.StatusNotFound, "Appointment not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Error canceling appointment")
		return
	}
	writeMessage(w, http.StatusOK, "Appointment cancelled")
}
