package handlers

import (
	"net/http"

	"github.com/eric-kaloki/server-medconnect/internal/core/services"
	"github.com/eric-kaloki/server-medconnect/pkg/middleware"
)

type AvailabilityHandler struct {
	svc *services.AvailabilityService
}

func NewAvailabilityHandler(svc *services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

// Heartbeat marks the authenticated doctor as reachable for calls.
func (h *AvailabilityHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	doctorID, _ := r.Context().Value(middleware.UserIDKey).(string)
	role, _ := r.Context().Value(middleware.RoleKey).(string)
	if role != "doctor" {
		writeMessage(w, http.StatusForbidden, "Doctors only")
		return
	}
	if err := h.svc.Heartbeat(r.Context(), doctorID); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error updating availability")
		return
	}
	writeMessage(w, http.StatusOK, "Availability updated")
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	doctorID := r.PathValue("doctorId")
	online, err := h.svc.IsOnline(r.Context(), doctorID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error fetching availability")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"online": online})
}

func (h *AvailabilityHandler) ListOnline(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.ListOnline(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error fetching availability")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"online": ids})
}
