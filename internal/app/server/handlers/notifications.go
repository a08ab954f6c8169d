package handlers

import (
	"errors"
	"net/http"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
	"github.com/eric-kaloki/server-medconnect/internal/core/services"
)

type NotificationHandler struct {
	svc *services.NotificationService
}

func NewNotificationHandler(svc *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	list, err := h.svc.List(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Error fetching notifications")
		return
	}
	if list == nil {
		list = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if err := h.svc.MarkAllRead(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			writeMessage(w, http.StatusBadRequest, "invalid request")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Error updating notifications")
		return
	}
	writeMessage(w, http.StatusOK, "Notifications marked as read.")
}
