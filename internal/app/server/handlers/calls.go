package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
	"github.com/eric-kaloki/server-medconnect/internal/core/services"
	"github.com/eric-kaloki/server-medconnect/pkg/logging"
)

// CallHandler is the HTTP side of call setup: invitation dispatch and
// the out-of-band call-state events.
type CallHandler struct {
	invites *services.InvitationService
	bridge  *services.CallBridge
}

func NewCallHandler(invites *services.InvitationService, bridge *services.CallBridge) *CallHandler {
	return &CallHandler{invites: invites, bridge: bridge}
}

func (h *CallHandler) SendInvitation(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	var req struct {
		RecipientID string `json:"recipientId"`
		CallerName  string `json:"callerName"`
		ChannelName string `json:"channelName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	deliveryID, err := h.invites.SendInvitation(r.Context(), domain.Invitation{
		RecipientID: req.RecipientID,
		CallerName:  req.CallerName,
		ChannelName: req.ChannelName,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{
			"message":  "Invitation sent successfully",
			"response": deliveryID,
		})
	case errors.Is(err, domain.ErrInvalidRequest):
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, domain.ErrAlreadyInProgress):
		writeMessage(w, http.StatusTooManyRequests, "Notification already in progress for this channel")
	case errors.Is(err, domain.ErrRecipientUnreachable):
		writeMessage(w, http.StatusNotFound, "Recipient not found or FCM token missing")
	default:
		log.ErrorContext(r.Context(), "calls handler - send invitation failed", "channel", req.ChannelName, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Error sending invitation",
			"error":   err.Error(),
		})
	}
}

func (h *CallHandler) AcknowledgeInvitation(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	var req struct {
		ChannelName string `json:"channelName"`
		Status      string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err := h.bridge.AcknowledgeInvitation(r.Context(), req.ChannelName, req.Status); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	log.InfoContext(r.Context(), "calls handler - invitation acknowledged", "channel", req.ChannelName)
	writeMessage(w, http.StatusOK, "Acknowledgment relayed")
}

func (h *CallHandler) CallResponse(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	var req struct {
		ChannelName string `json:"channelName"`
		Response    string `json:"response"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err := h.bridge.RespondToCall(r.Context(), req.ChannelName, req.Response); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	log.InfoContext(r.Context(), "calls handler - call response relayed", "channel", req.ChannelName)
	writeMessage(w, http.StatusOK, "Response relayed")
}
