package domain

import "encoding/json"

// Signaling event names. These are part of the client contract and must
// not change: mobile and web clients emit and listen on them verbatim.
const (
	EventJoinRoom         = "join-room"
	EventLeaveRoom        = "leave-room"
	EventOffer            = "offer"
	EventAnswer           = "answer"
	EventCandidate        = "candidate"
	EventCallInitiation   = "call-initiation"
	EventCallResponse     = "call-response"
	EventInvitationStatus = "invitation-status"
)

// Envelope frames every signaling message on the wire. Data is kept raw:
// the relay forwards negotiation payloads without inspecting them beyond
// the room field.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// RoomRef extracts only the room from a relayed payload.
type RoomRef struct {
	Room string `json:"room"`
}

// CallInitiation rings a device directly by token, bypassing the
// recipient lookup done for HTTP invitations.
type CallInitiation struct {
	RecipientDeviceToken string `json:"recipientDeviceToken"`
	Room                 string `json:"room"`
	CallerName           string `json:"callerName"`
}

// CallStatusEvent is published into a room by the HTTP call-state
// endpoints (invitation acknowledgment, call response).
type CallStatusEvent struct {
	ChannelName string `json:"channelName"`
	Status      string `json:"status,omitempty"`
	Response    string `json:"response,omitempty"`
}
