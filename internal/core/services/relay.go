package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/eric-kaloki/server-medconnect/internal/core/contracts"
	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
	"github.com/eric-kaloki/server-medconnect/pkg/logging"
)

// RelayService interprets inbound signaling envelopes for one
// connection. Room management goes to the registry; offer, answer and
// candidate payloads are forwarded verbatim to the rest of the room.
//
// The transport is fire-and-forget: malformed events are logged and
// dropped, never answered.
type RelayService struct {
	log      *slog.Logger
	registry contracts.Registry
	invites  *InvitationService
}

func NewRelayService(log *slog.Logger, registry contracts.Registry, invites *InvitationService) *RelayService {
	return &RelayService{
		log:      log,
		registry: registry,
		invites:  invites,
	}
}

// HandleConnect tracks a new connection. It is in no room until it
// sends join-room.
func (s *RelayService) HandleConnect(c contracts.Client) {
	s.registry.Register(c)
	s.log.Info("relay - connect - client registered", logging.Conn(c.ID()))
}

// HandleDisconnect purges the connection from every room. Invoked once
// per teardown, clean or not.
func (s *RelayService) HandleDisconnect(c contracts.Client) {
	s.registry.Unregister(c)
	s.log.Info("relay - disconnect - client purged", logging.Conn(c.ID()))
}

// HandleEvent processes one inbound frame. Events from a single
// connection arrive here in read order.
func (s *RelayService) HandleEvent(ctx context.Context, c contracts.Client, raw []byte) {
	var env domain.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.log.Warn("relay - event - malformed envelope dropped", logging.Conn(c.ID()), "err", err)
		return
	}

	switch env.Event {
	case domain.EventJoinRoom:
		roomID := decodeRoomID(env.Data)
		if roomID == "" {
			s.log.Warn("relay - join - missing room id", logging.Conn(c.ID()))
			return
		}
		s.registry.Join(c, roomID)
		s.log.Info("relay - join - joined room", logging.Conn(c.ID()), "room", roomID)

	case domain.EventLeaveRoom:
		roomID := decodeRoomID(env.Data)
		if roomID == "" {
			s.log.Warn("relay - leave - missing room id", logging.Conn(c.ID()))
			return
		}
		s.registry.Leave(c, roomID)
		s.log.Info("relay - leave - left room", logging.Conn(c.ID()), "room", roomID)

	case domain.EventOffer, domain.EventAnswer, domain.EventCandidate, domain.EventCallResponse:
		var ref domain.RoomRef
		if err := json.Unmarshal(env.Data, &ref); err != nil || ref.Room == "" {
			s.log.Warn("relay - signal - roomless payload dropped", logging.Conn(c.ID()), "event", env.Event)
			return
		}
		// Forward the original bytes so the payload reaches peers
		// untouched under the same event name.
		s.registry.Broadcast(ctx, ref.Room, c.ID(), raw)

	case domain.EventCallInitiation:
		var ci domain.CallInitiation
		if err := json.Unmarshal(env.Data, &ci); err != nil {
			s.log.Warn("relay - call initiation - malformed payload dropped", logging.Conn(c.ID()), "err", err)
			return
		}
		// No ack over the socket; a duplicate is expected while a prior
		// ring is still in flight and only worth a log line.
		if err := s.invites.DispatchToDevice(ctx, ci.RecipientDeviceToken, ci.CallerName, ci.Room); err != nil {
			if errors.Is(err, domain.ErrAlreadyInProgress) {
				s.log.Info("relay - call initiation - duplicate suppressed", "room", ci.Room)
				return
			}
			s.log.ErrorContext(ctx, "relay - call initiation - dispatch failed", "room", ci.Room, "err", err)
		}

	default:
		s.log.Warn("relay - event - unknown event dropped", logging.Conn(c.ID()), "event", env.Event)
	}
}

// decodeRoomID accepts both forms the clients emit: a bare JSON string
// and an object carrying a room field.
func decodeRoomID(data json.RawMessage) string {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return id
	}
	var ref domain.RoomRef
	if err := json.Unmarshal(data, &ref); err == nil {
		return ref.Room
	}
	return ""
}
