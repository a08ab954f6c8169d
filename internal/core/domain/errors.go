package domain

import "errors"

var (
	ErrInvalidRequest       = errors.New("missing required fields")
	ErrAlreadyInProgress    = errors.New("invitation already in progress for this channel")
	ErrRecipientUnreachable = errors.New("recipient not found or push token missing")
	ErrDeliveryFailed       = errors.New("push delivery failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidLicense     = errors.New("invalid license id")
	ErrUserNotFound       = errors.New("user not found")
	ErrSlotTaken          = errors.New("time slot already booked")
	ErrAppointmentMissing = errors.New("appointment not found")
)
