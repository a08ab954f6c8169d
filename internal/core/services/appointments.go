package services

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

// txRunner runs a function inside one database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AppointmentService struct {
	log     *slog.Logger
	repo    domain.AppointmentRepository
	blocked domain.BlockedSlotRepository
	tx      txRunner
}

func NewAppointmentService(log *slog.Logger, repo domain.AppointmentRepository, blocked domain.BlockedSlotRepository, tx txRunner) *AppointmentService {
	return &AppointmentService{log: log, repo: repo, blocked: blocked, tx: tx}
}

// Book checks the slot and inserts the appointment in one transaction,
// so two patients racing for the same slot cannot both win.
func (s *AppointmentService) Book(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	ctx, span := tracer.Start(ctx, "AppointmentService.Book", trace.WithAttributes(
		attribute.String("appointment.doctor_id", a.DoctorID),
		attribute.String("appointment.date", a.Date),
	))
	defer span.End()

	if a.Date == "" || a.Day == "" || a.Time == "" || a.DoctorID == "" || a.PatientID == "" {
		return nil, domain.ErrInvalidRequest
	}
	a.Status = domain.AppointmentUpcoming
	var booked *domain.Appointment
	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		conflicts, err := s.repo.CountConflicts(txCtx, a.DoctorID, a.Date, a.Time)
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return domain.ErrSlotTaken
		}
		booked, err = s.repo.CreateAppointment(txCtx, a)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "booking failed")
		s.log.ErrorContext(ctx, "appointments - book - failed", "doctor_id", a.DoctorID, "date", a.Date, "time", a.Time, "err", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "appointments - book - success", "appointment_id", booked.ID)
	return booked, nil
}

func (s *AppointmentService) ListForPatient(ctx context.Context, patientID string) ([]domain.Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *AppointmentService) ListForDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

func (s *AppointmentService) ListPending(ctx context.Context, doctorID string) ([]domain.Appointment, error) {
	return s.repo.ListPendingByDoctor(ctx, doctorID)
}

// SlotsForDay returns the doctor's blocked and booked times for one
// date, for the booking slot picker.
func (s *AppointmentService) SlotsForDay(ctx context.Context, doctorID, date string) (*domain.DaySlots, error) {
	if doctorID == "" || date == "" {
		return nil, domain.ErrInvalidRequest
	}
	blocked, err := s.blocked.ListTimes(ctx, doctorID, date)
	if err != nil {
		s.log.ErrorContext(ctx, "appointments - slots - blocked lookup failed", "doctor_id", doctorID, "date", date, "err", err)
		return nil, err
	}
	booked, err := s.repo.ListBookedTimes(ctx, doctorID, date)
	if err != nil {
		s.log.ErrorContext(ctx, "appointments - slots - booked lookup failed", "doctor_id", doctorID, "date", date, "err", err)
		return nil, err
	}
	if blocked == nil {
		blocked = []string{}
	}
	if booked == nil {
		booked = []string{}
	}
	return &domain.DaySlots{BlockedSlots: blocked, BookedSlots: booked}, nil
}

// BlockSlots replaces the doctor's blocked slots for every date in the
// request: existing entries on those dates are cleared first, then the
// submitted set is inserted, in one transaction.
func (s *AppointmentService) BlockSlots(ctx context.Context, doctorID string, slots []domain.BlockedSlot) error {
	if doctorID == "" || slots == nil {
		return domain.ErrInvalidRequest
	}
	dates := make([]string, 0, len(slots))
	seen := make(map[string]struct{}, len(slots))
	for i := range slots {
		if slots[i].Date == "" || slots[i].Time == "" {
			return domain.ErrInvalidRequest
		}
		slots[i].DoctorID = doctorID
		if _, ok := seen[slots[i].Date]; !ok {
			seen[slots[i].Date] = struct{}{}
			dates = append(dates, slots[i].Date)
		}
	}
	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.blocked.DeleteForDates(txCtx, doctorID, dates); err != nil {
			return err
		}
		return s.blocked.InsertSlots(txCtx, slots)
	})
	if err != nil {
		s.log.ErrorContext(ctx, "appointments - block slots - failed", "doctor_id", doctorID, "err", err)
		return err
	}
	s.log.InfoContext(ctx, "appointments - block slots - replaced", "doctor_id", doctorID, "slots", len(slots))
	return nil
}

// BlockedSlotsForDoctor lists everything the doctor has blocked, for
// the schedule management view.
func (s *AppointmentService) BlockedSlotsForDoctor(ctx context.Context, doctorID string) ([]domain.BlockedSlot, error) {
	if doctorID == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.blocked.ListByDoctor(ctx, doctorID)
}

// Reschedule moves the slot and flags the appointment for the other
// party to confirm.
func (s *AppointmentService) Reschedule(ctx context.Context, id, date, day, timeSlot string) error {
	if id == "" || date == "" || day == "" || timeSlot == "" {
		return domain.ErrInvalidRequest
	}
	if err := s.repo.UpdateSchedule(ctx, id, date, day, timeSlot, domain.AppointmentPendingReschedule); err != nil {
		s.log.ErrorContext(ctx, "appointments - reschedule - failed", "appointment_id", id, "err", err)
		return err
	}
	s.log.InfoContext(ctx, "appointments - reschedule - pending confirmation", "appointment_id", id)
	return nil
}

func (s *AppointmentService) ConfirmReschedule(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidRequest
	}
	return s.repo.UpdateStatus(ctx, id, domain.AppointmentUpcoming)
}

func (s *AppointmentService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidRequest
	}
	if err := s.repo.UpdateStatus(ctx, id, domain.AppointmentCancelled); err != nil {
		s.log.ErrorContext(ctx, "appointments - cancel - failed", "appointment_id", id, "err", err)
		return err
	}
	return nil
}
