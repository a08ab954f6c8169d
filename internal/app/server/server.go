package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/eric-kaloki/server-medconnect/internal/app/server/handlers"
	"github.com/eric-kaloki/server-medconnect/internal/config"
	"github.com/eric-kaloki/server-medconnect/internal/core/services"
	"github.com/eric-kaloki/server-medconnect/pkg/middleware"
)

// Deps bundles the services the HTTP surface is built from.
type Deps struct {
	Users         *services.UserService
	Tokens        *services.TokenService
	Appointments  *services.AppointmentService
	Records       *services.RecordService
	Notifications *services.NotificationService
	Availability  *services.AvailabilityService
	Invitations   *services.InvitationService
	Bridge        *services.CallBridge
	Relay         *services.RelayService
}

type Server struct {
	log  *slog.Logger
	http *http.Server
}

func NewServer(cfg *config.Config, log *slog.Logger, deps Deps) *Server {
	auth := handlers.NewAuthHandler(deps.Users, deps.Tokens)
	appointments := handlers.NewAppointmentHandler(deps.Appointments)
	records := handlers.NewRecordHandler(deps.Records)
	notifications := handlers.NewNotificationHandler(deps.Notifications)
	availability := handlers.NewAvailabilityHandler(deps.Availability)
	calls := handlers.NewCallHandler(deps.Invitations, deps.Bridge)
	signaling := handlers.NewWSHandler(deps.Relay)

	requireAuth := middleware.AuthMiddleware(deps.Tokens)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Auth surface, open.
	mux.HandleFunc("POST /auth/doctor/validate-license", auth.ValidateLicense)
	mux.HandleFunc("POST /auth/doctor/register", auth.RegisterDoctor)
	mux.HandleFunc("POST /auth/patient/register", auth.RegisterPatient)
	mux.HandleFunc("POST /auth/login", auth.Login)

	// Call setup. The invitation endpoints are hit by both apps before a
	// session token necessarily exists client-side, so they stay open.
	mux.HandleFunc("POST /send-invitation", calls.SendInvitation)
	mux.HandleFunc("POST /invitation-acknowledgment", calls.AcknowledgeInvitation)
	mux.HandleFunc("POST /call-response", calls.CallResponse)
	mux.HandleFunc("GET /availability/{doctorId}", availability.Get)
	mux.HandleFunc("GET /availability", availability.ListOnline)
	mux.HandleFunc("GET /ws", signaling.Handler)

	// Authenticated surface.
	mux.Handle("POST /update-push-token", requireAuth(http.HandlerFunc(auth.UpdatePushToken)))
	mux.Handle("POST /availability/heartbeat", requireAuth(http.HandlerFunc(availability.Heartbeat)))

	mux.Handle("POST /book-appointment", requireAuth(http.HandlerFunc(appointments.Book)))
	mux.Handle("GET /patient-appointments", requireAuth(http.HandlerFunc(appointments.PatientAppointments)))
	mux.Handle("GET /doctor-appointments", requireAuth(http.HandlerFunc(appointments.DoctorAppointments)))
	mux.Handle("GET /pending-appointments", requireAuth(http.HandlerFunc(appointments.PendingAppointments)))
	mux.Handle("GET /slots", requireAuth(http.HandlerFunc(appointments.Slots)))
	mux.Handle("POST /block-slots", requireAuth(http.HandlerFunc(appointments.BlockSlots)))
	mux.Handle("GET /doctor-blocked-slots", requireAuth(http.HandlerFunc(appointments.DoctorBlockedSlots)))
	mux.Handle("POST /reschedule-appointment", requireAuth(http.HandlerFunc(appointments.Reschedule)))
	mux.Handle("POST /confirm-reschedule", requireAuth(http.HandlerFunc(appointments.ConfirmReschedule)))
	mux.Handle("POST /cancel-appointment", requireAuth(http.HandlerFunc(appointments.Cancel)))

	mux.Handle("POST /diagnoses", requireAuth(http.HandlerFunc(records.CreateDiagnosis)))
	mux.Handle("GET /diagnoses", requireAuth(http.HandlerFunc(records.GetDiagnoses)))
	mux.Handle("POST /prescriptions", requireAuth(http.HandlerFunc(records.CreatePrescription)))
	mux.Handle("GET /prescriptions", requireAuth(http.HandlerFunc(records.GetPrescriptions)))
	mux.Handle("POST /test-results", requireAuth(http.HandlerFunc(records.CreateTestResult)))
	mux.Handle("GET /test-results", requireAuth(http.HandlerFunc(records.GetTestResults)))
	mux.Handle("POST /treatment-plans", requireAuth(http.HandlerFunc(records.CreateTreatmentPlan)))
	mux.Handle("GET /treatment-plans", requireAuth(http.HandlerFunc(records.GetTreatmentPlans)))
	mux.Handle("GET /records-by-patient-and-doctor", requireAuth(http.HandlerFunc(records.GetRecordsByPatientAndDoctor)))

	mux.Handle("GET /notifications/{userId}", requireAuth(http.HandlerFunc(notifications.List)))
	mux.Handle("PUT /notifications/{userId}/read", requireAuth(http.HandlerFunc(notifications.MarkAllRead)))

	var handler http.Handler = mux
	handler = middleware.TracerMiddleware(cfg.Service.Name)(handler)
	handler = middleware.RequestLogger(log)(handler)

	return &Server{
		log: log,
		http: &http.Server{
			Addr:              cfg.Service.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until the context is cancelled, then drains.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server - listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("server - shutting down")
	return s.http.Shutdown(shutdownCtx)
}
