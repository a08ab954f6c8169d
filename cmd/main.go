package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eric-kaloki/server-medconnect/internal/app/registry"
	"github.com/eric-kaloki/server-medconnect/internal/app/server"
	"github.com/eric-kaloki/server-medconnect/internal/app/worker"
	"github.com/eric-kaloki/server-medconnect/internal/config"
	"github.com/eric-kaloki/server-medconnect/internal/core/services"
	"github.com/eric-kaloki/server-medconnect/internal/platform/telemetry"
	"github.com/eric-kaloki/server-medconnect/internal/plugins/fcm"
	"github.com/eric-kaloki/server-medconnect/internal/plugins/postgres"
	redisplugin "github.com/eric-kaloki/server-medconnect/internal/plugins/redis"
	"github.com/eric-kaloki/server-medconnect/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logging.NewLogger(*cfg)

	shutdownTelemetry, err := telemetry.InitTelemetry(ctx, *cfg)
	if err != nil {
		log.Error("main - telemetry init failed", "err", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error("main - telemetry shutdown failed", "err", err)
		}
	}()

	db, err := postgres.New(ctx, *cfg.Postgres)
	if err != nil {
		log.Error("main - postgres connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := redisplugin.NewRedisClient(ctx, *cfg.Redis)
	if err != nil {
		log.Error("main - redis connect failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	doctors := postgres.NewDoctorRepository(db)
	patients := postgres.NewPatientRepository(db)
	licenses := postgres.NewLicenseRepository(db)
	appointments := postgres.NewAppointmentRepository(db)
	blockedSlots := postgres.NewBlockedSlotRepository(db)
	records := postgres.NewMedicalRecordRepository(db)
	notifications := postgres.NewNotificationRepository(db)
	txManager := postgres.NewTxManager(db)

	presence := redisplugin.NewRedisPresenceStore(rdb)
	queue := redisplugin.NewRedisNotificationQueue(rdb)
	push := fcm.NewFCMClient(*cfg.Push)

	rooms := registry.NewRegistry()

	tokenSvc := services.NewTokenService(cfg.SecretToken)
	userSvc := services.NewUserService(log, doctors, patients, licenses)
	appointmentSvc := services.NewAppointmentService(log, appointments, blockedSlots, txManager)
	recordSvc := services.NewRecordService(log, records)
	notificationSvc := services.NewNotificationService(log, notifications)
	availabilitySvc := services.NewAvailabilityService(log, presence)
	invitationSvc := services.NewInvitationService(
		log, doctors, patients, push, queue,
		cfg.Worker.NotificationStream, cfg.Push.SendTimeout,
	)
	bridge := services.NewCallBridge(log, rooms)
	relaySvc := services.NewRelayService(log, rooms, invitationSvc)

	notificationWorker := worker.NewNotificationWorker(
		log, queue, notifications,
		cfg.Worker.NotificationStream, cfg.Worker.ConsumerGroup,
	)
	go func() {
		if err := notificationWorker.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("main - notification worker stopped", "err", err)
		}
	}()

	srv := server.NewServer(cfg, log, server.Deps{
		Users:         userSvc,
		Tokens:        tokenSvc,
		Appointments:  appointmentSvc,
		Records:       recordSvc,
		Notifications: notificationSvc,
		Availability:  availabilitySvc,
		Invitations:   invitationSvc,
		Bridge:        bridge,
		Relay:         relaySvc,
	})

	if err := srv.Run(ctx); err != nil {
		log.Error("main - server exited", "err", err)
		os.Exit(1)
	}
	log.Info("main - shutdown complete")
}
