package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/eric-kaloki/server-medconnect/internal/core/contracts"
	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubDoctors struct {
	token string
	err   error
}

func (s *stubDoctors) CreateDoctor(context.Context, *domain.Doctor) (*domain.Doctor, error) {
	return nil, errors.New("not implemented")
}

func (s *stubDoctors) GetDoctorByEmail(context.Context, string) (*domain.Doctor, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubDoctors) GetDoctorPushToken(context.Context, string) (string, error) {
	return s.token, s.err
}

func (s *stubDoctors) UpdateDoctorPushToken(context.Context, string, string) error {
	return nil
}

type stubPatients struct {
	token string
	err   error

	mu      sync.Mutex
	lookups int
}

func (s *stubPatients) CreatePatient(context.Context, *domain.Patient) (*domain.Patient, error) {
	return nil, errors.New("not implemented")
}

func (s *stubPatients) GetPatientByEmail(context.Context, string) (*domain.Patient, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubPatients) GetPatientPushToken(context.Context, string) (string, error) {
	s.mu.Lock()
	s.lookups++
	s.mu.Unlock()
	return s.token, s.err
}

func (s *stubPatients) lookupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups
}

func (s *stubPatients) UpdatePatientPushToken(context.Context, string, string) error {
	return nil
}

type stubPush struct {
	mu    sync.Mutex
	calls []contracts.PushMessage

	sendFn func(ctx context.Context, msg contracts.PushMessage) (string, error)
}

func (s *stubPush) Send(ctx context.Context, msg contracts.PushMessage) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, msg)
	s.mu.Unlock()
	if s.sendFn != nil {
		return s.sendFn(ctx, msg)
	}
	return "projects/test/messages/1", nil
}

func (s *stubPush) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubPush) lastCall() contracts.PushMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

type stubQueue struct {
	mu        sync.Mutex
	published [][]byte
}

func (s *stubQueue) Publish(_ context.Context, _ string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, payload)
	return nil
}

func (s *stubQueue) Subscribe(ctx context.Context, _, _ string, _ func(context.Context, string, []byte) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubQueue) Acknowledge(context.Context, string, string, string) error { return nil }

func (s *stubQueue) Delete(context.Context, string, string) error { return nil }

func (s *stubQueue) publishedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.published)
}

func newTestInvitationService(doctors *stubDoctors, patients *stubPatients, push *stubPush, queue *stubQueue) *InvitationService {
	return NewInvitationService(testLogger(), doctors, patients, push, queue, "notifications", time.Second)
}

func TestSendInvitationValidation(t *testing.T) {
	tests := []struct {
		name string
		inv  domain.Invitation
	}{
		{"missing recipient", domain.Invitation{CallerName: "Dr. A", ChannelName: "ch-1"}},
		{"missing caller", domain.Invitation{RecipientID: "u-1", ChannelName: "ch-1"}},
		{"missing channel", domain.Invitation{RecipientID: "u-1", CallerName: "Dr. A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			push := &stubPush{}
			svc := newTestInvitationService(&stubDoctors{token: "tok"}, &stubPatients{}, push, &stubQueue{})
			_, err := svc.SendInvitation(context.Background(), tt.inv)
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
			if push.callCount() != 0 {
				t.Error("push provider called for invalid request")
			}
		})
	}
}

func TestSendInvitationDeliversToDoctorToken(t *testing.T) {
	push := &stubPush{}
	queue := &stubQueue{}
	svc := newTestInvitationService(&stubDoctors{token: "doc-token"}, &stubPatients{}, push, queue)

	id, err := svc.SendInvitation(context.Background(), domain.Invitation{
		RecipientID: "doc-1",
		CallerName:  "Jane",
		ChannelName: "ch-1",
	})
	if err != nil {
		t.Fatalf("SendInvitation: %v", err)
	}
	if id != "projects/test/messages/1" {
		t.Errorf("delivery id = %q", id)
	}
	msg := push.lastCall()
	if msg.Token != "doc-token" {
		t.Errorf("token = %q, want doc-token", msg.Token)
	}
	if msg.Data["type"] != "call-invitation" || msg.Data["channelName"] != "ch-1" || msg.Data["callerName"] != "Jane" {
		t.Errorf("payload data = %v", msg.Data)
	}
	if queue.publishedCount() != 1 {
		t.Errorf("published %d feed entries, want 1", queue.publishedCount())
	}
}

func TestSendInvitationFallsBackToPatientToken(t *testing.T) {
	push := &stubPush{}
	svc := newTestInvitationService(
		&stubDoctors{err: domain.ErrUserNotFound},
		&stubPatients{token: "pat-token"},
		push, &stubQueue{},
	)

	if _, err := svc.SendInvitation(context.Background(), domain.Invitation{
		RecipientID: "pat-1",
		CallerName:  "Dr. A",
		ChannelName: "ch-1",
	}); err != nil {
		t.Fatalf("SendInvitation: %v", err)
	}
	if push.lastCall().Token != "pat-token" {
		t.Errorf("token = %q, want pat-token", push.lastCall().Token)
	}
}

func TestSendInvitationTokenlessDoctorIsUnreachable(t *testing.T) {
	push := &stubPush{}
	patients := &stubPatients{token: "pat-token"}
	svc := newTestInvitationService(&stubDoctors{token: ""}, patients, push, &stubQueue{})

	// The doctor row exists, its token is just empty. That is a dead
	// end, not a cue to try the patients table.
	_, err := svc.SendInvitation(context.Background(), domain.Invitation{
		RecipientID: "doc-1",
		CallerName:  "Jane",
		ChannelName: "ch-1",
	})
	if !errors.Is(err, domain.ErrRecipientUnreachable) {
		t.Errorf("err = %v, want ErrRecipientUnreachable", err)
	}
	if patients.lookupCount() != 0 {
		t.Errorf("patients table consulted %d times, want 0", patients.lookupCount())
	}
	if push.callCount() != 0 {
		t.Error("push provider called for tokenless doctor")
	}
}

func TestSendInvitationRecipientUnreachable(t *testing.T) {
	push := &stubPush{}
	svc := newTestInvitationService(
		&stubDoctors{err: domain.ErrUserNotFound},
		&stubPatients{err: domain.ErrUserNotFound},
		push, &stubQueue{},
	)

	_, err := svc.SendInvitation(context.Background(), domain.Invitation{
		RecipientID: "ghost",
		CallerName:  "Dr. A",
		ChannelName: "ch-1",
	})
	if !errors.Is(err, domain.ErrRecipientUnreachable) {
		t.Errorf("err = %v, want ErrRecipientUnreachable", err)
	}
	if push.callCount() != 0 {
		t.Error("push provider called for unreachable recipient")
	}
	if svc.InvitationPending("ch-1") {
		t.Error("channel still marked active after failed lookup")
	}
}

func TestSendInvitationDuplicateSuppressed(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var startedOnce sync.Once
	push := &stubPush{
		sendFn: func(ctx context.Context, _ contracts.PushMessage) (string, error) {
			startedOnce.Do(func() { close(started) })
			<-release
			return "id-1", nil
		},
	}
	svc := newTestInvitationService(&stubDoctors{token: "tok"}, &stubPatients{}, push, &stubQueue{})

	inv := domain.Invitation{RecipientID: "u-1", CallerName: "Jane", ChannelName: "ch-1"}
	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.SendInvitation(context.Background(), inv)
		firstDone <- err
	}()
	<-started

	// A second request for the same channel while the first is in
	// flight must be rejected without touching the provider.
	if _, err := svc.SendInvitation(context.Background(), inv); !errors.Is(err, domain.ErrAlreadyInProgress) {
		t.Errorf("concurrent err = %v, want ErrAlreadyInProgress", err)
	}
	if push.callCount() != 1 {
		t.Errorf("push called %d times, want 1", push.callCount())
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	if svc.InvitationPending("ch-1") {
		t.Error("channel still marked active after dispatch completed")
	}

	// The channel is free again: a retry goes through.
	if _, err := svc.SendInvitation(context.Background(), inv); err != nil {
		t.Errorf("retry after completion: %v", err)
	}
}

func TestSendInvitationDeliveryFailureReleasesChannel(t *testing.T) {
	push := &stubPush{
		sendFn: func(context.Context, contracts.PushMessage) (string, error) {
			return "", errors.New("provider down")
		},
	}
	svc := newTestInvitationService(&stubDoctors{token: "tok"}, &stubPatients{}, push, &stubQueue{})

	inv := domain.Invitation{RecipientID: "u-1", CallerName: "Jane", ChannelName: "ch-1"}
	_, err := svc.SendInvitation(context.Background(), inv)
	if !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Errorf("err = %v, want ErrDeliveryFailed", err)
	}
	if svc.InvitationPending("ch-1") {
		t.Error("channel still marked active after delivery failure")
	}
}

func TestSendInvitationTimesOutHungProvider(t *testing.T) {
	push := &stubPush{
		sendFn: func(ctx context.Context, _ contracts.PushMessage) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	svc := NewInvitationService(testLogger(), &stubDoctors{token: "tok"}, &stubPatients{}, push, &stubQueue{}, "notifications", 20*time.Millisecond)

	start := time.Now()
	_, err := svc.SendInvitation(context.Background(), domain.Invitation{
		RecipientID: "u-1",
		CallerName:  "Jane",
		ChannelName: "ch-1",
	})
	if !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Errorf("err = %v, want ErrDeliveryFailed", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("dispatch took %v, timeout did not bound the provider call", elapsed)
	}
	if svc.InvitationPending("ch-1") {
		t.Error("channel still marked active after provider timeout")
	}
}

func TestDispatchToDevice(t *testing.T) {
	push := &stubPush{}
	svc := newTestInvitationService(&stubDoctors{}, &stubPatients{}, push, &stubQueue{})

	if err := svc.DispatchToDevice(context.Background(), "dev-token", "Jane", "ch-1"); err != nil {
		t.Fatalf("DispatchToDevice: %v", err)
	}
	if push.lastCall().Token != "dev-token" {
		t.Errorf("token = %q, want dev-token", push.lastCall().Token)
	}
	if err := svc.DispatchToDevice(context.Background(), "", "Jane", "ch-1"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("missing token err = %v, want ErrInvalidRequest", err)
	}
}
