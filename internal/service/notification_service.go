package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorloop/mentorloop-api/internal/models"
	"github.com/mentorloop/mentorloop-api/pkg/jobs"
)

type notificationMessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
}

const (
	eventBookingCreated   = "booking.created"
	eventBookingCancelled = "booking.cancelled"
)

type bookingEvent struct {
	Kind    string
	Booking models.Booking
}

// NotificationService delivers booking notices to mentors as chat messages.
// Delivery runs on a background worker queue so booking requests never wait
// on it; a lost notice is acceptable, a slow booking is not.
type NotificationService struct {
	queue    *jobs.Queue
	messages notificationMessageRepository
	mentors  availabilityMentorRepository
	logger   *zap.Logger
}

// NewNotificationService constructs a NotificationService. Call Start before
// enqueuing events and Stop on shutdown.
func NewNotificationService(messages notificationMessageRepository, mentors availabilityMentorRepository, workers int, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{
		messages: messages,
		mentors:  mentors,
		logger:   logger,
	}
	s.queue = jobs.NewQueue("notifications", s.handle, jobs.QueueConfig{
		Workers: workers,
		Logger:  logger,
	})
	return s
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the workers. Blocks until they exit.
func (s *NotificationService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// BookingCreated notifies the mentor about a fresh booking.
func (s *NotificationService) BookingCreated(booking models.Booking) {
	s.enqueue(eventBookingCreated, booking)
}

// BookingCancelled notifies the mentor that a booking was cancelled.
func (s *NotificationService) BookingCancelled(booking models.Booking) {
	s.enqueue(eventBookingCancelled, booking)
}

func (s *NotificationService) enqueue(kind string, booking models.Booking) {
	if s == nil {
		return
	}
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    kind,
		Payload: bookingEvent{Kind: kind, Booking: booking},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue notification",
			zap.String("type", kind),
			zap.String("booking_id", booking.ID),
			zap.Error(err))
	}
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(bookingEvent)
	if !ok {
		return fmt.Errorf("unexpected notification payload %T", job.Payload)
	}

	mentor, err := s.mentors.FindByID(ctx, event.Booking.MentorID)
	if err != nil {
		return fmt.Errorf("load mentor for notification: %w", err)
	}

	var body string
	switch event.Kind {
	case eventBookingCreated:
		body = fmt.Sprintf("New booking on %s from %s to %s.",
			event.Booking.Date, event.Booking.StartTime, event.Booking.EndTime)
	case eventBookingCancelled:
		body = fmt.Sprintf("The booking on %s from %s to %s was cancelled.",
			event.Booking.Date, event.Booking.StartTime, event.Booking.EndTime)
	default:
		return fmt.Errorf("unknown notification kind %q", event.Kind)
	}

	message := &models.Message{
		SenderID:   event.Booking.StudentID,
		ReceiverID: mentor.UserID,
		Body:       body,
	}
	return s.messages.Create(ctx, message)
}
