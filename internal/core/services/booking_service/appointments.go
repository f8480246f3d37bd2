package booking_service

import (
	"context"
	"fmt"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/in"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
)

func (s *BookingService) Book(ctx context.Context, cmd in.BookCommand) (*domain.MutationResult, error) {
	const op = "book"
	clientID := ""
	if cmd.ClientID != nil {
		clientID = *cmd.ClientID
	}
	fields := out.LogFields{
		"providerId": cmd.ProviderID,
		"date":       cmd.Date,
		"startTime":  cmd.StartTime,
		"clientId":   clientID,
		"walkInName": cmd.WalkInName,
		"serviceId":  cmd.ServiceID,
	}

	if err := validateBooking(cmd, clientID); err != nil {
		return nil, s.reject(op, err, fields)
	}

	key := fmt.Sprintf("%s|%s|%s|%s|%s|%t", op, cmd.StartTime, clientID, cmd.WalkInName, cmd.ServiceID, cmd.Confirm)
	result, replayed, err := s.debounce.do(ctx, key, cmd.ProviderID, cmd.Date, func(ctx context.Context) (*domain.MutationResult, error) {
		return s.book(ctx, op, cmd, fields)
	})
	if err != nil {
		return nil, err
	}
	if replayed {
		s.logger.Info("booking.book.replayed", fields)
	}
	return result, nil
}

func validateBooking(cmd in.BookCommand, clientID string) error {
	if (clientID == "") == (cmd.WalkInName == "") {
		return fmt.Errorf("booking.book.invalid: exactly one of clientId and walkInName is required: %w", domain.ErrInvalidBooking)
	}
	if cmd.ServiceID == "" {
		return fmt.Errorf("booking.book.invalid: serviceId is required: %w", domain.ErrInvalidBooking)
	}
	if cmd.ProviderID == "" {
		return fmt.Errorf("booking.book.invalid: providerId is required: %w", domain.ErrInvalidBooking)
	}
	return nil
}

// initialStatus запись барбером (walk-in) и confirm=true подтверждены сразу
func (s *BookingService) initialStatus(cmd in.BookCommand) domain.AppointmentStatus {
	if cmd.WalkInName != "" || cmd.Confirm || s.cfg.Booking.AutoConfirm {
		return domain.AppointmentStatusConfirmed
	}
	return domain.AppointmentStatusPending
}

func (s *BookingService) book(ctx context.Context, op string, cmd in.BookCommand, fields out.LogFields) (*domain.MutationResult, error) {
	day, err := s.freshDay(ctx, op, cmd.ProviderID, cmd.Date)
	if err != nil {
		return nil, err
	}

	resolved, ok := day.SlotAt(cmd.StartTime)
	if !ok || resolved.SlotID == "" {
		return nil, s.reject(op, fmt.Errorf("booking.book.not_available: no slot at %s: %w", cmd.StartTime, domain.ErrSlotNotAvailable), fields)
	}
	if resolved.Kind() != domain.SlotStatusAvailable {
		return nil, s.reject(op, fmt.Errorf("booking.book.not_available: slot %s is %s: %w", resolved.SlotID, resolved.Kind(), domain.ErrSlotNotAvailable), fields)
	}

	appointment, err := s.recordStore.CreateAppointment(ctx, domain.Appointment{
		ProviderID: cmd.ProviderID,
		Date:       cmd.Date.String(),
		StartTime:  cmd.StartTime.String(),
		ClientID:   cmd.ClientID,
		WalkInName: cmd.WalkInName,
		ServiceID:  cmd.ServiceID,
		Status:     s.initialStatus(cmd),
	})
	if err != nil {
		return nil, s.writeFailed(op, err, fields)
	}

	s.logger.Info("booking.book.succeeded", out.LogFields{
		"providerId":    cmd.ProviderID,
		"date":          cmd.Date,
		"startTime":     cmd.StartTime,
		"appointmentId": appointment.ID,
		"status":        appointment.Status,
	})

	return &domain.MutationResult{
		Appointment: appointment,
		Day:         s.dayView(ctx, op, cmd.ProviderID, cmd.Date),
	}, nil
}

func (s *BookingService) CancelAppointment(ctx context.Context, appointmentID string) (*domain.MutationResult, error) {
	return s.transition(ctx, "cancel", appointmentID, domain.AppointmentStatusCancelled)
}

func (s *BookingService) ConfirmAppointment(ctx context.Context, appointmentID string) (*domain.MutationResult, error) {
	return s.transition(ctx, "confirm", appointmentID, domain.AppointmentStatusConfirmed)
}

func (s *BookingService) CompleteAppointment(ctx context.Context, appointmentID string) (*domain.MutationResult, error) {
	return s.transition(ctx, "complete", appointmentID, domain.AppointmentStatusCompleted)
}

func (s *BookingService) transition(ctx context.Context, op string, appointmentID string, next domain.AppointmentStatus) (*domain.MutationResult, error) {
	fields := out.LogFields{
		"appointmentId": appointmentID,
		"status":        next,
	}

	current, err := s.recordStore.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, s.reject(op, fmt.Errorf("booking.%s.lookup_failed: %w", op, err), fields)
	}
	if current.Status.IsTerminal() {
		return nil, s.reject(op, fmt.Errorf("booking.%s.terminal: appointment %s is %s: %w", op, appointmentID, current.Status, domain.ErrAlreadyTerminal), fields)
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, s.reject(op, fmt.Errorf("booking.%s.invalid_transition: %s -> %s: %w", op, current.Status, next, domain.ErrInvalidTransition), fields)
	}
	date, err := recordDate(op, "appointment", current.ID, current.Date)
	if err != nil {
		return nil, s.reject(op, err, fields)
	}

	updated, err := s.recordStore.UpdateAppointmentStatus(ctx, appointmentID, next)
	if err != nil {
		return nil, s.writeFailed(op, err, fields)
	}

	s.logger.Info("booking."+op+".succeeded", out.LogFields{
		"providerId":    updated.ProviderID,
		"date":          date,
		"appointmentId": updated.ID,
		"from":          current.Status,
		"to":            updated.Status,
	})

	return &domain.MutationResult{
		Appointment: updated,
		Day:         s.dayView(ctx, op, current.ProviderID, date),
	}, nil
}
