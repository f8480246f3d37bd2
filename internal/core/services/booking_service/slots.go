package booking_service

import (
	"context"
	"fmt"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/in"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
)

func (s *BookingService) AddSlot(ctx context.Context, cmd in.AddSlotCommand) (*domain.MutationResult, error) {
	const op = "add_slot"
	fields := out.LogFields{
		"providerId":      cmd.ProviderID,
		"date":            cmd.Date,
		"startTime":       cmd.StartTime,
		"durationMinutes": cmd.DurationMinutes,
	}

	if !cmd.StartTime.FitsInDay(cmd.DurationMinutes) {
		return nil, s.reject(op, fmt.Errorf("booking.add_slot.invalid_range: %s + %d minutes: %w", cmd.StartTime, cmd.DurationMinutes, domain.ErrInvalidRange), fields)
	}

	key := fmt.Sprintf("%s|%s|%d", op, cmd.StartTime, cmd.DurationMinutes)
	result, replayed, err := s.debounce.do(ctx, key, cmd.ProviderID, cmd.Date, func(ctx context.Context) (*domain.MutationResult, error) {
		return s.addSlot(ctx, op, cmd, fields)
	})
	if err != nil {
		return nil, err
	}
	if replayed {
		s.logger.Info("booking.add_slot.replayed", fields)
	}
	return result, nil
}

func (s *BookingService) addSlot(ctx context.Context, op string, cmd in.AddSlotCommand, fields out.LogFields) (*domain.MutationResult, error) {
	day, err := s.freshDay(ctx, op, cmd.ProviderID, cmd.Date)
	if err != nil {
		return nil, err
	}

	// Конфликт с любым существующим слотом, даже заблокированным или занятым
	if existing, ok := day.SlotAt(cmd.StartTime); ok && existing.SlotID != "" {
		return nil, s.reject(op, fmt.Errorf("booking.add_slot.conflict: slot %s at %s: %w", existing.SlotID, cmd.StartTime, domain.ErrSlotConflict), fields)
	}

	slot, err := s.recordStore.CreateSlot(ctx, domain.Slot{
		ProviderID:      cmd.ProviderID,
		Date:            cmd.Date.String(),
		StartTime:       cmd.StartTime.String(),
		DurationMinutes: cmd.DurationMinutes,
	})
	if err != nil {
		return nil, s.writeFailed(op, err, fields)
	}

	s.logger.Info("booking.add_slot.succeeded", out.LogFields{
		"providerId": cmd.ProviderID,
		"date":       cmd.Date,
		"slotId":     slot.ID,
	})

	return &domain.MutationResult{
		Slot: slot,
		Day:  s.dayView(ctx, op, cmd.ProviderID, cmd.Date),
	}, nil
}

func (s *BookingService) DeleteSlot(ctx context.Context, slotID string) (*domain.MutationResult, error) {
	const op = "delete_slot"
	fields := out.LogFields{"slotId": slotID}

	slot, err := s.recordStore.GetSlot(ctx, slotID)
	if err != nil {
		return nil, s.reject(op, fmt.Errorf("booking.delete_slot.lookup_failed: %w", err), fields)
	}
	date, err := recordDate(op, "slot", slot.ID, slot.Date)
	if err != nil {
		return nil, s.reject(op, err, fields)
	}

	day, err := s.freshDay(ctx, op, slot.ProviderID, date)
	if err != nil {
		return nil, err
	}

	// Заблокированный слот удалить можно, занятый нельзя
	for _, resolved := range day.Slots {
		if resolved.SlotID == slot.ID && resolved.Kind() == domain.SlotStatusBooked {
			return nil, s.reject(op, fmt.Errorf("booking.delete_slot.occupied: slot %s at %s: %w", slot.ID, resolved.StartTime, domain.ErrSlotOccupied), fields)
		}
	}

	if err := s.recordStore.DeleteSlot(ctx, slot.ID); err != nil {
		return nil, s.writeFailed(op, err, fields)
	}

	s.logger.Info("booking.delete_slot.succeeded", out.LogFields{
		"providerId": slot.ProviderID,
		"date":       date,
		"slotId":     slot.ID,
	})

	return &domain.MutationResult{
		Slot: slot,
		Day:  s.dayView(ctx, op, slot.ProviderID, date),
	}, nil
}
