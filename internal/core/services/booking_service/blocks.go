package booking_service

import (
	"context"
	"fmt"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/in"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
)

func (s *BookingService) BlockTime(ctx context.Context, cmd in.BlockTimeCommand) (*domain.MutationResult, error) {
	const op = "block_time"
	fields := out.LogFields{
		"providerId": cmd.ProviderID,
		"date":       cmd.Date,
		"fullDay":    cmd.FullDay,
		"reason":     cmd.Reason,
	}

	if err := validateBlock(cmd); err != nil {
		return nil, s.reject(op, err, fields)
	}

	block, err := s.recordStore.CreateBlock(ctx, domain.Block{
		ProviderID: cmd.ProviderID,
		Date:       cmd.Date.String(),
		StartTime:  timeString(cmd.StartTime),
		EndTime:    timeString(cmd.EndTime),
		Reason:     cmd.Reason,
		IsFullDay:  cmd.FullDay,
	})
	if err != nil {
		return nil, s.writeFailed(op, err, fields)
	}

	s.logger.Info("booking.block_time.succeeded", out.LogFields{
		"providerId": cmd.ProviderID,
		"date":       cmd.Date,
		"blockId":    block.ID,
		"fullDay":    block.IsFullDay,
	})

	return &domain.MutationResult{
		Block: block,
		Day:   s.dayView(ctx, op, cmd.ProviderID, cmd.Date),
	}, nil
}

func validateBlock(cmd in.BlockTimeCommand) error {
	if cmd.FullDay {
		if cmd.StartTime != nil || cmd.EndTime != nil {
			return fmt.Errorf("booking.block_time.invalid_range: full day block with time bounds: %w", domain.ErrInvalidRange)
		}
		return nil
	}
	if cmd.StartTime == nil && cmd.EndTime == nil {
		return fmt.Errorf("booking.block_time.invalid_range: startTime or endTime is required: %w", domain.ErrInvalidRange)
	}
	if cmd.StartTime != nil && cmd.EndTime != nil && cmd.EndTime.Before(*cmd.StartTime) {
		return fmt.Errorf("booking.block_time.invalid_range: %s is before %s: %w", *cmd.EndTime, *cmd.StartTime, domain.ErrInvalidRange)
	}
	return nil
}

func timeString(t *json_types.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

func (s *BookingService) UnblockTime(ctx context.Context, blockID string) (*domain.MutationResult, error) {
	const op = "unblock_time"
	fields := out.LogFields{"blockId": blockID}

	block, err := s.recordStore.GetBlock(ctx, blockID)
	if err != nil {
		return nil, s.reject(op, fmt.Errorf("booking.unblock_time.lookup_failed: %w", err), fields)
	}
	date, err := recordDate(op, "block", block.ID, block.Date)
	if err != nil {
		return nil, s.reject(op, err, fields)
	}

	if err := s.recordStore.DeleteBlock(ctx, block.ID); err != nil {
		return nil, s.writeFailed(op, err, fields)
	}

	s.logger.Info("booking.unblock_time.succeeded", out.LogFields{
		"providerId": block.ProviderID,
		"date":       date,
		"blockId":    block.ID,
	})

	return &domain.MutationResult{
		Block: block,
		Day:   s.dayView(ctx, op, block.ProviderID, date),
	}, nil
}
