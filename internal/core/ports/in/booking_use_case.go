package in

import (
	"context"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
)

type AddSlotCommand struct {
	ProviderID      string
	Date            json_types.Date
	StartTime       json_types.TimeOfDay
	DurationMinutes int
}

// BookCommand нужен ровно один из ClientID и WalkInName
type BookCommand struct {
	ProviderID string
	Date       json_types.Date
	StartTime  json_types.TimeOfDay
	ClientID   *string
	WalkInName string
	ServiceID  string
	Confirm    bool
}

// BlockTimeCommand для FullDay время не задается, для частичной блокировки нужна хотя бы одна граница
type BlockTimeCommand struct {
	ProviderID string
	Date       json_types.Date
	FullDay    bool
	StartTime  *json_types.TimeOfDay
	EndTime    *json_types.TimeOfDay
	Reason     string
}

type BookingUseCase interface {
	AddSlot(ctx context.Context, cmd AddSlotCommand) (*domain.MutationResult, error)
	DeleteSlot(ctx context.Context, slotID string) (*domain.MutationResult, error)

	Book(ctx context.Context, cmd BookCommand) (*domain.MutationResult, error)
	CancelAppointment(ctx context.Context, appointmentID string) (*domain.MutationResult, error)
	ConfirmAppointment(ctx context.Context, appointmentID string) (*domain.MutationResult, error)
	CompleteAppointment(ctx context.Context, appointmentID string) (*domain.MutationResult, error)

	BlockTime(ctx context.Context, cmd BlockTimeCommand) (*domain.MutationResult, error)
	UnblockTime(ctx context.Context, blockID string) (*domain.MutationResult, error)
}
