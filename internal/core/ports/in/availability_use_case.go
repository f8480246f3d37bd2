package in

import (
	"context"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
)

type AvailabilityUseCase interface {
	// Статусы всех слотов дня, по возрастанию времени
	ResolveDay(ctx context.Context, providerID string, date json_types.Date, trace *domain.DebugTrace) (domain.DayResolution, error)

	// Статус дня для календаря. При ошибке хранилища возвращает DayStatusError и саму ошибку.
	AggregateDayStatus(ctx context.Context, providerID string, date json_types.Date) (domain.DayStatus, error)

	// Статусы дней диапазона [from, to] включительно
	ProjectCalendar(ctx context.Context, providerID string, from, to json_types.Date) (map[json_types.Date]domain.DayStatus, error)

	// Инвалидация кэша дней
	InvalidateDay(ctx context.Context, providerID string, date json_types.Date) error
	InvalidateProvider(ctx context.Context, providerID string) error
	InvalidateAll(ctx context.Context) error
}
