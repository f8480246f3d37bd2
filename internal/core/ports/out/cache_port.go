package out

import (
	"context"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
)

// DayCachePort кэш вычисленных дней. Мутации только инвалидируют запись, патчить ее нельзя.
type DayCachePort interface {
	GetDay(ctx context.Context, providerID string, date json_types.Date) (*domain.DayResolution, bool)
	// Version берется до чтения записей, StoreDay с устаревшей версией ничего не кладет
	Version(ctx context.Context, providerID string) uint64
	StoreDay(ctx context.Context, day domain.DayResolution, version uint64) bool
	InvalidateDay(ctx context.Context, providerID string, date json_types.Date)
	InvalidateProvider(ctx context.Context, providerID string)
	InvalidateAll(ctx context.Context)
}
