package out

import (
	"context"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
)

// RecordStorePort внешнее хранилище слотов, блокировок и записей.
// Ошибки: *domain.TransportError при недоступности, domain.ErrNotFound для отсутствующих записей.
type RecordStorePort interface {
	// Чтение дня, без кэша и без преобразований
	GetDayRecords(ctx context.Context, providerID string, date json_types.Date) (domain.DayRecords, error)

	GetSlot(ctx context.Context, slotID string) (*domain.Slot, error)
	GetAppointment(ctx context.Context, appointmentID string) (*domain.Appointment, error)
	GetBlock(ctx context.Context, blockID string) (*domain.Block, error)

	// Слоты
	CreateSlot(ctx context.Context, slot domain.Slot) (*domain.Slot, error)
	DeleteSlot(ctx context.Context, slotID string) error

	// Записи на прием
	CreateAppointment(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, appointmentID string, status domain.AppointmentStatus) (*domain.Appointment, error)

	// Блокировки
	CreateBlock(ctx context.Context, block domain.Block) (*domain.Block, error)
	DeleteBlock(ctx context.Context, blockID string) error
}
