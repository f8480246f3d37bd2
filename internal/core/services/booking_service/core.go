package booking_service

import (
	"context"
	"fmt"

	"github.com/suchimauz/barber-availability-engine/internal/config"
	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
	"github.com/suchimauz/barber-availability-engine/internal/core/services/availability_service"
)

// DayRefresher сбрасывает кэш дня и пересчитывает его после записи
type DayRefresher interface {
	RefreshDay(ctx context.Context, providerID string, date json_types.Date) (domain.DayResolution, error)
}

type BookingService struct {
	recordStore  out.RecordStorePort
	availability DayRefresher
	debounce     *debouncer
	logger       out.LoggerPort
	cfg          *config.Config
}

func NewBookingService(
	recordStore out.RecordStorePort,
	availability DayRefresher,
	cfg *config.Config,
	logger out.LoggerPort,
) *BookingService {
	return &BookingService{
		recordStore:  recordStore,
		availability: availability,
		debounce:     newDebouncer(cfg.Booking.DebounceSize, cfg.Booking.DebounceWindow),
		cfg:          cfg,
		logger:       logger.WithModule("BookingService"),
	}
}

// freshDay читает день напрямую из хранилища, мимо кэша: проверка предусловий
// всегда идет по актуальным данным
func (s *BookingService) freshDay(ctx context.Context, op string, providerID string, date json_types.Date) (domain.DayResolution, error) {
	records, err := s.recordStore.GetDayRecords(ctx, providerID, date)
	if err != nil {
		s.logger.Error("booking."+op+".fetch_failed", out.LogFields{
			"providerId": providerID,
			"date":       date,
			"error":      err.Error(),
		})
		return domain.DayResolution{}, fmt.Errorf("booking.%s.fetch_failed: %w", op, err)
	}
	return availability_service.Resolve(providerID, date, records), nil
}

// dayView пересчитывает день после подтвержденной записи. Запись уже сделана,
// поэтому ошибка чтения не откатывает операцию: день возвращается со статусом error.
func (s *BookingService) dayView(ctx context.Context, op string, providerID string, date json_types.Date) domain.DayView {
	s.debounce.forgetDay(providerID, date)

	day, err := s.availability.RefreshDay(ctx, providerID, date)
	if err != nil {
		s.logger.Warn("booking."+op+".refresh_failed", out.LogFields{
			"providerId": providerID,
			"date":       date,
			"error":      err.Error(),
		})
		return domain.DayView{
			ProviderID: providerID,
			Date:       date,
			Status:     domain.DayStatusError,
			Slots:      []domain.ResolvedSlot{},
		}
	}

	return domain.DayView{
		ProviderID: providerID,
		Date:       date,
		Status:     availability_service.Aggregate(day),
		Slots:      day.Slots,
	}
}

func (s *BookingService) reject(op string, err error, fields out.LogFields) error {
	fields["error"] = err.Error()
	fields["code"] = domain.ErrorCode(err)
	s.logger.Info("booking."+op+".rejected", fields)
	return err
}

func (s *BookingService) writeFailed(op string, err error, fields out.LogFields) error {
	fields["error"] = err.Error()
	fields["code"] = domain.ErrorCode(err)
	s.logger.Warn("booking."+op+".write_failed", fields)
	return fmt.Errorf("booking.%s.write_failed: %w", op, err)
}

// recordDate дата из записи хранилища. Некорректная дата значит, что запись нельзя привязать к дню.
func recordDate(op string, kind string, id string, raw string) (json_types.Date, error) {
	date, err := json_types.ParseDate(raw)
	if err != nil {
		return json_types.Date{}, fmt.Errorf("booking.%s.invalid_record: %s %s has date %q: %w", op, kind, id, raw, err)
	}
	return date, nil
}
