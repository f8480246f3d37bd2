package availability_service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/suchimauz/barber-availability-engine/internal/config"
	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
	"github.com/suchimauz/barber-availability-engine/internal/utils"
)

type AvailabilityService struct {
	recordStore out.RecordStorePort
	cachePort   out.DayCachePort
	logger      out.LoggerPort
	cfg         *config.Config
}

func NewAvailabilityService(
	recordStore out.RecordStorePort,
	cachePort out.DayCachePort,
	cfg *config.Config,
	logger out.LoggerPort,
) *AvailabilityService {
	return &AvailabilityService{
		recordStore: recordStore,
		cachePort:   cachePort,
		cfg:         cfg,
		logger:      logger.WithModule("AvailabilityService"),
	}
}

func (s *AvailabilityService) cacheEnabled() bool {
	return s.cachePort != nil && s.cfg.Cache.Enabled
}

func (s *AvailabilityService) ResolveDay(ctx context.Context, providerID string, date json_types.Date, trace *domain.DebugTrace) (domain.DayResolution, error) {
	var version uint64
	if s.cacheEnabled() {
		version = s.cachePort.Version(ctx, providerID)
		if day, exists := s.cachePort.GetDay(ctx, providerID, date); exists {
			s.logger.Debug("availability.resolve.cache.hit", out.LogFields{
				"providerId": providerID,
				"date":       date,
			})
			info := domain.StartDebug("availability.resolve.cache.hit")
			info.Elapse()
			trace.Add(info)
			return *day, nil
		}
	}

	s.logger.Debug("availability.resolve.cache.miss", out.LogFields{
		"providerId": providerID,
		"date":       date,
	})

	day, err := s.loadDay(ctx, providerID, date, trace)
	if err != nil {
		return domain.DayResolution{}, err
	}

	// Мутация, прошедшая во время чтения, поменяла версию, такой день не кэшируем
	if s.cacheEnabled() && !s.cachePort.StoreDay(ctx, day, version) {
		s.logger.Debug("availability.resolve.cache.stale", out.LogFields{
			"providerId": providerID,
			"date":       date,
		})
	}

	return day, nil
}

// RefreshDay сбрасывает кэш дня и пересчитывает его по свежим данным хранилища.
// Вызывается после каждой успешной мутации.
func (s *AvailabilityService) RefreshDay(ctx context.Context, providerID string, date json_types.Date) (domain.DayResolution, error) {
	if err := s.InvalidateDay(ctx, providerID, date); err != nil {
		return domain.DayResolution{}, err
	}
	return s.ResolveDay(ctx, providerID, date, nil)
}

func (s *AvailabilityService) loadDay(ctx context.Context, providerID string, date json_types.Date, trace *domain.DebugTrace) (domain.DayResolution, error) {
	fetchDebug := domain.StartDebug("availability.records.fetch")
	records, err := s.recordStore.GetDayRecords(ctx, providerID, date)
	if err != nil {
		s.logger.Error("availability.records.fetch_failed", out.LogFields{
			"providerId": providerID,
			"date":       date,
			"error":      err.Error(),
		})
		return domain.DayResolution{}, fmt.Errorf("availability.records.fetch_failed: %w", err)
	}
	fetchDebug.AddOption("slots", strconv.Itoa(len(records.Slots)))
	fetchDebug.AddOption("blocks", strconv.Itoa(len(records.Blocks)))
	fetchDebug.AddOption("appointments", strconv.Itoa(len(records.Appointments)))
	fetchDebug.Elapse()
	trace.Add(fetchDebug)

	resolveDebug := domain.StartDebug("availability.resolve")
	day := Resolve(providerID, date, records)
	resolveDebug.Elapse()
	trace.Add(resolveDebug)

	s.logWarnings(day)

	return day, nil
}

func (s *AvailabilityService) logWarnings(day domain.DayResolution) {
	for _, warning := range day.Warnings {
		s.logger.Warn("availability.resolve.warning", out.LogFields{
			"providerId": day.ProviderID,
			"date":       day.Date,
			"recordKind": warning.RecordKind,
			"recordId":   warning.RecordID,
			"reason":     warning.Reason,
		})
	}
}

func (s *AvailabilityService) AggregateDayStatus(ctx context.Context, providerID string, date json_types.Date) (domain.DayStatus, error) {
	day, err := s.ResolveDay(ctx, providerID, date, nil)
	if err != nil {
		return domain.DayStatusError, err
	}
	return Aggregate(day), nil
}

// ProjectCalendar один запрос к хранилищу на каждую непосещенную дату, последовательно.
// Ошибка отдельного дня превращается в статус error и не прерывает проекцию.
func (s *AvailabilityService) ProjectCalendar(ctx context.Context, providerID string, from, to json_types.Date) (map[json_types.Date]domain.DayStatus, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("availability.calendar.invalid_range: %s is before %s: %w", to, from, domain.ErrInvalidRange)
	}
	if s.cfg.Calendar.MaxDays > 0 && from.DaysUntil(to)+1 > s.cfg.Calendar.MaxDays {
		return nil, fmt.Errorf("availability.calendar.invalid_range: more than %d days: %w", s.cfg.Calendar.MaxDays, domain.ErrInvalidRange)
	}

	result := make(map[json_types.Date]domain.DayStatus)
	failed := 0
	for _, date := range utils.DateRange(from, to) {
		status, err := s.AggregateDayStatus(ctx, providerID, date)
		if err != nil {
			failed++
		}
		result[date] = status
	}

	s.logger.Debug("availability.calendar.projected", out.LogFields{
		"providerId": providerID,
		"from":       from,
		"to":         to,
		"days":       len(result),
		"failedDays": failed,
	})

	return result, nil
}

func (s *AvailabilityService) InvalidateDay(ctx context.Context, providerID string, date json_types.Date) error {
	if s.cachePort != nil {
		s.cachePort.InvalidateDay(ctx, providerID, date)
	}
	return nil
}

func (s *AvailabilityService) InvalidateProvider(ctx context.Context, providerID string) error {
	if s.cachePort != nil {
		s.cachePort.InvalidateProvider(ctx, providerID)
	}
	return nil
}

func (s *AvailabilityService) InvalidateAll(ctx context.Context) error {
	if s.cachePort != nil {
		s.cachePort.InvalidateAll(ctx)
	}
	return nil
}
