package cache

import (
	"context"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
)

// Кэширование вычисленных дней

func (c *CacheAdapter) GetDay(ctx context.Context, providerID string, date json_types.Date) (*domain.DayResolution, bool) {
	c.daysCache.mu.RLock()
	defer c.daysCache.mu.RUnlock()

	entry, exists := c.daysCache.cache.Get(dayKey{providerID: providerID, date: date})
	if !exists {
		c.logger.Debug("cache.days.get.miss", out.LogFields{
			"providerId": providerID,
			"date":       date,
		})
		return nil, false
	}

	c.logger.Debug("cache.days.get.hit", out.LogFields{
		"providerId": providerID,
		"date":       date,
		"slotsCount": len(entry.Slots),
	})

	// Копия, чтобы вызывающий не мог поменять запись в кэше
	day := *entry
	day.Slots = append([]domain.ResolvedSlot(nil), entry.Slots...)
	day.Warnings = append([]domain.ResolutionWarning(nil), entry.Warnings...)
	return &day, true
}

// Version текущее поколение барбера, его надо взять до чтения записей дня
func (c *CacheAdapter) Version(ctx context.Context, providerID string) uint64 {
	c.daysCache.mu.RLock()
	defer c.daysCache.mu.RUnlock()

	return c.daysCache.version(providerID)
}

// StoreDay кладет день, если с момента Version не было инвалидаций
func (c *CacheAdapter) StoreDay(ctx context.Context, day domain.DayResolution, version uint64) bool {
	c.daysCache.mu.Lock()
	defer c.daysCache.mu.Unlock()

	if current := c.daysCache.version(day.ProviderID); current != version {
		c.logger.Debug("cache.days.store.stale", out.LogFields{
			"providerId": day.ProviderID,
			"date":       day.Date,
			"version":    version,
			"current":    current,
		})
		return false
	}

	c.logger.Debug("cache.days.store", out.LogFields{
		"providerId": day.ProviderID,
		"date":       day.Date,
		"slotsCount": len(day.Slots),
	})

	// Копия, чтобы вызывающий не мог поменять запись в кэше
	day.Slots = append([]domain.ResolvedSlot(nil), day.Slots...)
	day.Warnings = append([]domain.ResolutionWarning(nil), day.Warnings...)
	c.daysCache.cache.Add(dayKey{providerID: day.ProviderID, date: day.Date}, &day)
	return true
}

func (c *CacheAdapter) InvalidateDay(ctx context.Context, providerID string, date json_types.Date) {
	c.daysCache.mu.Lock()
	defer c.daysCache.mu.Unlock()

	c.daysCache.generations[providerID]++
	c.daysCache.cache.Remove(dayKey{providerID: providerID, date: date})
}

func (c *CacheAdapter) InvalidateProvider(ctx context.Context, providerID string) {
	c.daysCache.mu.Lock()
	defer c.daysCache.mu.Unlock()

	c.daysCache.generations[providerID]++
	removed := 0
	for _, key := range c.daysCache.cache.Keys() {
		if key.providerID == providerID {
			c.daysCache.cache.Remove(key)
			removed++
		}
	}

	c.logger.Debug("cache.days.invalidate_provider", out.LogFields{
		"providerId": providerID,
		"removed":    removed,
	})
}

func (c *CacheAdapter) InvalidateAll(ctx context.Context) {
	c.daysCache.mu.Lock()
	defer c.daysCache.mu.Unlock()

	c.daysCache.global++
	c.daysCache.cache.Purge()
}

// оба счетчика только растут, поэтому сумма меняется при любой инвалидации
func (d *daysCache) version(providerID string) uint64 {
	return d.global + d.generations[providerID]
}

// Len количество закэшированных дней
func (c *CacheAdapter) Len() int {
	c.daysCache.mu.RLock()
	defer c.daysCache.mu.RUnlock()

	return c.daysCache.cache.Len()
}
