package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/barber-availability-engine/internal/config"
	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
)

type dayKey struct {
	providerID string
	date       json_types.Date
}

type daysCache struct {
	mu    sync.RWMutex
	cache *lru.Cache[dayKey, *domain.DayResolution]
	// поколения растут при каждой инвалидации, запись со старым поколением отбрасывается
	global      uint64
	generations map[string]uint64
}

type CacheAdapter struct {
	daysCache *daysCache
	logger    out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	lruDaysCache, err := lru.New[dayKey, *domain.DayResolution](cfg.Cache.DaysSize)
	if err != nil {
		logger.Error("cache.days.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.DaysSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		daysCache: &daysCache{cache: lruDaysCache, generations: make(map[string]uint64)},
		logger:    logger.WithModule("CacheAdapter"),
	}, nil
}
