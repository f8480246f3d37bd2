package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/barber-availability-engine/internal/adapters/in/http"
	"github.com/suchimauz/barber-availability-engine/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/barber-availability-engine/internal/adapters/out/cache"
	"github.com/suchimauz/barber-availability-engine/internal/adapters/out/logger"
	"github.com/suchimauz/barber-availability-engine/internal/adapters/out/memory"
	"github.com/suchimauz/barber-availability-engine/internal/adapters/out/recordstore"
	"github.com/suchimauz/barber-availability-engine/internal/config"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
	"github.com/suchimauz/barber-availability-engine/internal/core/services/availability_service"
	"github.com/suchimauz/barber-availability-engine/internal/core/services/booking_service"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	rootLogger, err := logger.NewLogger(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := rootLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":           cfg.App.Version,
		"env":               cfg.App.Env,
		"timezone":          cfg.App.Timezone,
		"recordStoreDriver": cfg.RecordStore.Driver,
		"rabbitmqEnabled":   cfg.RabbitMQ.Enabled,
		"cacheEnabled":      cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	var recordStore out.RecordStorePort
	switch cfg.RecordStore.Driver {
	case config.RecordStoreDriverMemory:
		recordStore = memory.NewRecordStore(rootLogger)
	case config.RecordStoreDriverHTTP:
		if cfg.RecordStore.URL == "" {
			log.Error("app.record_store.url_missing", out.LogFields{})
			os.Exit(1)
		}
		recordStore = recordstore.NewRecordStoreAdapter(cfg, rootLogger)
	default:
		log.Error("app.record_store.unknown_driver", out.LogFields{
			"driver": cfg.RecordStore.Driver,
		})
		os.Exit(1)
	}

	var dayCache out.DayCachePort
	if cfg.Cache.Enabled {
		cacheAdapter, err := cache.NewCacheAdapter(cfg, rootLogger)
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		dayCache = cacheAdapter
	}

	// Инициализация сервисов
	availabilityService := availability_service.NewAvailabilityService(recordStore, dayCache, cfg, rootLogger)
	bookingService := booking_service.NewBookingService(recordStore, availabilityService, cfg, rootLogger)

	// Настройка HTTP сервера
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.IsLocal() {
		router.Use(gin.Logger())
	}
	controller := http.NewAvailabilityController(availabilityService, bookingService, cfg, rootLogger)
	controller.RegisterRoutes(router)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Настройка RabbitMQ слушателя только если он включен
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewRecordChangeListener(availabilityService, cfg, rootLogger)
		if err != nil {
			log.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			log.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				log.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	server := &nethttp.Server{
		Addr:              cfg.HTTP.Host + ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("app.http.shutdown_failed", out.LogFields{
			"error": err.Error(),
		})
	}

	if syncer, ok := rootLogger.(interface{ Sync() error }); ok {
		_ = syncer.Sync()
	}
}
