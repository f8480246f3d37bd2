package logger

import (
	"strings"

	"github.com/suchimauz/barber-availability-engine/internal/config"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
)

const FormatJSON = "json"

// NewLogger console для локального запуска, zap JSON при LOG_FORMAT=json
func NewLogger(cfg *config.Config) (out.LoggerPort, error) {
	level := out.ParseLogLevel(cfg.Log.Level)

	if strings.EqualFold(cfg.Log.Format, FormatJSON) {
		zapLogger, err := NewZapLogger(level)
		if err != nil {
			return nil, err
		}
		return zapLogger.WithFields(out.LogFields{
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
		}), nil
	}

	return NewConsoleLogger(cfg.App.Timezone, level), nil
}
