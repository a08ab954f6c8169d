package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/eric-kaloki/server-medconnect/internal/config"
)

func loggerConfig(level, format string) config.Config {
	return config.Config{
		Service: &config.ServiceConfig{Name: "test", Env: "test"},
		Logger:  &config.LoggerConfig{Level: level, Format: format},
	}
}

func TestNewLoggerLevelIsCaseInsensitive(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{"DEBUG", slog.LevelDebug, slog.LevelDebug - 4},
		{"debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"WARN", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"", slog.LevelInfo, slog.LevelDebug},
		{"garbage", slog.LevelInfo, slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			log := NewLogger(loggerConfig(tt.level, "JSON"))
			ctx := context.Background()
			if !log.Handler().Enabled(ctx, tt.enabled) {
				t.Errorf("level %q: %v not enabled", tt.level, tt.enabled)
			}
			if log.Handler().Enabled(ctx, tt.muted) {
				t.Errorf("level %q: %v unexpectedly enabled", tt.level, tt.muted)
			}
		})
	}
}
