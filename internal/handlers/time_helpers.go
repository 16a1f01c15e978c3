package handlers

import (
	"time"

	"github.com/luminance-studio/studio-scheduler/internal/config"
	"github.com/luminance-studio/studio-scheduler/internal/timezone"
)

// --------------------------------------------------
// Timezone fijo del negocio: todo parseo de fecha/hora
// pasa por acá antes de cualquier comparación
// --------------------------------------------------

func businessLocation(cfg *config.Config) *time.Location {
	return timezone.Location(cfg.Timezone)
}

func businessNow(cfg *config.Config) time.Time {
	return timezone.NowIn(cfg.Timezone)
}

func parseBusinessDate(cfg *config.Config, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		businessLocation(cfg),
	)
}

func parseBusinessDateTime(cfg *config.Config, dateStr, timeStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		businessLocation(cfg),
	)
}
