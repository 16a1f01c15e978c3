package booking

import (
	"time"

	"github.com/luminance-studio/studio-scheduler/internal/models"
)

// Window es la ventana de atención efectiva de un día, ya combinada con la
// fecha en el timezone del negocio.
type Window struct {
	Open  time.Time
	Close time.Time
}

func (w Window) Duration() time.Duration {
	return w.Close.Sub(w.Open)
}

// CombineHM arma un time.Time con la fecha de date y la hora "15:04",
// en la location de date.
func CombineHM(date time.Time, hm string) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	), true
}

// EffectiveWindow resuelve la ventana de un día. Orden: override de la fecha
// (incluido el bloqueo total) → regla semanal activa → cerrado.
// rule y override pueden ser nil (no existe fila).
func EffectiveWindow(
	date time.Time,
	rule *models.WeeklyAvailability,
	override *models.AvailabilityOverride,
) (Window, bool) {

	if override != nil {
		if override.Blocked {
			return Window{}, false
		}
		return windowFromHM(date, override.StartTime, override.EndTime)
	}

	if rule == nil || !rule.Active {
		return Window{}, false
	}

	return windowFromHM(date, rule.StartTime, rule.EndTime)
}

func windowFromHM(date time.Time, startHM, endHM string) (Window, bool) {
	open, ok := CombineHM(date, startHM)
	if !ok {
		return Window{}, false
	}
	close, ok := CombineHM(date, endHM)
	if !ok {
		return Window{}, false
	}
	if !open.Before(close) {
		return Window{}, false
	}
	return Window{Open: open, Close: close}, true
}
