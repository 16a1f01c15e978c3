package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = func() *time.Location {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		panic(err)
	}
	return loc
}()

// lunes 2026-03-02
func monday(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, testLoc)
}

func testPolicy() SlotPolicy {
	return SlotPolicy{
		Step:       30 * time.Minute,
		MinAdvance: 2 * time.Hour,
		MaxAdvance: 30 * 24 * time.Hour,
	}
}

func TestGenerateSlots_FullDay(t *testing.T) {
	window := Window{Open: monday(9, 0), Close: monday(17, 0)}
	now := monday(7, 0)

	slots := GenerateSlots(window, time.Hour, testPolicy(), now, nil)

	// cada 30 min desde las 09:00; el último inicio que entra con 60 min
	// antes de las 17:00 es 16:00
	require.Len(t, slots, 15)
	assert.True(t, slots[0].Start.Equal(monday(9, 0)))
	assert.True(t, slots[len(slots)-1].Start.Equal(monday(16, 0)))

	for i := 1; i < len(slots); i++ {
		assert.Equal(t, 30*time.Minute, slots[i].Start.Sub(slots[i-1].Start))
	}
}

func TestGenerateSlots_BusyIntervalRemovesOverlapping(t *testing.T) {
	window := Window{Open: monday(9, 0), Close: monday(17, 0)}
	now := monday(7, 0)
	busy := []Interval{{Start: monday(10, 0), End: monday(11, 0)}}

	slots := GenerateSlots(window, time.Hour, testPolicy(), now, busy)

	// un turno de 60 min que arranca 09:30, 10:00 o 10:30 pisa el ocupado
	starts := startSet(slots)
	assert.NotContains(t, starts, monday(9, 30))
	assert.NotContains(t, starts, monday(10, 0))
	assert.NotContains(t, starts, monday(10, 30))

	// los bordes semiabiertos quedan: terminar 10:00 o arrancar 11:00 no pisa
	assert.Contains(t, starts, monday(9, 0))
	assert.Contains(t, starts, monday(11, 0))
}

func TestGenerateSlots_MinAdvanceCutsEarlySlots(t *testing.T) {
	window := Window{Open: monday(9, 0), Close: monday(17, 0)}
	now := monday(8, 0) // con 2h de anticipación mínima, nada antes de las 10:00

	slots := GenerateSlots(window, time.Hour, testPolicy(), now, nil)

	require.NotEmpty(t, slots)
	assert.True(t, slots[0].Start.Equal(monday(10, 0)))
}

func TestGenerateSlots_MaxAdvanceCutsFarSlots(t *testing.T) {
	window := Window{Open: monday(9, 0), Close: monday(17, 0)}
	now := monday(9, 0).AddDate(0, 0, -31) // la ventana queda fuera del horizonte

	slots := GenerateSlots(window, time.Hour, testPolicy(), now, nil)

	assert.Empty(t, slots)
}

func TestGenerateSlots_ServiceLongerThanWindow(t *testing.T) {
	window := Window{Open: monday(9, 0), Close: monday(10, 0)}
	now := monday(6, 0)

	slots := GenerateSlots(window, 2*time.Hour, testPolicy(), now, nil)

	assert.Empty(t, slots)
}

func TestGenerateSlots_ZeroDuration(t *testing.T) {
	window := Window{Open: monday(9, 0), Close: monday(17, 0)}

	assert.Empty(t, GenerateSlots(window, 0, testPolicy(), monday(7, 0), nil))
}

func TestOverlaps_HalfOpen(t *testing.T) {
	a := Interval{Start: monday(10, 0), End: monday(11, 0)}

	assert.True(t, a.Overlaps(Interval{Start: monday(10, 30), End: monday(11, 30)}))
	assert.True(t, a.Overlaps(Interval{Start: monday(9, 30), End: monday(10, 30)}))
	assert.True(t, a.Overlaps(Interval{Start: monday(9, 0), End: monday(12, 0)}))

	// tocarse en el borde no es superponerse
	assert.False(t, a.Overlaps(Interval{Start: monday(11, 0), End: monday(12, 0)}))
	assert.False(t, a.Overlaps(Interval{Start: monday(9, 0), End: monday(10, 0)}))
}

func TestContainsStart(t *testing.T) {
	slots := []Interval{
		{Start: monday(9, 0), End: monday(10, 0)},
		{Start: monday(9, 30), End: monday(10, 30)},
	}

	assert.True(t, ContainsStart(slots, monday(9, 30)))
	assert.False(t, ContainsStart(slots, monday(9, 15)))
	assert.False(t, ContainsStart(nil, monday(9, 0)))
}

func startSet(slots []Interval) []time.Time {
	out := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start)
	}
	return out
}
