package booking

import "time"

// Interval es un intervalo semiabierto [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps usa la comparación semiabierta: dos turnos que se tocan en el
// borde (end == start) no se superponen.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

// SlotPolicy son los knobs de negocio. Tienen que ser idénticos entre el
// cálculo de disponibilidad y la re-validación de la reserva.
type SlotPolicy struct {
	Step       time.Duration
	MinAdvance time.Duration
	MaxAdvance time.Duration
}

// GenerateSlots calcula los inicios reservables de una ventana. Función pura:
// mismo input, mismo output, en orden cronológico.
//
//  1. candidatos cada Step desde Open hasta Close-duration inclusive
//  2. descarta los anteriores a now+MinAdvance y posteriores a now+MaxAdvance
//  3. descarta los que se superponen con algún intervalo ocupado
//
// Un servicio más largo que la ventana da una lista vacía, no un error.
func GenerateSlots(
	window Window,
	duration time.Duration,
	pol SlotPolicy,
	now time.Time,
	busy []Interval,
) []Interval {

	if duration <= 0 {
		return nil
	}

	minStart := now.Add(pol.MinAdvance)
	maxStart := now.Add(pol.MaxAdvance)

	var slots []Interval

	for cur := window.Open; !cur.Add(duration).After(window.Close); cur = cur.Add(pol.Step) {

		if cur.Before(minStart) {
			continue
		}
		if pol.MaxAdvance > 0 && cur.After(maxStart) {
			continue
		}

		candidate := Interval{Start: cur, End: cur.Add(duration)}

		conflict := false
		for _, b := range busy {
			if candidate.Overlaps(b) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, candidate)
		}
	}

	return slots
}

// ContainsStart informa si start es exactamente uno de los slots generados.
// La reserva usa esto para re-validar adentro de la transacción en vez de
// confiar en la lista que vio el cliente.
func ContainsStart(slots []Interval, start time.Time) bool {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return true
		}
	}
	return false
}
