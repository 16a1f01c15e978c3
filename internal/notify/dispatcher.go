package notify

import (
	"context"
	"log"
	"time"
)

// Plantillas de notificación. Se disparan en confirmed, cancelled y en el
// recordatorio previo al turno.
const (
	TemplateConfirmed = "appointment_confirmed"
	TemplateCancelled = "appointment_cancelled"
	TemplateReminder  = "appointment_reminder"
)

type Event struct {
	Template string

	Name  string
	Email string
	Phone string

	ServiceName string
	StartTime   time.Time
}

// Sender es un canal de salida (email, WhatsApp). Best-effort: un fallo se
// loguea y nunca se reintenta inline ni voltea la transición que lo disparó.
type Sender interface {
	Name() string
	Send(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	senders []Sender
	queue   chan Event
}

func NewDispatcher(senders ...Sender) *Dispatcher {
	d := &Dispatcher{
		senders: senders,
		queue:   make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		for _, s := range d.senders {
			if err := s.Send(ctx, ev); err != nil {
				log.Printf("notify %s failed (%s): %v", s.Name(), ev.Template, err)
			}
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return // notificaciones deshabilitadas
	}

	select {
	case d.queue <- ev:
	default:
		log.Println("notify queue full, dropping event")
	}
}
