package worker

import (
	"context"
	"log"
	"time"

	"github.com/luminance-studio/studio-scheduler/internal/config"
	"github.com/luminance-studio/studio-scheduler/internal/timezone"
	ucbooking "github.com/luminance-studio/studio-scheduler/internal/usecase/booking"
)

// ======================================================
// Scheduler corre los barridos de ciclo de vida:
//   - cada minuto: expirar pending sin pago
//   - cada hora: completar confirmados pasados y
//     mandar recordatorios
// Todos son idempotentes, no importa si un tick se pisa
// con un deploy o corre dos veces.
// ======================================================

const (
	expireEvery = 1 * time.Minute
	hourlyEvery = 1 * time.Hour
)

type Scheduler struct {
	sweep *ucbooking.LifecycleSweep
	cfg   *config.Config
}

func NewScheduler(sweep *ucbooking.LifecycleSweep, cfg *config.Config) *Scheduler {
	return &Scheduler{sweep: sweep, cfg: cfg}
}

func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx, expireEvery, s.expirePending)
	go s.loop(ctx, hourlyEvery, s.hourly)
}

func (s *Scheduler) loop(ctx context.Context, every time.Duration, tick func(context.Context)) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			tick(ctx)
		}
	}
}

func (s *Scheduler) now() time.Time {
	return timezone.NowIn(s.cfg.Timezone)
}

func (s *Scheduler) expirePending(ctx context.Context) {
	n, err := s.sweep.ExpirePending(ctx, s.now())
	if err != nil {
		log.Println("sweep expire pending:", err)
		return
	}
	if n > 0 {
		log.Printf("sweep: %d turnos pending expirados", n)
	}
}

func (s *Scheduler) hourly(ctx context.Context) {
	now := s.now()

	if n, err := s.sweep.CompleteFinished(ctx, now); err != nil {
		log.Println("sweep complete finished:", err)
	} else if n > 0 {
		log.Printf("sweep: %d turnos completados", n)
	}

	if n, err := s.sweep.SendReminders(ctx, now); err != nil {
		log.Println("sweep reminders:", err)
	} else if n > 0 {
		log.Printf("sweep: %d recordatorios enviados", n)
	}
}
