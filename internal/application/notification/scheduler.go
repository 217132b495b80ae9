package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler dispara un broadcast al canal configurado cada interval.
// Un tick que llega mientras el anterior sigue en curso se descarta (comportamiento de time.Ticker).
type Scheduler struct {
	b         Broadcaster
	channelID string
	interval  time.Duration
	log       zerolog.Logger
}

// NewScheduler construye el scheduler.
func NewScheduler(b Broadcaster, channelID string, interval time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{b: b, channelID: channelID, interval: interval, log: log}
}

// Run bloquea hasta que ctx se cancela. Con interval <= 0 o sin canal retorna de inmediato.
func (s *Scheduler) Run(ctx context.Context) {
	if s.interval <= 0 || s.channelID == "" {
		s.log.Info().Msg("broadcast programado deshabilitado")
		return
	}
	s.log.Info().
		Str("channel_id", s.channelID).
		Dur("interval", s.interval).
		Msg("broadcast programado iniciado")

	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			// El dispatcher ya registró el detalle del fallo.
			if err := s.b.Broadcast(ctx, s.channelID, TriggerScheduled); err != nil && ctx.Err() == nil {
				s.log.Debug().Err(err).Msg("tick programado sin éxito")
			}
		}
	}
}
