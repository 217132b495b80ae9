package notification

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-notifier/internal/application/ports"
)

// State estado del listener de comandos.
type State int32

const (
	StateIdle State = iota
	StateDispatching
)

func (s State) String() string {
	if s == StateDispatching {
		return "dispatching"
	}
	return "idle"
}

// Listener atiende los mensajes entrantes de a uno y dispara un broadcast bajo demanda
// cuando el contenido es exactamente el comando configurado.
type Listener struct {
	command string
	b       Broadcaster
	log     zerolog.Logger
	state   atomic.Int32
}

// NewListener construye el listener para el comando dado (ej. "!stock").
func NewListener(command string, b Broadcaster, log zerolog.Logger) *Listener {
	return &Listener{command: command, b: b, log: log}
}

// State estado actual.
func (l *Listener) State() State { return State(l.state.Load()) }

// Handle procesa un mensaje de forma síncrona. Retorna true si disparó un broadcast.
// Los mensajes del propio bot (o de otros bots) se ignoran para evitar bucles.
func (l *Listener) Handle(ctx context.Context, msg ports.InboundMessage) bool {
	if msg.FromSelf || msg.AuthorIsBot {
		return false
	}
	if msg.Content != l.command {
		return false
	}

	l.state.Store(int32(StateDispatching))
	defer l.state.Store(int32(StateIdle))

	if err := l.b.Broadcast(ctx, msg.ChannelID, TriggerOnDemand); err != nil {
		l.log.Warn().
			Err(err).
			Str("author_id", msg.AuthorID).
			Str("channel_id", msg.ChannelID).
			Msg("comando atendido con error")
	}
	return true
}

// Run consume events hasta que ctx se cancela o el canal se cierra.
func (l *Listener) Run(ctx context.Context, events <-chan ports.InboundMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			l.Handle(ctx, msg)
		}
	}
}
