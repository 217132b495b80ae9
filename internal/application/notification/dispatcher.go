// Package notification arma y entrega los mensajes de stock a la plataforma de chat.
//
// Todas las solicitudes (comando o temporizador) pasan por la cola del Dispatcher y son
// atendidas por un único consumidor, de modo que los envíos a un canal nunca se intercalan.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-notifier/internal/application/ports"
	"github.com/jhoicas/stock-notifier/internal/domain"
	"github.com/jhoicas/stock-notifier/internal/domain/entity"
)

// ErrDispatcherStopped el consumidor de la cola ya terminó.
var ErrDispatcherStopped = errors.New("dispatcher detenido")

// Trigger origen de una solicitud de broadcast.
type Trigger int

const (
	// TriggerOnDemand solicitado por un comando; los fallos se notifican al canal de origen.
	TriggerOnDemand Trigger = iota
	// TriggerScheduled solicitado por el temporizador; los fallos solo se registran.
	TriggerScheduled
)

func (t Trigger) String() string {
	switch t {
	case TriggerOnDemand:
		return "on_demand"
	case TriggerScheduled:
		return "scheduled"
	default:
		return "unknown"
	}
}

// Broadcaster lo que necesitan el listener y el scheduler del dispatcher.
type Broadcaster interface {
	Broadcast(ctx context.Context, channelID string, trigger Trigger) error
}

// Config opciones del dispatcher.
type Config struct {
	Header         string // primera línea del mensaje, ej. "📦 Stock:"
	FailureMessage string // respuesta fija ante fallos de un comando
	// MaxMessageLength límite de caracteres por mensaje; 0 = sin límite.
	MaxMessageLength int
	QueueSize        int
}

type request struct {
	ctx       context.Context
	id        string
	channelID string
	trigger   Trigger
	done      chan error
}

// Dispatcher obtiene el snapshot, lo formatea y lo envía al canal destino.
type Dispatcher struct {
	source  ports.SnapshotSource
	sender  ports.ChatSender
	cfg     Config
	log     zerolog.Logger
	queue   chan *request
	stopped chan struct{}
}

var _ Broadcaster = (*Dispatcher)(nil)

// NewDispatcher construye el dispatcher. Run debe ejecutarse para que las solicitudes se atiendan.
func NewDispatcher(source ports.SnapshotSource, sender ports.ChatSender, cfg Config, log zerolog.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	return &Dispatcher{
		source:  source,
		sender:  sender,
		cfg:     cfg,
		log:     log,
		queue:   make(chan *request, cfg.QueueSize),
		stopped: make(chan struct{}),
	}
}

// Run atiende la cola hasta que ctx se cancela.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-d.queue:
			req.done <- d.process(req)
		}
	}
}

// Broadcast encola una solicitud y espera a que termine (éxito o fallo).
func (d *Dispatcher) Broadcast(ctx context.Context, channelID string, trigger Trigger) error {
	req := &request{
		ctx:       ctx,
		id:        uuid.New().String(),
		channelID: channelID,
		trigger:   trigger,
		done:      make(chan error, 1),
	}
	select {
	case d.queue <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		return ErrDispatcherStopped
	}
	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		return ErrDispatcherStopped
	}
}

func (d *Dispatcher) process(req *request) error {
	ctx := req.ctx
	if err := ctx.Err(); err != nil {
		return err
	}
	log := d.log.With().
		Str("request_id", req.id).
		Str("trigger", req.trigger.String()).
		Str("channel_id", req.channelID).
		Logger()

	snap, err := d.source.Snapshot(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrFetch) {
			err = fmt.Errorf("%w: %v", domain.ErrFetch, err)
		}
		return d.fail(ctx, log, req, err)
	}

	for _, chunk := range splitMessage(d.compose(snap), d.cfg.MaxMessageLength) {
		if err := d.sender.SendMessage(ctx, req.channelID, chunk); err != nil {
			if !errors.Is(err, domain.ErrSend) {
				err = fmt.Errorf("%w: %v", domain.ErrSend, err)
			}
			return d.fail(ctx, log, req, err)
		}
	}

	log.Info().Int("items", snap.Len()).Msg("stock enviado")
	return nil
}

// compose antepone el encabezado al snapshot formateado.
func (d *Dispatcher) compose(snap entity.Snapshot) string {
	body := snap.Format()
	if body == "" {
		return d.cfg.Header
	}
	if d.cfg.Header == "" {
		return body
	}
	return d.cfg.Header + "\n" + body
}

// fail registra el error y, si el origen fue un comando, responde con el mensaje fijo. Sin reintentos.
func (d *Dispatcher) fail(ctx context.Context, log zerolog.Logger, req *request, err error) error {
	log.Error().Err(err).Msg("broadcast fallido")
	if req.trigger == TriggerOnDemand && d.cfg.FailureMessage != "" {
		if sendErr := d.sender.SendMessage(ctx, req.channelID, d.cfg.FailureMessage); sendErr != nil {
			log.Error().Err(sendErr).Msg("no se pudo notificar el fallo al canal de origen")
		}
	}
	return err
}
