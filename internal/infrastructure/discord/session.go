// Package discord adapta discordgo a los puertos de chat de la aplicación.
package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-notifier/internal/application/ports"
	"github.com/jhoicas/stock-notifier/internal/domain"
)

var _ ports.ChatSender = (*Session)(nil)

const inboundBufferSize = 64

// Session conexión al gateway de Discord.
// Los mensajes entrantes se publican en Messages() para que un único consumidor los procese en orden.
type Session struct {
	dg  *discordgo.Session
	log zerolog.Logger

	inbound   chan ports.InboundMessage
	ready     chan struct{}
	readyOnce sync.Once

	mu     sync.RWMutex
	selfID string
}

// New construye la sesión sin conectar. Un token vacío es un error de configuración de arranque.
func New(token string, log zerolog.Logger) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: DISCORD_TOKEN es obligatorio", domain.ErrStartupConfig)
	}
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("%w: discord: crear sesión: %v", domain.ErrStartupConfig, err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	s := &Session{
		dg:      dg,
		log:     log,
		inbound: make(chan ports.InboundMessage, inboundBufferSize),
		ready:   make(chan struct{}),
	}
	dg.AddHandler(s.onReady)
	dg.AddHandler(s.onMessageCreate)
	return s, nil
}

// Open conecta al gateway.
func (s *Session) Open() error {
	if err := s.dg.Open(); err != nil {
		return fmt.Errorf("%w: discord: abrir sesión: %v", domain.ErrStartupConfig, err)
	}
	return nil
}

// Close cierra la conexión al gateway.
func (s *Session) Close() error {
	return s.dg.Close()
}

// Messages canal de mensajes entrantes.
func (s *Session) Messages() <-chan ports.InboundMessage { return s.inbound }

// Ready se cierra cuando Discord confirma la sesión.
func (s *Session) Ready() <-chan struct{} { return s.ready }

// SendMessage implementa ports.ChatSender.
func (s *Session) SendMessage(ctx context.Context, channelID, content string) error {
	if channelID == "" {
		return fmt.Errorf("%w: canal destino vacío", domain.ErrSend)
	}
	if _, err := s.dg.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: discord: canal %s: %v", domain.ErrSend, channelID, err)
	}
	return nil
}

// VerifyChannel comprueba que el canal existe, es accesible y, si guildID no está vacío,
// pertenece a ese servidor.
func (s *Session) VerifyChannel(ctx context.Context, guildID, channelID string) error {
	ch, err := s.dg.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: canal %s inaccesible: %v", domain.ErrStartupConfig, channelID, err)
	}
	if guildID != "" && ch.GuildID != guildID {
		return fmt.Errorf("%w: el canal %s no pertenece al servidor %s", domain.ErrStartupConfig, channelID, guildID)
	}
	return nil
}

func (s *Session) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r.User != nil {
		s.mu.Lock()
		s.selfID = r.User.ID
		s.mu.Unlock()
		s.log.Info().Str("user", r.User.Username).Str("user_id", r.User.ID).Msg("bot conectado a Discord")
	}
	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *Session) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	s.mu.RLock()
	selfID := s.selfID
	s.mu.RUnlock()

	msg, ok := toInbound(m.Message, selfID)
	if !ok {
		return
	}
	select {
	case s.inbound <- msg:
	default:
		s.log.Warn().Str("channel_id", msg.ChannelID).Msg("buffer de mensajes lleno, mensaje descartado")
	}
}

// toInbound convierte un mensaje de discordgo. Retorna false si no tiene autor.
func toInbound(m *discordgo.Message, selfID string) (ports.InboundMessage, bool) {
	if m == nil || m.Author == nil {
		return ports.InboundMessage{}, false
	}
	return ports.InboundMessage{
		AuthorID:    m.Author.ID,
		AuthorIsBot: m.Author.Bot,
		FromSelf:    selfID != "" && m.Author.ID == selfID,
		ChannelID:   m.ChannelID,
		Content:     m.Content,
	}, true
}
