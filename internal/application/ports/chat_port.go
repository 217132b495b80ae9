package ports

import "context"

// ChatSender define el puerto de salida hacia la plataforma de chat.
// Los fallos deben envolver domain.ErrSend.
type ChatSender interface {
	SendMessage(ctx context.Context, channelID, content string) error
}

// InboundMessage mensaje entrante de la plataforma de chat, independiente del proveedor.
type InboundMessage struct {
	AuthorID    string
	AuthorIsBot bool
	// FromSelf true si el autor es el propio bot.
	FromSelf  bool
	ChannelID string
	Content   string
}
