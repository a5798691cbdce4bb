package mail

import (
	"context"
	"log/slog"
)

// Message is a rendered mail ready for a provider.
type Message struct {
	From    string
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Provider delivers one message. Implementations must be safe for
// concurrent use by the workers.
type Provider interface {
	Send(ctx context.Context, m Message) error
}

// LogProvider logs messages instead of sending them. It is used when no
// provider is configured.
type LogProvider struct {
	Logger *slog.Logger
}

func (p *LogProvider) Send(_ context.Context, m Message) error {
	p.Logger.Info("mail provider not configured, mail logged only",
		"from", m.From,
		"to", m.To,
		"subject", m.Subject,
		"bytes", len(m.HTML),
	)
	return nil
}
