// Package notify fans document events out to NATS so other systems can react
// to uploads, downloads, cancellations and archivals.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"docport/internal/model"
)

// publisher is the subset of *nats.Conn used here.
type publisher interface {
	Publish(subject string, data []byte) error
}

// Publisher publishes each document event as JSON on <subject>.<action>.
type Publisher struct {
	conn    publisher
	close   func()
	subject string
}

// Options tunes the NATS connection.
type Options struct {
	Name          string
	Timeout       time.Duration
	ReconnectWait time.Duration
	MaxReconnects int
}

// Connect dials url and returns a Publisher for subject.
func Connect(url, subject string, opts Options, log zerolog.Logger) (*Publisher, error) {
	if opts.Name == "" {
		opts.Name = "docport"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	if opts.ReconnectWait <= 0 {
		opts.ReconnectWait = 2 * time.Second
	}
	if opts.MaxReconnects <= 0 {
		opts.MaxReconnects = 60
	}

	conn, err := nats.Connect(
		url,
		nats.Name(opts.Name),
		nats.Timeout(opts.Timeout),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Str("component", "notify").Str("event", "nats_disconnected").Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("component", "notify").Str("event", "nats_reconnected").Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{conn: conn, close: conn.Close, subject: subject}, nil
}

// Subject returns the subject an event with action is published on.
func (p *Publisher) Subject(action model.Action) string {
	return p.subject + "." + strings.ToLower(string(action))
}

// Publish sends ev. NATS core publishing is fire-and-forget, so the context
// is only checked before the write.
func (p *Publisher) Publish(ctx context.Context, ev model.DocumentEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.conn.Publish(p.Subject(ev.Action), data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

// Close drops the connection.
func (p *Publisher) Close() {
	if p.close != nil {
		p.close()
	}
}
