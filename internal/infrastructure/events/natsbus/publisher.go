package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"

	"github.com/nats-io/nats.go"
)

var _ output.EventPublisher = (*Publisher)(nil)

const DefaultSubjectPrefix = "galaxy.chat.events"

// conn is the subset of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	Flush() error
	Close()
}

type Publisher struct {
	conn   conn
	prefix string
	logger output.LoggerPort
	now    func() time.Time
}

type envelope struct {
	entity.TurnEvent
	At time.Time `json:"at"`
}

func Connect(url, prefix string, logger output.LoggerPort) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("galaxy-recommender"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("Connected to NATS", "url", url)
	return newPublisher(nc, prefix, logger), nil
}

func newPublisher(c conn, prefix string, logger output.LoggerPort) *Publisher {
	prefix = strings.TrimSuffix(prefix, ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Publisher{conn: c, prefix: prefix, logger: logger, now: time.Now}
}

// Subject returns the subject an event of type t is published on.
func (p *Publisher) Subject(t entity.EventType) string {
	return p.prefix + "." + string(t)
}

func (p *Publisher) Publish(ctx context.Context, ev entity.TurnEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(envelope{TurnEvent: ev, At: p.now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := p.Subject(ev.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", subject, err)
	}

	p.logger.Debug("Event published", "subject", subject, "id", ev.ID)
	return nil
}

// Handler adapts the publisher to the chat event callback.
func (p *Publisher) Handler() entity.EventHandler {
	return p.Publish
}

func (p *Publisher) Close() error {
	if err := p.conn.Flush(); err != nil {
		p.logger.Warn("NATS flush failed", "error", err)
	}
	p.conn.Close()
	return nil
}
