// Package queue_publisher publishes session events to RabbitMQ.  Failures
// are logged and returned; a broken broker never blocks a login or logout.
package queue_publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/restroom-web/internal/config"
	q "github.com/iliyamo/restroom-web/internal/queue"
	"github.com/iliyamo/restroom-web/internal/session"
)

// Publisher sends SessionEvents to a durable queue.
type Publisher struct {
	cfg     config.AuditConfig
	timeout time.Duration
}

// NewPublisher returns a Publisher for cfg.  Each publish opens its own
// connection; login and logout are rare enough that pooling is not needed.
func NewPublisher(cfg config.AuditConfig) *Publisher {
	return &Publisher{cfg: cfg, timeout: 5 * time.Second}
}

// Publish sends ev as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, ev q.SessionEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// EventFor converts a session transition into the wire event.
func EventFor(visitorID string, ev session.Event, at time.Time) q.SessionEvent {
	// logout events describe the user who just left
	user := ev.State.User
	if ev.Kind == session.EventLogout {
		user = ev.Prev.User
	}
	out := q.SessionEvent{
		VisitorID:  visitorID,
		Kind:       string(ev.Kind),
		Username:   user.Username(),
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
	if user != nil {
		out.UserID = user["id"]
	}
	return out
}

// Listener returns a session listener for visitorID that publishes in the
// background so the request is not held up by the broker.
func (p *Publisher) Listener(visitorID string) session.Listener {
	return func(_ context.Context, ev session.Event) {
		msg := EventFor(visitorID, ev, time.Now())
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
			defer cancel()
			if err := p.Publish(ctx, msg); err != nil {
				log.Printf("audit: publish %s for visitor %s: %v", msg.Kind, visitorID, err)
			}
		}()
	}
}
