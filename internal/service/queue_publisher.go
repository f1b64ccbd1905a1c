// Package queue_publisher publishes domain events to RabbitMQ.  Errors are
// logged and returned so callers may ignore them without interrupting the
// request flow.
package queue_publisher

import (
	"context"
	"net"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/bookmyshow/internal/logging"
	q "github.com/iliyamo/bookmyshow/internal/queue"
)

// dialTimeout bounds connecting and the AMQP handshake when ctx carries
// no earlier deadline.
const dialTimeout = 5 * time.Second

// Publisher dials the broker at URL for every event.  Bookings are rare
// enough that a pooled connection is not worth its reconnect handling.
type Publisher struct {
	URL string
}

// New returns a Publisher for url.
func New(url string) *Publisher { return &Publisher{URL: url} }

// PublishBookingConfirmed publishes ev to the "booking.confirmed" queue as
// a persistent message.  A Publisher without URL drops the event.
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, ev q.BookingConfirmedEvent) error {
	log := logging.Ctx(ctx)
	if p == nil || p.URL == "" {
		log.Debug().Uint64("booking_id", ev.BookingID).Msg("rabbitmq: no broker configured, event dropped")
		return nil
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      dialContext(ctx),
	})
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.BookingConfirmedQueue, // name
		true,                    // durable
		false,                   // autoDelete
		false,                   // exclusive
		false,                   // noWait
		nil,                     // args
	); err != nil {
		log.Warn().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                      // default exchange
		q.BookingConfirmedQueue, // routing key = queue name
		false,                   // mandatory
		false,                   // immediate
		pub,
	); err != nil {
		log.Warn().Err(err).Msg("rabbitmq: publish failed")
		return err
	}
	log.Info().Uint64("booking_id", ev.BookingID).Msg("rabbitmq: booking.confirmed published")
	return nil
}

// dialContext returns an amqp dialer bound to ctx.  The connection
// deadline covers the handshake; amqp clears it once the connection is
// open.
func dialContext(ctx context.Context) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		deadline := time.Now().Add(dialTimeout)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
		dialer := net.Dialer{Deadline: deadline}
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return conn, nil
	}
}
