package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/openhire/jobdesk/internal/domain"
	"github.com/openhire/jobdesk/pkg/logging"
)

const broadcastQueue = "job_posted_broadcast"

// Broadcast carries job-posted events through RabbitMQ so email fan-out
// never runs inside the job-creation request.
type Broadcast struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *logging.Logger
}

// NewBroadcast connects to RabbitMQ and declares the broadcast queue
func NewBroadcast(url string, logger *logging.Logger) (*Broadcast, error) {
	if url == "" {
		return nil, fmt.Errorf("queue: amqp url is required")
	}
	if logger == nil {
		logger = logging.New("info")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("queue: connect: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("queue: open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		broadcastQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue: declare %s: %w", broadcastQueue, err)
	}

	return &Broadcast{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Publish enqueues one job-posted event
func (b *Broadcast) Publish(ctx context.Context, ev domain.JobPostedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("queue: marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = b.channel.PublishWithContext(
		pubCtx,
		"",           // default exchange
		b.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("queue: publish: %w", err)
	}
	return nil
}

// Consume delivers queued events to handler on a background goroutine
// until the channel closes. Malformed messages are logged and dropped.
func (b *Broadcast) Consume(ctx context.Context, handler func(context.Context, domain.JobPostedEvent) error) error {
	msgs, err := b.channel.Consume(
		b.queue.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue: register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			var ev domain.JobPostedEvent
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				b.logger.Warn("dropping malformed broadcast message", "err", err)
				continue
			}
			if err := handler(ctx, ev); err != nil {
				b.logger.Error("broadcast delivery failed", "job_id", ev.JobID, "err", err)
			}
		}
	}()

	return nil
}

// Close tears down the channel and connection
func (b *Broadcast) Close() error {
	if b.channel != nil {
		_ = b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
