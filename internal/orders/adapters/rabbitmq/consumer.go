// Package rabbitmq adapts the external order feed to the ingestion use
// case: queue topology, the inbound message schema, and a worker-pool
// consumer with dead-letter semantics for deliveries that can never
// succeed.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/domain"
)

// Processor is the ingestion entry point the consumer drives; satisfied
// by usecase.ProcessOrder.
type Processor interface {
	Execute(ctx context.Context, order *domain.Order) error
}

// Consumer reads order messages off the queue and hands them to the
// processor through a pool of workers. Different orders are processed
// concurrently with no ordering guarantee between them; the steps within
// one message stay strictly sequential inside a single worker.
type Consumer struct {
	ch        *amqp.Channel
	queue     string
	workers   int
	processor Processor
	tracer    trace.Tracer
}

// NewConsumer builds a consumer with the given degree of parallelism.
// workers below 1 are clamped to 1.
func NewConsumer(ch *amqp.Channel, queue string, workers int, processor Processor) *Consumer {
	if workers < 1 {
		workers = 1
	}
	return &Consumer{
		ch:        ch,
		queue:     queue,
		workers:   workers,
		processor: processor,
		tracer:    otel.Tracer("orders-consumer"),
	}
}

// Run consumes until ctx is cancelled, then cancels the subscription,
// drains in-flight deliveries and returns. Prefetch is bounded to the
// worker count so the broker never buffers more unacked work than the
// pool can hold.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ch.Qos(c.workers, 0, false); err != nil {
		return fmt.Errorf("rabbitmq: set qos: %w", err)
	}

	tag := "orders-consumer-" + uuid.NewString()[:8]
	deliveries, err := c.ch.Consume(c.queue, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume %q: %w", c.queue, err)
	}

	slog.InfoContext(ctx, "consumer started", "queue", c.queue, "workers", c.workers, "tag", tag)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range deliveries {
				c.handle(ctx, d)
			}
		}()
	}

	<-ctx.Done()

	// Cancel stops new deliveries; the broker closes the channel after
	// the in-flight ones, which lets the workers drain and exit.
	if err := c.ch.Cancel(tag, false); err != nil {
		slog.ErrorContext(ctx, "consumer cancel failed", "error", err)
	}
	wg.Wait()

	slog.InfoContext(ctx, "consumer stopped", "queue", c.queue)
	return nil
}

// handle processes one delivery end to end and settles it exactly once.
//
// Ack on success, including the duplicate-delivery no-op. Failures split
// by whether a retry can ever help: undecodable, malformed and invalid
// messages are rejected without requeue and dead-letter immediately,
// while transient failures (store down, shutdown mid-flight) are
// requeued so the broker redelivers the message.
func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	ctx, span := c.tracer.Start(ctx, "process order message")
	defer span.End()

	var msg OrderMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		slog.ErrorContext(ctx, "undecodable order message", "error", err)
		span.SetStatus(codes.Error, "undecodable message")
		c.reject(ctx, d)
		return
	}

	order, err := msg.ToDomain()
	if err != nil {
		slog.ErrorContext(ctx, "malformed order message", "error", err)
		span.SetStatus(codes.Error, "malformed message")
		c.reject(ctx, d)
		return
	}

	if order != nil {
		span.SetAttributes(
			attribute.Int64("order.id", order.OrderID),
			attribute.Int64("order.customer_id", order.CustomerID),
		)
		slog.InfoContext(ctx, "received order message",
			"order_id", order.OrderID, "customer_id", order.CustomerID)
	}

	if err := c.processor.Execute(ctx, order); err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, domain.ErrInvalidOrder) {
			slog.ErrorContext(ctx, "order rejected", "error", err)
			c.reject(ctx, d)
			return
		}
		slog.ErrorContext(ctx, "order processing failed, requeueing", "error", err)
		c.requeue(ctx, d)
		return
	}

	if err := d.Ack(false); err != nil {
		slog.ErrorContext(ctx, "ack failed", "error", err)
	}
}

func (c *Consumer) reject(ctx context.Context, d amqp.Delivery) {
	// requeue=false: the broker dead-letters the message.
	if err := d.Nack(false, false); err != nil {
		slog.ErrorContext(ctx, "nack failed", "error", err)
	}
}

func (c *Consumer) requeue(ctx context.Context, d amqp.Delivery) {
	if err := d.Nack(false, true); err != nil {
		slog.ErrorContext(ctx, "nack failed", "error", err)
	}
}
