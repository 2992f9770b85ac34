package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Topology names the broker resources the consumer depends on.
type Topology struct {
	Queue              string
	Exchange           string
	RoutingKey         string
	DeadLetterQueue    string
	DeadLetterExchange string
}

// deadLetterRoutingKey is the fixed key failed deliveries are published
// under on the dead-letter exchange.
const deadLetterRoutingKey = "failed"

// Declare sets up the durable orders queue with its dead-letter wiring.
// All declarations are idempotent, so every instance can run this at
// startup regardless of which one came first.
func Declare(ch *amqp.Channel, t Topology) error {
	if err := ch.ExchangeDeclare(t.Exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare exchange %q: %w", t.Exchange, err)
	}
	if err := ch.ExchangeDeclare(t.DeadLetterExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare exchange %q: %w", t.DeadLetterExchange, err)
	}

	// Rejected deliveries are re-routed by the broker to the DLX; the
	// consumer itself never publishes.
	_, err := ch.QueueDeclare(t.Queue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    t.DeadLetterExchange,
		"x-dead-letter-routing-key": deadLetterRoutingKey,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: declare queue %q: %w", t.Queue, err)
	}

	if _, err := ch.QueueDeclare(t.DeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare queue %q: %w", t.DeadLetterQueue, err)
	}

	if err := ch.QueueBind(t.Queue, t.RoutingKey, t.Exchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind queue %q: %w", t.Queue, err)
	}
	if err := ch.QueueBind(t.DeadLetterQueue, deadLetterRoutingKey, t.DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind queue %q: %w", t.DeadLetterQueue, err)
	}

	return nil
}
