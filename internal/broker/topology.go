package broker

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/eugenenazirov/taskconf/internal/config"
)

// ErrExchangeTypeConflict is returned when two queues bind to the same
// exchange with different exchange types.
var ErrExchangeTypeConflict = errors.New("exchange declared with conflicting types")

// Declarer is the subset of *amqp.Channel used to declare topology.
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// Declare declares every queue of the topology in name order, together with
// its exchange and binding. Queues on the default exchange ("") are declared
// without a binding.
func Declare(ch Declarer, topology config.QueueTopology) error {
	exchanges := make(map[string]string)

	for _, name := range topology.Names() {
		q := topology[name]

		if q.Exchange != "" {
			kind, seen := exchanges[q.Exchange]
			switch {
			case !seen:
				if err := ch.ExchangeDeclare(q.Exchange, q.ExchangeType, true, false, false, false, nil); err != nil {
					return fmt.Errorf("declare exchange %q: %w", q.Exchange, err)
				}
				exchanges[q.Exchange] = q.ExchangeType
			case kind != q.ExchangeType:
				return fmt.Errorf("%w: %q is %s for one queue and %s for %q", ErrExchangeTypeConflict, q.Exchange, kind, q.ExchangeType, name)
			}
		}

		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %q: %w", name, err)
		}

		if q.Exchange == "" {
			continue
		}
		if err := ch.QueueBind(name, q.RoutingKey, q.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %q to %q: %w", name, q.Exchange, err)
		}
	}
	return nil
}
