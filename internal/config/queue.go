package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/go-viper/mapstructure/v2"
)

// QueueDefinition binds a consumer queue to an exchange.
type QueueDefinition struct {
	Name         string `mapstructure:"-" yaml:"-"`
	Exchange     string `mapstructure:"exchange" yaml:"exchange"`
	ExchangeType string `mapstructure:"exchange_type" yaml:"exchange_type"`
	RoutingKey   string `mapstructure:"routing_key" yaml:"routing_key"`
}

// QueueTopology maps queue names to their definitions.
type QueueTopology map[string]QueueDefinition

// Names returns the queue names in sorted order.
func (t QueueTopology) Names() []string {
	return slices.Sorted(maps.Keys(t))
}

func (t QueueTopology) clone() QueueTopology {
	return maps.Clone(t)
}

func defaultTopology(queue, exchange, exchangeType, routingKey string) QueueTopology {
	return QueueTopology{
		queue: {
			Name:         queue,
			Exchange:     exchange,
			ExchangeType: exchangeType,
			RoutingKey:   routingKey,
		},
	}
}

// decodeTopology accepts a typed topology or a generic mapping as produced
// by YAML and environment sources.
func decodeTopology(raw any) (QueueTopology, error) {
	var topology QueueTopology
	switch v := raw.(type) {
	case QueueTopology:
		topology = v.clone()
	case map[string]QueueDefinition:
		topology = maps.Clone(v)
	default:
		decoded := make(QueueTopology)
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			ErrorUnused: true,
			Result:      &decoded,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(raw); err != nil {
			return nil, fmt.Errorf("decode queues: %w", err)
		}
		topology = decoded
	}

	if len(topology) == 0 {
		return nil, errors.New("queue topology must define at least one queue")
	}
	for name, def := range topology {
		if name == "" {
			return nil, errors.New("queue name must not be empty")
		}
		if def.ExchangeType == "" {
			return nil, fmt.Errorf("queue %q: exchange_type must not be empty", name)
		}
		def.Name = name
		topology[name] = def
	}
	return topology, nil
}
