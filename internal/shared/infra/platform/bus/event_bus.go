package bus

import "context"

// Keyer lo implementan los eventos que saben su clave de partición.
type Keyer interface {
	PartitionKey() string
}

// EventBus publica eventos; el topic y el formato los decide cada adapter.
type EventBus interface {
	Publish(ctx context.Context, event interface{}) error
}

// Topicer lo implementan los eventos que indican su topic.
type Topicer interface {
	Topic() string
}
