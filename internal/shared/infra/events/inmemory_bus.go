package events

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	sharedBus "github.com/davicafu/hexablog/internal/shared/infra/platform/bus"
)

// Message es lo que reciben los suscriptores del bus en memoria.
type Message struct {
	Key     string
	Payload []byte
}

// InMemoryBus sustituye a Kafka en local: un canal por suscriptor y topic.
type InMemoryBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Message
}

var _ sharedBus.EventBus = (*InMemoryBus)(nil)

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{subscribers: make(map[string][]chan Message)}
}

// Publish entrega a los suscriptores del topic del evento. Si un canal está lleno
// el mensaje se descarta para ese suscriptor.
func (b *InMemoryBus) Publish(ctx context.Context, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := Message{Payload: data}
	if keyer, ok := event.(sharedBus.Keyer); ok {
		msg.Key = keyer.PartitionKey()
	}
	topic := ""
	if topicer, ok := event.(sharedBus.Topicer); ok {
		topic = topicer.Topic()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe devuelve un canal con los mensajes de un topic.
func (b *InMemoryBus) Subscribe(topic string, bufferSize int) <-chan Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Message, bufferSize)
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch
}

// Consume conecta un handler a un topic del bus, igual que ConsumerAdapter con Kafka.
func (b *InMemoryBus) Consume(ctx context.Context, topic string, handler MessageHandler, log *zap.Logger) {
	ch := b.Subscribe(topic, 256)
	log.Info("🎧 Consumidor en memoria iniciado", zap.String("topic", topic))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-ch:
				handler.HandleMessage(ctx, msg.Key, msg.Payload)
			}
		}
	}()
}
