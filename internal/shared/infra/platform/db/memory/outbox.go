package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
)

// Outbox es la tabla outbox de los repositorios en memoria.
type Outbox struct {
	mu     sync.Mutex
	events map[uuid.UUID]sharedDomain.OutboxEvent
}

func NewOutbox() *Outbox {
	return &Outbox{events: make(map[uuid.UUID]sharedDomain.OutboxEvent)}
}

var _ sharedDomain.OutboxRepository = (*Outbox)(nil)

func (o *Outbox) Append(evt sharedDomain.OutboxEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events[evt.ID] = evt
}

func (o *Outbox) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var pending []sharedDomain.OutboxEvent
	for _, evt := range o.events {
		if !evt.Processed {
			pending = append(pending, evt)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (o *Outbox) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	evt, ok := o.events[id]
	if !ok {
		return fmt.Errorf("no outbox event found with id %s", id)
	}
	evt.Processed = true
	o.events[id] = evt
	return nil
}

// Snapshot serializa el payload en el momento de guardar, como hacen los repos SQL:
// cambios posteriores en la entidad no alteran el evento.
func Snapshot(evt sharedDomain.OutboxEvent) sharedDomain.OutboxEvent {
	raw, err := json.Marshal(evt.Payload)
	if err != nil {
		return evt
	}
	var payload map[string]interface{}
	if json.Unmarshal(raw, &payload) == nil {
		evt.Payload = payload
	}
	return evt
}
