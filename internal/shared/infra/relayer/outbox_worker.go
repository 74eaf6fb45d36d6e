package relayer

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedEvents "github.com/davicafu/hexablog/internal/shared/domain/events"
	sharedBus "github.com/davicafu/hexablog/internal/shared/infra/platform/bus"
	"github.com/davicafu/hexablog/internal/shared/infra/utils"
)

const (
	publishAttempts = 3
	publishDelay    = 50 * time.Millisecond
)

// Worker procesa eventos pendientes de la tabla outbox de forma genérica.
type Worker struct {
	repo          sharedDomain.OutboxRepository
	publisher     sharedBus.EventBus
	eventRegistry sharedEvents.Registry
	interval      time.Duration
	batchSize     int
	log           *zap.Logger
}

func NewOutboxWorker(
	repo sharedDomain.OutboxRepository,
	publisher sharedBus.EventBus,
	registry sharedEvents.Registry,
	interval time.Duration,
	batchSize int,
	log *zap.Logger,
) *Worker {
	return &Worker{
		repo:          repo,
		publisher:     publisher,
		eventRegistry: registry,
		interval:      interval,
		batchSize:     batchSize,
		log:           log,
	}
}

// Start inicia el bucle de polling del worker. Bloquea hasta que se cancela ctx.
func (w *Worker) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.interval = time.Second
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("🚀 Outbox worker iniciado", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("🛑 Outbox worker detenido")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

func (w *Worker) ProcessBatch(ctx context.Context) {
	pending, err := w.repo.FetchPendingOutbox(ctx, w.batchSize)
	if err != nil {
		w.log.Warn("⚠️ Error al obtener eventos pendientes", zap.Error(err))
		return
	}
	if len(pending) > 0 {
		w.log.Debug(fmt.Sprintf("📬 %d eventos pendientes", len(pending)))
	}

	for _, evt := range pending {
		w.publishAndMark(ctx, evt)
	}
}

func (w *Worker) publishAndMark(ctx context.Context, evt sharedDomain.OutboxEvent) {
	// 1. El registro indica el tipo del payload y el topic
	metadata, ok := w.eventRegistry[evt.EventType]
	if !ok {
		w.log.Error("Tipo de evento desconocido en registro", zap.String("event_type", evt.EventType))
		return
	}

	data, err := normalizePayload(evt.Payload, metadata.Type)
	if err != nil {
		w.log.Error("Error al decodificar payload del evento", zap.String("event_id", evt.ID.String()), zap.Error(err))
		return
	}
	integration := sharedEvents.NewIntegrationEvent(metadata.Topic, evt.EventType, evt.AggregateID, evt.CreatedAt, data)

	// 2. Publicar con reintentos cortos; si falla queda pendiente para el siguiente tick
	err = utils.Retry(ctx, publishAttempts, publishDelay, func() error {
		return w.publisher.Publish(ctx, integration)
	})
	if err != nil {
		w.log.Warn("⚠️ No se pudo publicar evento", zap.String("event_id", evt.ID.String()), zap.Error(err))
		return
	}

	// 3. Marcar como procesado en la DB
	if err := w.repo.MarkOutboxProcessed(ctx, evt.ID); err != nil {
		w.log.Warn("⚠️ No se pudo marcar evento como procesado", zap.String("event_id", evt.ID.String()), zap.Error(err))
		return
	}
	w.log.Info("✅ Evento publicado y marcado",
		zap.String("event_id", evt.ID.String()),
		zap.String("event_type", evt.EventType),
	)
}

// normalizePayload pasa el payload por su tipo registrado: descarta campos ajenos
// y falla si el JSON no encaja.
func normalizePayload(payload interface{}, typ reflect.Type) (json.RawMessage, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	typed := reflect.New(typ).Interface()
	if err := json.Unmarshal(raw, typed); err != nil {
		return nil, err
	}
	return json.Marshal(typed)
}
