package events

import (
	"encoding/json"
	"reflect"
	"time"
)

// IntegrationEvent es el sobre común de todo lo que sale por el broker.
type IntegrationEvent struct {
	Type      string          `json:"type"`
	Key       string          `json:"key,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento

	topic string
}

func NewIntegrationEvent(topic, eventType, key string, ts time.Time, data json.RawMessage) IntegrationEvent {
	return IntegrationEvent{Type: eventType, Key: key, Timestamp: ts, Data: data, topic: topic}
}

// PartitionKey permite que Kafka agrupe los eventos de un mismo agregado.
func (e IntegrationEvent) PartitionKey() string {
	return e.Key
}

// Topic solo está disponible en el lado que publica.
func (e IntegrationEvent) Topic() string {
	return e.topic
}

// EventMetadata asocia un tipo de evento con su payload y su topic.
type EventMetadata struct {
	Type  reflect.Type
	Topic string
}

type Registry map[string]EventMetadata

// Merge une varios registros de dominio en uno solo.
func Merge(registries ...Registry) Registry {
	out := make(Registry)
	for _, r := range registries {
		for k, v := range r {
			out[k] = v
		}
	}
	return out
}
