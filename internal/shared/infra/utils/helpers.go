package utils

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Ternary devuelve a o b según cond.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

// UnmarshalAndHandle decodifica data como T y se lo pasa a handler.
// Un payload que no encaja se registra y se descarta: el consumidor no debe bloquearse.
func UnmarshalAndHandle[T any](log *zap.Logger, data json.RawMessage, handler func(T)) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Warn("Payload de evento inválido, se descarta", zap.Error(err))
		return
	}
	handler(v)
}
