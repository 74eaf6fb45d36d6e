package utils

import (
	"context"
	"errors"
	"net/http"
)

// HTTPErrorInfo es el status y mensaje que corresponde a un error.
// Detail indica que al mensaje se le añade el texto del error original.
type HTTPErrorInfo struct {
	Status  int
	Message string
	Detail  bool
}

type errorMapping struct {
	err  error
	info HTTPErrorInfo
}

// ErrorMapper traduce errores de dominio (sentinels) a respuestas HTTP.
type ErrorMapper struct {
	mappings []errorMapping
	fallback HTTPErrorInfo
}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		fallback: HTTPErrorInfo{Status: http.StatusInternalServerError, Message: "internal server error"},
	}
}

// WithMapping registra un sentinel. Se comprueban en orden de registro.
func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.mappings = append(m.mappings, errorMapping{err: err, info: HTTPErrorInfo{Status: status, Message: message}})
	return m
}

// WithDetailedMapping igual que WithMapping pero incluye el texto del error en la respuesta.
// Solo para errores de entrada cuyo texto es seguro de exponer.
func (m *ErrorMapper) WithDetailedMapping(err error, status int, message string) *ErrorMapper {
	m.mappings = append(m.mappings, errorMapping{err: err, info: HTTPErrorInfo{Status: status, Message: message, Detail: true}})
	return m
}

// Merge añade al final las reglas de otro mapper.
func (m *ErrorMapper) Merge(other *ErrorMapper) *ErrorMapper {
	m.mappings = append(m.mappings, other.mappings...)
	return m
}

func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPErrorInfo{Status: http.StatusGatewayTimeout, Message: "request timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return HTTPErrorInfo{Status: http.StatusServiceUnavailable, Message: "request cancelled"}
	}

	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.err) {
			return mapping.info
		}
	}
	return m.fallback
}
