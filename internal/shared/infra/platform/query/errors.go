package query

import "errors"

// Errores de entrada del cliente: se detectan antes de tocar el store.
var (
	ErrInvalidFilterKey = errors.New("invalid filter key")
	ErrInvalidSortKey   = errors.New("invalid sort key")
	ErrInvalidPageParam = errors.New("invalid pagination parameter")
)

// IsClientError agrupa los errores que deben responderse como 4xx.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidFilterKey) ||
		errors.Is(err, ErrInvalidSortKey) ||
		errors.Is(err, ErrInvalidPageParam)
}
