package query

import (
	"context"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
)

// Identifiable lo cumplen las entidades paginables: id int64 monótono.
type Identifiable interface {
	CursorID() int64
}

// Collection es el contrato mínimo que el motor necesita del almacenamiento.
type Collection[T Identifiable] interface {
	Find(ctx context.Context, opts FindOptions) ([]T, error)
	Count(ctx context.Context, where []sharedDomain.Criterion) (int, error)
}

// FieldSet lo implementan las colecciones que publican sus campos filtrables.
// Sin él, cualquier campo llega al store.
type FieldSet interface {
	HasField(field string) bool
}

// WithScope fija criterios que se añaden a todas las consultas (ej. postId de los comentarios).
func WithScope[T Identifiable](coll Collection[T], scope ...sharedDomain.Criteria) Collection[T] {
	return scoped[T]{inner: coll, scope: sharedDomain.And(scope...)}
}

type scoped[T Identifiable] struct {
	inner Collection[T]
	scope sharedDomain.CompositeCriteria
}

func (s scoped[T]) Find(ctx context.Context, opts FindOptions) ([]T, error) {
	opts.Where = s.merge(opts.Where)
	return s.inner.Find(ctx, opts)
}

func (s scoped[T]) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	return s.inner.Count(ctx, s.merge(where))
}

func (s scoped[T]) HasField(field string) bool {
	if fs, ok := s.inner.(FieldSet); ok {
		return fs.HasField(field)
	}
	return true
}

// merge antepone el scope a los filtros de la petición, en conjunción.
func (s scoped[T]) merge(where []sharedDomain.Criterion) []sharedDomain.Criterion {
	return sharedDomain.And(s.scope, sharedDomain.Conditions(where)).ToConditions()
}
