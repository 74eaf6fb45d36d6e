package memory

import (
	"cmp"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

// Record es lo que necesita la colección para filtrar y ordenar sin reflexión.
type Record interface {
	query.Identifiable
	FieldValue(field string) (interface{}, bool)
}

// Collection guarda entidades en memoria y aplica FindOptions como lo haría un store SQL.
// Se usa como adapter "memory" y como fake en los tests.
type Collection[T Record] struct {
	mu     sync.RWMutex
	items  map[int64]T
	lastID int64
	fields map[string]struct{}
}

// NewCollection crea la colección. Si se pasan campos, solo esos son filtrables.
func NewCollection[T Record](fields ...string) *Collection[T] {
	c := &Collection[T]{items: make(map[int64]T)}
	if len(fields) > 0 {
		c.fields = make(map[string]struct{}, len(fields))
		for _, f := range fields {
			c.fields[f] = struct{}{}
		}
	}
	return c
}

var _ query.FieldSet = (*Collection[Record])(nil)

// NextID reserva el siguiente id monótono.
func (c *Collection[T]) NextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastID++
	return c.lastID
}

// Put inserta o reemplaza por id.
func (c *Collection[T]) Put(items ...T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range items {
		id := it.CursorID()
		c.items[id] = it
		if id > c.lastID {
			c.lastID = id
		}
	}
}

func (c *Collection[T]) Get(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[id]
	return it, ok
}

// Modify reemplaza el registro id por fn(actual) de forma atómica.
func (c *Collection[T]) Modify(id int64, fn func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[id]
	if !ok {
		return false
	}
	c.items[id] = fn(it)
	return true
}

// Remove devuelve false si el id no existía.
func (c *Collection[T]) Remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	return true
}

// RemoveWhere borra los registros que cumplen where y devuelve cuántos.
func (c *Collection[T]) RemoveWhere(where []sharedDomain.Criterion) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, it := range c.items {
		ok, err := Matches(it, where)
		if err != nil {
			return removed, err
		}
		if ok {
			delete(c.items, id)
			removed++
		}
	}
	return removed, nil
}

func (c *Collection[T]) HasField(field string) bool {
	if c.fields == nil {
		return true
	}
	_, ok := c.fields[field]
	return ok
}

// Find filtra, ordena y recorta. Take <= 0 significa sin límite.
func (c *Collection[T]) Find(ctx context.Context, opts query.FindOptions) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := c.filter(opts.Where)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j], opts.Order)
	})

	if opts.Skip != nil {
		if *opts.Skip >= len(out) {
			return []T{}, nil
		}
		out = out[*opts.Skip:]
	}
	if opts.Take > 0 && len(out) > opts.Take {
		out = out[:opts.Take]
	}
	return out, nil
}

func (c *Collection[T]) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	out, err := c.filter(where)
	if err != nil {
		return 0, err
	}
	return len(out), nil
}

func (c *Collection[T]) filter(where []sharedDomain.Criterion) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.items))
	for _, it := range c.items {
		ok, err := Matches(it, where)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, it)
		}
	}
	// Orden base estable por id; el mapa no garantiza orden.
	sort.Slice(out, func(i, j int) bool { return out[i].CursorID() < out[j].CursorID() })
	return out, nil
}

// ---------- Evaluación de criterios ----------

// Matches evalúa la conjunción de criterios sobre un registro.
func Matches(r Record, where []sharedDomain.Criterion) (bool, error) {
	for _, c := range where {
		actual, ok := r.FieldValue(c.Field)
		if !ok {
			return false, fmt.Errorf("unknown field %q", c.Field)
		}
		match, err := matchOne(actual, c)
		if err != nil || !match {
			return false, err
		}
	}
	return true, nil
}

func matchOne(actual interface{}, c sharedDomain.Criterion) (bool, error) {
	// Igualdad sobre una lista: basta con un elemento, como en Mongo.
	if list, ok := actual.([]int64); ok && c.Op == sharedDomain.OpEq {
		for _, v := range list {
			if n, ok := compare(v, c.Value); ok && n == 0 {
				return true, nil
			}
		}
		return false, nil
	}

	switch c.Op {
	case sharedDomain.OpEq, sharedDomain.OpNeq, sharedDomain.OpGt, sharedDomain.OpGte, sharedDomain.OpLt, sharedDomain.OpLte:
		n, ok := compare(actual, c.Value)
		if !ok {
			return false, nil
		}
		switch c.Op {
		case sharedDomain.OpEq:
			return n == 0, nil
		case sharedDomain.OpNeq:
			return n != 0, nil
		case sharedDomain.OpGt:
			return n > 0, nil
		case sharedDomain.OpGte:
			return n >= 0, nil
		case sharedDomain.OpLt:
			return n < 0, nil
		default:
			return n <= 0, nil
		}
	case sharedDomain.OpLike, sharedDomain.OpILike:
		re, err := likePattern(fmt.Sprint(c.Value), c.Op == sharedDomain.OpILike)
		if err != nil {
			return false, err
		}
		return re.MatchString(fmt.Sprint(actual)), nil
	case sharedDomain.OpBetween:
		bounds, ok := c.Value.([2]interface{})
		if !ok {
			return false, fmt.Errorf("between on %q expects two bounds", c.Field)
		}
		lo, okLo := compare(actual, bounds[0])
		hi, okHi := compare(actual, bounds[1])
		return okLo && okHi && lo >= 0 && hi <= 0, nil
	case sharedDomain.OpIn:
		list, ok := c.Value.([]interface{})
		if !ok {
			return false, fmt.Errorf("in on %q expects a list", c.Field)
		}
		for _, v := range list {
			if n, ok := compare(actual, v); ok && n == 0 {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("unsupported operator %q", c.Op)
}

// likePattern traduce % y _ a una regexp anclada.
func likePattern(pattern string, insensitive bool) (*regexp.Regexp, error) {
	var b strings.Builder
	if insensitive {
		b.WriteString("(?i)")
	}
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

func less[T Record](a, b T, order []query.Sort) bool {
	for _, s := range order {
		av, _ := a.FieldValue(s.Field)
		bv, _ := b.FieldValue(s.Field)
		n, ok := compare(av, bv)
		if !ok || n == 0 {
			continue
		}
		if s.Desc {
			return n > 0
		}
		return n < 0
	}
	return false
}

// compare devuelve -1/0/1 convirtiendo b al tipo de a.
func compare(a, b interface{}) (int, bool) {
	switch av := a.(type) {
	case int64:
		bv, ok := toInt64(b)
		return cmp.Compare(av, bv), ok
	case int:
		bv, ok := toInt64(b)
		return cmp.Compare(int64(av), bv), ok
	case float64:
		bv, ok := toFloat64(b)
		return cmp.Compare(av, bv), ok
	case string:
		return strings.Compare(av, fmt.Sprint(b)), true
	case bool:
		bv, err := strconv.ParseBool(fmt.Sprint(b))
		if err != nil {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !av {
			return -1, true
		}
		return 1, true
	case time.Time:
		bv, ok := toTime(b)
		return av.Compare(bv), ok
	}
	return 0, false
}

func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

func toTime(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
			if t, err := time.Parse(layout, x); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
