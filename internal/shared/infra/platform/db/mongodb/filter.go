package mongodb

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

// Fields traduce los campos públicos de una entidad a claves del documento.
type Fields map[string]string

func (f Fields) HasField(field string) bool {
	_, ok := f[field]
	return ok
}

func (f Fields) key(field string) (string, error) {
	key, ok := f[field]
	if !ok {
		return "", fmt.Errorf("%w: unknown field %q", query.ErrInvalidFilterKey, field)
	}
	return key, nil
}

// Filter convierte los criterios (en conjunción) a un filtro bson.
// Sobre un array, $eq se cumple si algún elemento coincide.
func (f Fields) Filter(where []sharedDomain.Criterion) (bson.D, error) {
	filter := bson.D{}
	for _, c := range where {
		key, err := f.key(c.Field)
		if err != nil {
			return nil, err
		}
		cond, err := condition(c)
		if err != nil {
			return nil, err
		}
		filter = append(filter, bson.E{Key: key, Value: cond})
	}
	return filter, nil
}

func condition(c sharedDomain.Criterion) (bson.M, error) {
	switch c.Op {
	case sharedDomain.OpEq:
		return bson.M{"$eq": value(c.Value)}, nil
	case sharedDomain.OpNeq:
		return bson.M{"$ne": value(c.Value)}, nil
	case sharedDomain.OpGt:
		return bson.M{"$gt": value(c.Value)}, nil
	case sharedDomain.OpGte:
		return bson.M{"$gte": value(c.Value)}, nil
	case sharedDomain.OpLt:
		return bson.M{"$lt": value(c.Value)}, nil
	case sharedDomain.OpLte:
		return bson.M{"$lte": value(c.Value)}, nil
	case sharedDomain.OpLike, sharedDomain.OpILike:
		m := bson.M{"$regex": likeToRegex(fmt.Sprint(c.Value))}
		if c.Op == sharedDomain.OpILike {
			m["$options"] = "i"
		}
		return m, nil
	case sharedDomain.OpBetween:
		bounds, ok := c.Value.([2]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: between on %q expects two bounds", query.ErrInvalidFilterKey, c.Field)
		}
		return bson.M{"$gte": value(bounds[0]), "$lte": value(bounds[1])}, nil
	case sharedDomain.OpIn:
		list, ok := c.Value.([]interface{})
		if !ok || len(list) == 0 {
			return nil, fmt.Errorf("%w: in on %q expects a non empty list", query.ErrInvalidFilterKey, c.Field)
		}
		values := make(bson.A, len(list))
		for i, v := range list {
			values[i] = value(v)
		}
		return bson.M{"$in": values}, nil
	}
	return nil, fmt.Errorf("%w: unsupported operator %q", query.ErrInvalidFilterKey, c.Op)
}

// value pasa a time.Time las fechas que llegan como texto del query string.
func value(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return s
}

// likeToRegex traduce % y _ a una regexp anclada.
func likeToRegex(pattern string) string {
	var b strings.Builder
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
	return b.String()
}

// FindOptions traduce orden, skip y take a opciones del driver.
func (f Fields) FindOptions(opts query.FindOptions) (*options.FindOptions, error) {
	findOpts := options.Find()

	if len(opts.Order) > 0 {
		sort := bson.D{}
		for _, s := range opts.Order {
			key, err := f.key(s.Field)
			if err != nil {
				return nil, err
			}
			dir := 1
			if s.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: key, Value: dir})
		}
		findOpts.SetSort(sort)
	}
	if opts.Skip != nil {
		findOpts.SetSkip(int64(*opts.Skip))
	}
	if opts.Take > 0 {
		findOpts.SetLimit(int64(opts.Take))
	}
	return findOpts, nil
}
