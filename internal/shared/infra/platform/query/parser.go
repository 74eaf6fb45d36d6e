package query

import (
	"fmt"
	"strconv"
	"strings"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
)

// Parse traduce una Request a FindOptions.
//
//	where__id            -> id = valor
//	where__id__more_than -> id > valor (operador de la tabla operators)
//	order__createdAt     -> ORDER BY createdAt ASC|DESC
//
// Las claves se recorren en orden alfabético, así que el orden de varios
// order__* es el alfabético de sus campos.
func Parse(req Request) (FindOptions, error) {
	opts := FindOptions{Take: DefaultTake}

	if req.Has(KeyTake) {
		take, err := strconv.Atoi(strings.TrimSpace(req[KeyTake]))
		if err != nil || take < 0 {
			return FindOptions{}, fmt.Errorf("%w: take=%q", ErrInvalidPageParam, req[KeyTake])
		}
		opts.Take = take
	}

	if req.IsPageMode() {
		page, err := strconv.Atoi(strings.TrimSpace(req[KeyPage]))
		if err != nil || page < 1 {
			return FindOptions{}, fmt.Errorf("%w: page=%q", ErrInvalidPageParam, req[KeyPage])
		}
		skip := opts.Take * (page - 1)
		opts.Skip = &skip
	}

	for _, key := range req.keys() {
		value := req[key]
		if strings.TrimSpace(value) == "" {
			continue
		}
		switch {
		case strings.HasPrefix(key, WherePrefix+Delimiter):
			c, err := parseWhere(key, value)
			if err != nil {
				return FindOptions{}, err
			}
			opts.Where = append(opts.Where, c)
		case strings.HasPrefix(key, OrderPrefix+Delimiter):
			s, err := parseOrder(key, value)
			if err != nil {
				return FindOptions{}, err
			}
			opts.Order = append(opts.Order, s)
		}
	}

	return opts, nil
}

func parseWhere(key, value string) (sharedDomain.Criterion, error) {
	parts := strings.Split(key, Delimiter)
	switch len(parts) {
	case 2:
		if parts[1] == "" {
			return sharedDomain.Criterion{}, fmt.Errorf("%w: %q has an empty field", ErrInvalidFilterKey, key)
		}
		return sharedDomain.FieldEquals(parts[1], ParseScalar(value)), nil
	case 3:
		field, token := parts[1], parts[2]
		if field == "" {
			return sharedDomain.Criterion{}, fmt.Errorf("%w: %q has an empty field", ErrInvalidFilterKey, key)
		}
		build, ok := operators[token]
		if !ok {
			return sharedDomain.Criterion{}, fmt.Errorf("%w: unknown operator %q in %q", ErrInvalidFilterKey, token, key)
		}
		c, err := build(field, value)
		if err != nil {
			return sharedDomain.Criterion{}, fmt.Errorf("%w (key %q)", err, key)
		}
		return c, nil
	default:
		return sharedDomain.Criterion{}, fmt.Errorf("%w: %q must split into 2 or 3 segments", ErrInvalidFilterKey, key)
	}
}

func parseOrder(key, value string) (Sort, error) {
	parts := strings.Split(key, Delimiter)
	if len(parts) != 2 || parts[1] == "" {
		return Sort{}, fmt.Errorf("%w: %q must split into exactly 2 segments", ErrInvalidSortKey, key)
	}
	switch value {
	case "ASC":
		return Sort{Field: parts[1]}, nil
	case "DESC":
		return Sort{Field: parts[1], Desc: true}, nil
	default:
		return Sort{}, fmt.Errorf("%w: %q must be ASC or DESC, got %q", ErrInvalidSortKey, key, value)
	}
}
