package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
)

// clauseBuilder construye el Criterion de un where__field__operator.
type clauseBuilder func(field, raw string) (sharedDomain.Criterion, error)

// operators es el único punto de extensión del lenguaje de filtros.
var operators = map[string]clauseBuilder{
	"equal":              compare(sharedDomain.OpEq),
	"not":                compare(sharedDomain.OpNeq),
	"more_than":          compare(sharedDomain.OpGt),
	"more_than_or_equal": compare(sharedDomain.OpGte),
	"less_than":          compare(sharedDomain.OpLt),
	"less_than_or_equal": compare(sharedDomain.OpLte),
	"like":               pattern(sharedDomain.OpLike),
	"ilike":              pattern(sharedDomain.OpILike),
	"i_like":             pattern(sharedDomain.OpILike),
	"between":            between,
	"in":                 in,
}

// Operators lista los tokens soportados, ordenados.
func Operators() []string {
	out := make([]string, 0, len(operators))
	for k := range operators {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func compare(op sharedDomain.Operator) clauseBuilder {
	return func(field, raw string) (sharedDomain.Criterion, error) {
		return sharedDomain.Criterion{Field: field, Op: op, Value: ParseScalar(raw)}, nil
	}
}

// pattern no convierte el valor: "%" y "_" los pone el cliente.
func pattern(op sharedDomain.Operator) clauseBuilder {
	return func(field, raw string) (sharedDomain.Criterion, error) {
		return sharedDomain.Criterion{Field: field, Op: op, Value: raw}, nil
	}
}

func between(field, raw string) (sharedDomain.Criterion, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return sharedDomain.Criterion{}, fmt.Errorf("%w: between expects two comma separated values, got %q", ErrInvalidFilterKey, raw)
	}
	return sharedDomain.Criterion{
		Field: field,
		Op:    sharedDomain.OpBetween,
		Value: [2]interface{}{ParseScalar(strings.TrimSpace(parts[0])), ParseScalar(strings.TrimSpace(parts[1]))},
	}, nil
}

func in(field, raw string) (sharedDomain.Criterion, error) {
	var values []interface{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, ParseScalar(p))
		}
	}
	if len(values) == 0 {
		return sharedDomain.Criterion{}, fmt.Errorf("%w: in expects at least one value", ErrInvalidFilterKey)
	}
	return sharedDomain.Criterion{Field: field, Op: sharedDomain.OpIn, Value: values}, nil
}

// ParseScalar convierte a int64 lo que parezca un entero; el resto queda como string.
func ParseScalar(raw string) interface{} {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}
