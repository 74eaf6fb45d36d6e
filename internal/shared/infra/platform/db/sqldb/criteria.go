package sqldb

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

// Kind es el tipo de la columna; decide cómo se enlaza el valor del filtro.
type Kind int

const (
	KindInt Kind = iota
	KindText
	KindTime
	KindBool
)

// Column es una columna SQL con su tipo.
type Column struct {
	Name string
	Kind Kind
}

func Int(name string) Column  { return Column{Name: name, Kind: KindInt} }
func Text(name string) Column { return Column{Name: name, Kind: KindText} }
func Time(name string) Column { return Column{Name: name, Kind: KindTime} }

func Boolean(name string) Column { return Column{Name: name, Kind: KindBool} }

// Columns traduce los campos públicos (los del query string) a columnas SQL.
// Es también la lista blanca: nada fuera del mapa llega a la sentencia.
type Columns map[string]Column

func (c Columns) HasField(field string) bool {
	_, ok := c[field]
	return ok
}

// Builder acumula argumentos mientras traduce criterios y orden a SQL.
type Builder struct {
	dialect Dialect
	columns Columns
	args    []interface{}
}

func NewBuilder(d Dialect, columns Columns) *Builder {
	return &Builder{dialect: d, columns: columns}
}

// Args devuelve los argumentos en el orden de sus placeholders.
func (b *Builder) Args() []interface{} {
	return b.args
}

// Bind añade un argumento y devuelve su placeholder.
func (b *Builder) Bind(v interface{}) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

// Where devuelve " WHERE ..." o "" si no hay criterios.
func (b *Builder) Where(where []sharedDomain.Criterion) (string, error) {
	if len(where) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(where))
	for _, c := range where {
		cond, err := b.condition(c)
		if err != nil {
			return "", err
		}
		conds = append(conds, cond)
	}
	return " WHERE " + strings.Join(conds, " AND "), nil
}

func (b *Builder) condition(c sharedDomain.Criterion) (string, error) {
	column, ok := b.columns[c.Field]
	if !ok {
		return "", fmt.Errorf("%w: unknown field %q", query.ErrInvalidFilterKey, c.Field)
	}
	col := column.Name
	bind := func(v interface{}) (string, error) {
		typed, err := column.coerce(v)
		if err != nil {
			return "", fmt.Errorf("%w: %s on %q", query.ErrInvalidFilterKey, err, c.Field)
		}
		return b.Bind(typed), nil
	}

	switch c.Op {
	case sharedDomain.OpEq, sharedDomain.OpNeq, sharedDomain.OpGt, sharedDomain.OpGte,
		sharedDomain.OpLt, sharedDomain.OpLte:
		mark, err := bind(c.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", col, c.Op, mark), nil
	case sharedDomain.OpLike, sharedDomain.OpILike:
		if column.Kind != KindText {
			return "", fmt.Errorf("%w: %s only applies to text fields, not %q", query.ErrInvalidFilterKey, c.Op, c.Field)
		}
		mark, err := bind(c.Value)
		if err != nil {
			return "", err
		}
		switch {
		case c.Op == sharedDomain.OpLike:
			return fmt.Sprintf("%s LIKE %s", col, mark), nil
		case b.dialect == SQLite:
			return fmt.Sprintf("LOWER(%s) LIKE LOWER(%s)", col, mark), nil
		default:
			return fmt.Sprintf("%s ILIKE %s", col, mark), nil
		}
	case sharedDomain.OpBetween:
		bounds, ok := c.Value.([2]interface{})
		if !ok {
			return "", fmt.Errorf("%w: between on %q expects two bounds", query.ErrInvalidFilterKey, c.Field)
		}
		lo, err := bind(bounds[0])
		if err != nil {
			return "", err
		}
		hi, err := bind(bounds[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", col, lo, hi), nil
	case sharedDomain.OpIn:
		list, ok := c.Value.([]interface{})
		if !ok || len(list) == 0 {
			return "", fmt.Errorf("%w: in on %q expects a non empty list", query.ErrInvalidFilterKey, c.Field)
		}
		marks := make([]string, len(list))
		for i, v := range list {
			mark, err := bind(v)
			if err != nil {
				return "", err
			}
			marks[i] = mark
		}
		return fmt.Sprintf("%s IN (%s)", col, strings.Join(marks, ", ")), nil
	}
	return "", fmt.Errorf("%w: unsupported operator %q", query.ErrInvalidFilterKey, c.Op)
}

// OrderBy devuelve " ORDER BY ..." o "".
func (b *Builder) OrderBy(order []query.Sort) (string, error) {
	if len(order) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(order))
	for _, s := range order {
		col, ok := b.columns[s.Field]
		if !ok {
			return "", fmt.Errorf("%w: unknown field %q", query.ErrInvalidSortKey, s.Field)
		}
		parts = append(parts, col.Name+" "+s.Direction())
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// Limit traduce Take/Skip. Take <= 0 significa sin límite.
func (b *Builder) Limit(take int, skip *int) string {
	var out string
	if take > 0 {
		out = " LIMIT " + strconv.Itoa(take)
	}
	if skip != nil && *skip > 0 {
		if out == "" && b.dialect == SQLite {
			out = " LIMIT -1"
		}
		out += " OFFSET " + strconv.Itoa(*skip)
	}
	return out
}

// Select compone SELECT cols FROM table con where, orden y límite.
func (b *Builder) Select(selectCols, table string, opts query.FindOptions) (string, error) {
	where, err := b.Where(opts.Where)
	if err != nil {
		return "", err
	}
	order, err := b.OrderBy(opts.Order)
	if err != nil {
		return "", err
	}
	return "SELECT " + selectCols + " FROM " + table + where + order + b.Limit(opts.Take, opts.Skip), nil
}

// Count compone SELECT COUNT(*).
func (b *Builder) Count(table string, where []sharedDomain.Criterion) (string, error) {
	w, err := b.Where(where)
	if err != nil {
		return "", err
	}
	return "SELECT COUNT(*) FROM " + table + w, nil
}

// coerce convierte el valor parseado del query string al tipo de la columna.
// pgx no enlaza un int64 a un parámetro text ni un texto arbitrario a bigint.
func (c Column) coerce(v interface{}) (interface{}, error) {
	switch c.Kind {
	case KindText:
		if str, ok := v.(string); ok {
			return str, nil
		}
		return fmt.Sprint(v), nil
	case KindInt:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case string:
			parsed, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("expected an integer, got %q", n)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("expected an integer, got %v", v)
	case KindTime:
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			// Se enlaza la cadena tal cual; la conversión la hace el motor.
			for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
				if _, err := time.Parse(layout, t); err == nil {
					return t, nil
				}
			}
			return nil, fmt.Errorf("expected a date, got %q", t)
		}
		return nil, fmt.Errorf("expected a date, got %v", v)
	case KindBool:
		b, err := strconv.ParseBool(fmt.Sprint(v))
		if err != nil {
			return nil, fmt.Errorf("expected a boolean, got %v", v)
		}
		return b, nil
	}
	return v, nil
}
