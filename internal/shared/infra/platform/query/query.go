package query

import (
	"net/url"
	"sort"
	"strings"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/utils"
)

// ---------- Gramática de claves del query string ----------

const (
	Delimiter   = "__"
	WherePrefix = "where"
	OrderPrefix = "order"

	KeyPage = "page"
	KeyTake = "take"

	DefaultTake = 20

	// CursorField es el campo ancla de la paginación por cursor.
	CursorField   = "id"
	KeyIDMoreThan = WherePrefix + Delimiter + CursorField + Delimiter + "more_than"
	KeyIDLessThan = WherePrefix + Delimiter + CursorField + Delimiter + "less_than"
)

// Sort indica campo y dirección.
type Sort struct {
	Field string // ej. "createdAt", "likeCount", "id"
	Desc  bool
}

// Direction devuelve "ASC" o "DESC".
func (s Sort) Direction() string {
	return utils.Ternary(s.Desc, "DESC", "ASC")
}

// FindOptions es el resultado de parsear una Request: lo que recibe Collection.Find.
// Skip es nil en modo cursor.
type FindOptions struct {
	Where []sharedDomain.Criterion
	Order []Sort
	Take  int
	Skip  *int
}

// Request es el query string plano de un listado: where__*, order__*, page, take.
type Request map[string]string

// RequestFromValues toma el primer valor no vacío de cada clave.
func RequestFromValues(values url.Values) Request {
	req := make(Request, len(values))
	for key, vs := range values {
		for _, v := range vs {
			if strings.TrimSpace(v) != "" {
				req[key] = v
				break
			}
		}
	}
	return req
}

// Has indica si la clave está presente con un valor no vacío.
func (r Request) Has(key string) bool {
	return strings.TrimSpace(r[key]) != ""
}

// IsPageMode: con "page" la paginación es por páginas, si no por cursor.
func (r Request) IsPageMode() bool {
	return r.Has(KeyPage)
}

// keys devuelve las claves ordenadas para que el parseo sea determinista.
func (r Request) keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
