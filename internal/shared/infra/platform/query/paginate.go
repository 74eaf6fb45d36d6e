package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	"golang.org/x/sync/errgroup"
)

// ---------- Resultados ----------

type Cursor struct {
	After *int64 `json:"after"`
}

// CursorPage es la respuesta del modo cursor.
type CursorPage[T any] struct {
	Data   []T     `json:"data"`
	Cursor Cursor  `json:"cursor"`
	Count  int     `json:"count"`
	Next   *string `json:"next"`
}

// Page es la respuesta del modo página.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// Result lleva exactamente una de las dos formas.
type Result[T any] struct {
	Page   *Page[T]
	Cursor *CursorPage[T]
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	switch {
	case r.Page != nil:
		return json.Marshal(r.Page)
	case r.Cursor != nil:
		return json.Marshal(r.Cursor)
	default:
		return []byte("null"), nil
	}
}

// ---------- Motor ----------

// Paginate parsea la request, valida los campos contra la colección y
// ejecuta el modo página (si hay "page") o el modo cursor.
// Los errores de entrada se devuelven antes de cualquier acceso al store;
// los del store se devuelven sin envolver.
func Paginate[T Identifiable](ctx context.Context, req Request, coll Collection[T], basePath string) (Result[T], error) {
	opts, err := Parse(req)
	if err != nil {
		return Result[T]{}, err
	}
	if err := validateFields(coll, opts); err != nil {
		return Result[T]{}, err
	}

	if opts.Skip != nil {
		page, err := paginatePages(ctx, opts, coll)
		if err != nil {
			return Result[T]{}, err
		}
		return Result[T]{Page: page}, nil
	}

	base, err := url.Parse(basePath)
	if err != nil {
		return Result[T]{}, fmt.Errorf("invalid base path %q: %w", basePath, err)
	}
	page, err := paginateCursor(ctx, req, opts, coll, base)
	if err != nil {
		return Result[T]{}, err
	}
	return Result[T]{Cursor: page}, nil
}

func validateFields[T Identifiable](coll Collection[T], opts FindOptions) error {
	fs, ok := coll.(FieldSet)
	if !ok {
		return nil
	}
	for _, c := range opts.Where {
		if !fs.HasField(c.Field) {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidFilterKey, c.Field)
		}
	}
	for _, s := range opts.Order {
		if !fs.HasField(s.Field) {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidSortKey, s.Field)
		}
	}
	return nil
}

func paginatePages[T Identifiable](ctx context.Context, opts FindOptions, coll Collection[T]) (*Page[T], error) {
	// Desempate por id para que las páginas no se solapen.
	opts.Order = withCursorOrder(opts.Order, false)

	var (
		rows  []T
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if opts.Take == 0 {
			return nil
		}
		var err error
		rows, err = coll.Find(gctx, opts)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = coll.Count(gctx, opts.Where)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []T{}
	}
	return &Page[T]{Data: rows, Total: total}, nil
}

func paginateCursor[T Identifiable](ctx context.Context, req Request, opts FindOptions, coll Collection[T], base *url.URL) (*CursorPage[T], error) {
	desc := cursorDescending(opts.Order)
	opts.Order = withCursorOrder(opts.Order, desc)

	if !desc && !req.Has(KeyIDMoreThan) {
		opts.Where = append(append([]sharedDomain.Criterion(nil), opts.Where...),
			sharedDomain.Criterion{Field: CursorField, Op: sharedDomain.OpGt, Value: int64(0)})
	}

	var rows []T
	if opts.Take > 0 {
		var err error
		if rows, err = coll.Find(ctx, opts); err != nil {
			return nil, err
		}
	}
	if rows == nil {
		rows = []T{}
	}

	page := &CursorPage[T]{Data: rows, Count: len(rows)}
	if len(rows) > 0 && len(rows) == opts.Take {
		lastID := rows[len(rows)-1].CursorID()
		next := NextURL(req, *base, lastID, desc)
		page.Cursor.After = &lastID
		page.Next = &next
	}
	return page, nil
}

// NextURL copia las claves no vacías de la request salvo los dos anclas y
// añade el ancla de la dirección con el último id.
func NextURL(req Request, base url.URL, lastID int64, desc bool) string {
	values := url.Values{}
	for key, value := range req {
		if !req.Has(key) || key == KeyIDMoreThan || key == KeyIDLessThan {
			continue
		}
		values.Set(key, value)
	}

	anchor := KeyIDMoreThan
	if desc {
		anchor = KeyIDLessThan
	}
	values.Set(anchor, strconv.FormatInt(lastID, 10))

	base.RawQuery = values.Encode()
	return base.String()
}

func cursorDescending(order []Sort) bool {
	for _, s := range order {
		if s.Field == CursorField {
			return s.Desc
		}
	}
	return false
}

// withCursorOrder añade el orden por id si no viene ya en la request.
func withCursorOrder(order []Sort, desc bool) []Sort {
	for _, s := range order {
		if s.Field == CursorField {
			return order
		}
	}
	out := make([]Sort, 0, len(order)+1)
	out = append(out, order...)
	return append(out, Sort{Field: CursorField, Desc: desc})
}
