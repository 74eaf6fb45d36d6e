package domain

import (
	"context"
	"errors"
	"fmt"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

// ---------- Errores de dominio ----------
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidUser        = errors.New("invalid user")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidFollow    = errors.New("invalid follow request")
	ErrAlreadyFollowing = errors.New("follow request already exists")
	ErrFollowNotFound   = errors.New("follow request not found")
)

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidUser, reason)
}

// ---------- Interfaces (Ports) ----------

// UserRepository persiste usuarios; es paginable por sus campos públicos.
type UserRepository interface {
	sharedQuery.Collection[*User]

	// Create asigna u.ID. Devuelve ErrUserAlreadyExists si el email o el nickname ya existen.
	Create(ctx context.Context, u *User, evt sharedDomain.OutboxEvent) error

	// Devuelven ErrUserNotFound si no existe.
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// FollowRepository persiste las solicitudes de seguimiento. Confirm y Delete
// ajustan followerCount del seguido y followeeCount del seguidor en la misma
// transacción que la fila y el evento.
type FollowRepository interface {
	sharedQuery.Collection[*Follow]
	// Create asigna f.ID. Devuelve ErrAlreadyFollowing si el par ya existe y
	// ErrUserNotFound si alguno de los dos usuarios no existe.
	Create(ctx context.Context, f *Follow, evt sharedDomain.OutboxEvent) error
	// Devuelve ErrFollowNotFound si no hay solicitud.
	Get(ctx context.Context, followerID, followeeID int64) (*Follow, error)
	// Confirm marca la solicitud pendiente; ErrFollowNotFound si no hay ninguna pendiente.
	Confirm(ctx context.Context, f *Follow, evt sharedDomain.OutboxEvent) error
	// Delete borra la solicitud; si estaba confirmada descuenta los contadores.
	Delete(ctx context.Context, f *Follow, evt sharedDomain.OutboxEvent) error
}

// PasswordHasher aísla el algoritmo de hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare devuelve ErrInvalidCredentials si no coincide.
	Compare(hash, password string) error
}
