package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	sharedBus "github.com/davicafu/hexablog/internal/shared/infra/platform/bus"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

const (
	NicknameMaxLen = 20
	PasswordMinLen = 3
	PasswordMaxLen = 8
)

// User es una cuenta. El hash de la contraseña nunca se serializa.
type User struct {
	ID           int64  `json:"id"`
	Nickname     string `json:"nickname"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	// Solo seguimientos confirmados.
	FollowerCount int64     `json:"followerCount"`
	FolloweeCount int64     `json:"followeeCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Fields son los campos públicos filtrables; el hash no está.
var Fields = []string{"id", "nickname", "email", "role", "followerCount", "followeeCount", "createdAt", "updatedAt"}

// NormalizeEmail es la forma en la que se guarda y se busca el email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration comprueba los datos de alta antes de hashear la contraseña.
func ValidateRegistration(nickname, email, password string) error {
	nickname = strings.TrimSpace(nickname)
	if n := utf8.RuneCountInString(nickname); n < 1 || n > NicknameMaxLen {
		return invalid("nickname must be 1-20 characters")
	}
	// El formato lo valida el binding de gin (required,email); aquí solo lo mínimo.
	if e := strings.TrimSpace(email); e == "" || strings.ContainsAny(e, " <>") {
		return invalid("email is not valid")
	}
	if n := utf8.RuneCountInString(password); n < PasswordMinLen || n > PasswordMaxLen {
		return invalid("password must be 3-8 characters")
	}
	return nil
}

// NewUser construye un usuario sin id con la contraseña ya hasheada.
func NewUser(nickname, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Nickname:     strings.TrimSpace(nickname),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (u *User) CursorID() int64 {
	return u.ID
}

func (u *User) PartitionKey() string {
	return strconv.FormatInt(u.ID, 10)
}

func (u *User) FieldValue(field string) (interface{}, bool) {
	switch field {
	case "id":
		return u.ID, true
	case "nickname":
		return u.Nickname, true
	case "email":
		return u.Email, true
	case "role":
		return string(u.Role), true
	case "followerCount":
		return u.FollowerCount, true
	case "followeeCount":
		return u.FolloweeCount, true
	case "createdAt":
		return u.CreatedAt, true
	case "updatedAt":
		return u.UpdatedAt, true
	}
	return nil, false
}

// Verificación estática para asegurar que User implementa la interfaz
var _ sharedBus.Keyer = (*User)(nil)
