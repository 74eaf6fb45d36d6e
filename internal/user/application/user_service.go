package application

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedAuth "github.com/davicafu/hexablog/internal/shared/infra/platform/auth"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
)

// UserService agrupa registro, login, rotación de tokens y listado de usuarios.
type UserService struct {
	repo    userDomain.UserRepository
	hasher  userDomain.PasswordHasher
	tokens  *sharedAuth.TokenManager
	baseURL string
	log     *zap.Logger
}

func NewUserService(repo userDomain.UserRepository, hasher userDomain.PasswordHasher, tokens *sharedAuth.TokenManager, baseURL string, log *zap.Logger) *UserService {
	return &UserService{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// Register crea la cuenta y devuelve el par de tokens, como un login inmediato.
func (s *UserService) Register(ctx context.Context, email, nickname, password string) (sharedAuth.Pair, error) {
	if err := userDomain.ValidateRegistration(nickname, email, password); err != nil {
		return sharedAuth.Pair{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return sharedAuth.Pair{}, err
	}

	user := userDomain.NewUser(nickname, email, hash)
	payload := &userDomain.UserRegisteredPayload{Nickname: user.Nickname, Email: user.Email}
	evt := sharedDomain.NewOutboxEvent(userDomain.AggregateType, "", userDomain.UserRegistered, payload)
	if err := s.repo.Create(ctx, user, evt); err != nil {
		if !errors.Is(err, userDomain.ErrUserAlreadyExists) {
			s.log.Error("Failed to create user", zap.Error(err))
		}
		return sharedAuth.Pair{}, err
	}

	s.log.Info("User registered", zap.Int64("user_id", user.ID))
	return s.tokens.IssuePair(user.ID, user.Email)
}

// Login valida email y contraseña. Un email desconocido es ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (sharedAuth.Pair, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, userDomain.ErrUserNotFound) {
		return sharedAuth.Pair{}, userDomain.ErrInvalidCredentials
	}
	if err != nil {
		return sharedAuth.Pair{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return sharedAuth.Pair{}, err
	}
	return s.tokens.IssuePair(user.ID, user.Email)
}

// RotateToken emite un token del tipo pedido a partir de un refresh token.
func (s *UserService) RotateToken(refreshToken string, typ sharedAuth.TokenType) (string, error) {
	return s.tokens.Rotate(refreshToken, typ)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*userDomain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) PaginateUsers(ctx context.Context, req sharedQuery.Request) (sharedQuery.Result[*userDomain.User], error) {
	return sharedQuery.Paginate[*userDomain.User](ctx, req, s.repo, s.baseURL+"/users")
}
