package directory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/utils"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type DirectoryService struct {
	store UserStore
	log   *zap.Logger
}

func NewDirectoryService(store UserStore, log *zap.Logger) *DirectoryService {
	return &DirectoryService{store: store, log: log}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=buyer freelancer"`
}

// Register creates an account with a bcrypt-hashed password. An empty role
// registers a buyer. A taken email is a conflict.
func (s *DirectoryService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if in.Role == "" {
		in.Role = string(models.RoleBuyer)
	}
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	role, _ := models.ParseRole(in.Role)

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "hash password")
	}

	u := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     role,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID.String()), zap.String("role", string(u.Role)))
	return u, nil
}

// Authenticate returns the user owning email when password matches. Unknown
// emails and wrong passwords produce the same error.
func (s *DirectoryService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.InvalidArgument("email and password are required")
	}
	u, err := s.store.GetUserByEmail(ctx, email)
	if apperr.Is(err, apperr.CodeNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(u.Password, password) {
		return nil, errBadCredentials
	}
	return u, nil
}

var errBadCredentials = apperr.New(apperr.CodeUnauthenticated, "invalid email or password")

func (s *DirectoryService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, apperr.InvalidArgument("user id is required")
	}
	return s.store.GetUser(ctx, id)
}

func (s *DirectoryService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case apperr.Is(err, apperr.CodeNotFound):
		return false, nil
	default:
		return false, err
	}
}

// UpsertGoogleUser returns the account for a verified Google email,
// creating a buyer account with an unusable random password on first
// sign-in.
func (s *DirectoryService) UpsertGoogleUser(ctx context.Context, email, name string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperr.InvalidArgument("google account has no email")
	}
	u, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !apperr.Is(err, apperr.CodeNotFound) {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	hash, err := utils.HashPassword(uuid.NewString())
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "hash password")
	}
	u = &models.User{Name: name, Email: email, Password: hash, Role: models.RoleBuyer}
	if err := s.store.CreateUser(ctx, u); err != nil {
		// lost a race with a concurrent first sign-in
		if apperr.Is(err, apperr.CodeConflict) {
			return s.store.GetUserByEmail(ctx, email)
		}
		return nil, err
	}
	s.log.Info("google user created", zap.String("user_id", u.ID.String()))
	return u, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
