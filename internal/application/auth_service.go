package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"digicommerce/internal/domain/entity"
	"digicommerce/internal/domain/repository"
	"digicommerce/pkg/helpers"
	"digicommerce/pkg/mailer"
	tpl "digicommerce/pkg/mailer/templates"
)

// AuthService orchestrates registration, login, email verification and
// token refresh over the credential store and the token manager.
type AuthService struct {
	Repo       repository.UserRepository
	JWT        *helpers.JWTManager
	Logger     *logrus.Logger
	Pub        *helpers.RabbitPublisher
	BcryptCost int
	AppName    string
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, pub *helpers.RabbitPublisher, bcryptCost int, appName string) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Logger: logger, Pub: pub, BcryptCost: bcryptCost, AppName: appName}
}

// AuthResult pairs the public user view with a freshly issued token.
type AuthResult struct {
	User  entity.PublicUser `json:"user"`
	Token string            `json:"token"`
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and issues its first token.
// The email pre-check and the storage unique constraint both map to
// ErrEmailTaken, so a concurrent duplicate never yields two successes.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleBuyer
	}
	if !entity.SelfRegisterRole(role) {
		return nil, ErrRoleNotAllowed
	}

	email := normalizeEmail(in.Email)
	if existing, err := s.Repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:      email,
		Password:   hash,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Role:       role,
		IsVerified: false,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, _, err := s.JWT.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		return nil, err
	}

	s.enqueueWelcomeEmail(ctx, u)

	return &AuthResult{User: u.PublicView(), Token: token}, nil
}

// Login validates credentials and issues a token. Unknown email and
// wrong password fail identically so responses cannot be used to
// enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	token, _, err := s.JWT.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		return nil, err
	}
	return &AuthResult{User: u.PublicView(), Token: token}, nil
}

// VerifyEmail marks the account verified. Idempotent: verifying an
// already verified user re-applies the same state.
func (s *AuthService) VerifyEmail(ctx context.Context, userID string) (*entity.PublicUser, error) {
	if err := s.Repo.SetVerified(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	pv := u.PublicView()
	return &pv, nil
}

// Refresh re-issues a token from verified claims without reloading the
// user record. A demoted or deleted user keeps stale claims until the
// old token's natural expiry.
func (s *AuthService) Refresh(claims *helpers.Claims) (string, time.Time, error) {
	return s.JWT.Generate(claims.UserID, claims.Email, claims.Role)
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.PublicUser, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	pv := u.PublicView()
	return &pv, nil
}

type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Bio       string
	Avatar    string
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.PublicUser, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if in.FirstName != "" {
		u.FirstName = in.FirstName
	}
	if in.LastName != "" {
		u.LastName = in.LastName
	}
	if in.Bio != "" {
		u.Bio = in.Bio
	}
	if in.Avatar != "" {
		u.Avatar = in.Avatar
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	pv := u.PublicView()
	return &pv, nil
}

func (s *AuthService) ListUsers(ctx context.Context, page, limit int) ([]entity.PublicUser, error) {
	users, err := s.Repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	out := make([]entity.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.PublicView())
	}
	return out, nil
}

func (s *AuthService) enqueueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	data := tpl.EmailData{
		Name:    u.FirstName + " " + u.LastName,
		Email:   u.Email,
		Type:    tpl.Welcome,
		AppName: s.AppName,
	}
	job := mailer.EmailJob{To: u.Email, Template: tpl.Welcome, Data: tpl.ToMap(data)}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue welcome email failed")
	}
}
