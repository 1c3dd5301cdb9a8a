package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/stayspot/stayspot/internal/domain"
	"github.com/stayspot/stayspot/internal/repository"
	"github.com/stayspot/stayspot/pkg/auth"
	"github.com/stayspot/stayspot/pkg/config"
	"github.com/stayspot/stayspot/pkg/events"
	"github.com/stayspot/stayspot/pkg/logger"
)

type UserService interface {
	Register(ctx context.Context, req *domain.CreateUserRequest) (*domain.UserInfo, error)
	Login(ctx context.Context, req *domain.LoginRequest) (string, *domain.UserInfo, error)
	GetByID(ctx context.Context, id int64) (*domain.UserInfo, error)
	BecomeOwner(ctx context.Context, id int64, req *domain.PropertyOwnerRequest) (*domain.UserInfo, error)
}

type userService struct {
	users repository.UserRepository
	bus   events.Publisher
	cfg   config.AuthConfig
}

func NewUserService(users repository.UserRepository, bus events.Publisher, cfg config.AuthConfig) UserService {
	return &userService{users: users, bus: bus, cfg: cfg}
}

func (s *userService) Register(ctx context.Context, req *domain.CreateUserRequest) (*domain.UserInfo, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := s.users.Create(ctx, req, hash)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.UserRegistered, events.UserRegisteredEvent{
		UserID:    u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	})

	logger.InfoContext(ctx, "User registered", "user_id", u.ID)
	return u.ToUserInfo(), nil
}

// Login verifies credentials and returns a signed access token. An unknown
// email and a wrong password both come back as ("", nil, nil) so callers
// cannot tell which one failed.
func (s *userService) Login(ctx context.Context, req *domain.LoginRequest) (string, *domain.UserInfo, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return "", nil, err
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, nil
	}

	if err := s.checkBlocked(u); err != nil {
		return "", nil, err
	}

	match, err := argon2id.ComparePasswordAndHash(req.Password, u.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		if err := s.users.RecordLoginAttempt(ctx, u.ID, u.FailedLoginAttempts+1, time.Now()); err != nil {
			return "", nil, err
		}
		logger.WarnContext(ctx, "Failed login attempt", "user_id", u.ID, "attempts", u.FailedLoginAttempts+1)
		return "", nil, nil
	}

	if err := s.users.RecordLoginAttempt(ctx, u.ID, 0, time.Now()); err != nil {
		return "", nil, err
	}

	token, err := auth.NewAccessToken(u.ID, u.Email, u.IsOwner, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, u.ToUserInfo(), nil
}

// checkBlocked enforces the lockout window. The failed-attempt counter is
// only cleared by a successful login; once the window lapses the block lifts
// but one more failure re-blocks immediately.
func (s *userService) checkBlocked(u *domain.User) error {
	if u.FailedLoginAttempts < s.cfg.MaxLoginAttempts || u.LastLoginAttempt == nil {
		return nil
	}

	window := time.Duration(s.cfg.BlockWindowMinutes) * time.Minute
	elapsed := time.Since(*u.LastLoginAttempt)
	if elapsed >= window {
		return nil
	}
	return &domain.BlockedError{
		RemainingMinutes: int(math.Ceil((window - elapsed).Minutes())),
	}
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.UserInfo, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u.ToUserInfo(), nil
}

// BecomeOwner upgrades a user to property owner, registering a contact
// address and phone number. The stored profile picture URL is cleared so the
// owner re-uploads one fitting the listing profile.
func (s *userService) BecomeOwner(ctx context.Context, id int64, req *domain.PropertyOwnerRequest) (*domain.UserInfo, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.PromoteToOwner(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.UserPromotedToOwner, events.UserPromotedToOwnerEvent{
		UserID:     u.ID,
		PromotedAt: u.UpdatedAt,
	})

	logger.InfoContext(ctx, "User promoted to owner", "user_id", u.ID)
	return u.ToUserInfo(), nil
}

func (s *userService) publish(ctx context.Context, subject string, data interface{}) {
	if err := s.bus.Publish(ctx, subject, data); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}
