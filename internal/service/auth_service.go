package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"shelfwise/internal/config"
	"shelfwise/internal/dto"
	"shelfwise/internal/model"
	"shelfwise/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrNotConfirmed       = errors.New("account is not confirmed")
	ErrInvalidCode        = errors.New("invalid confirmation code")
)

// AuthService is the in-process identity provider: email/password accounts
// with a sign-up confirmation step, issuing HS256 id tokens.
type AuthService interface {
	SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.SignUpResponse, error)
	ConfirmSignUp(ctx context.Context, req dto.ConfirmSignUpRequest) error
	SignIn(ctx context.Context, req dto.SignInRequest) (*dto.SignInResponse, error)
	// SignOut revokes the token carrying jti until expiresAt.
	SignOut(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	repo     repository.UserRepository
	denylist repository.TokenDenylist
	cfg      *config.Config
}

func NewAuthService(repo repository.UserRepository, denylist repository.TokenDenylist, cfg *config.Config) AuthService {
	return &authService{repo: repo, denylist: denylist, cfg: cfg}
}

// SignUp creates an unconfirmed account and generates a one-time confirmation
// code. There is no mail delivery: the code is logged, and echoed in the
// response outside production so local flows can complete.
func (s *authService) SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.SignUpResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}

	code := uuid.NewString()
	user := &model.User{
		ID:               uuid.New(),
		Email:            req.Email,
		PasswordHash:     string(hash),
		ConfirmationCode: &code,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("email", user.Email).Str("code", code).Msg("confirmation code issued")

	resp := &dto.SignUpResponse{Username: user.Email, Email: user.Email}
	if s.cfg.Env != "production" {
		resp.ConfirmationCode = code
	}
	return resp, nil
}

// ConfirmSignUp activates the account. Confirming an already-confirmed
// account is a no-op success.
func (s *authService) ConfirmSignUp(ctx context.Context, req dto.ConfirmSignUpRequest) error {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return err
	}
	if user.Confirmed {
		return nil
	}
	if user.ConfirmationCode == nil || *user.ConfirmationCode != req.Code {
		return ErrInvalidCode
	}
	user.Confirmed = true
	user.ConfirmationCode = nil
	return s.repo.Update(ctx, user)
}

func (s *authService) SignIn(ctx context.Context, req dto.SignInRequest) (*dto.SignInResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Confirmed {
		return nil, ErrNotConfirmed
	}

	expiry := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &dto.SignInResponse{
		IDToken:   signed,
		UserID:    user.ID.String(),
		Email:     user.Email,
		ExpiresIn: s.cfg.JWTExpirationHours * 3600,
	}, nil
}

func (s *authService) SignOut(ctx context.Context, jti string, expiresAt time.Time) error {
	return s.denylist.Revoke(ctx, jti, time.Until(expiresAt))
}
