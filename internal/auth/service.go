package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ferdiebergado/hrkit/internal/config"
	"github.com/ferdiebergado/hrkit/internal/platform/hash"
	"github.com/ferdiebergado/hrkit/internal/platform/jwt"
	"github.com/ferdiebergado/hrkit/internal/user"
)

var _ AuthService = &Service{}

const maskChar = "*"

type Providers struct {
	Hasher hash.Hasher
	Signer jwt.Signer
}

type Service struct {
	userSvc user.UserService
	hasher  hash.Hasher
	signer  jwt.Signer
	cfg     *config.Config
}

func NewService(userSvc user.UserService, providers *Providers, cfg *config.Config) *Service {
	return &Service{
		userSvc: userSvc,
		hasher:  providers.Hasher,
		signer:  providers.Signer,
		cfg:     cfg,
	}
}

type LoginUserParams struct {
	Email    string
	Password string
}

func (p *LoginUserParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
		slog.String("password", maskChar),
	)
}

func (s *Service) LoginUser(ctx context.Context, params LoginUserParams) (accessToken, refreshToken string, err error) {
	u, err := s.userSvc.FindUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", "", user.ErrNotFound
		}
		return "", "", fmt.Errorf("find user by email: %w", err)
	}

	ok, err := s.hasher.Verify(params.Password, u.PasswordHash)
	if err != nil {
		return "", "", fmt.Errorf("verify password for user %s: %w", u.ID, err)
	}

	if !ok {
		return "", "", user.ErrNotFound
	}

	jwtCfg := s.cfg.JWT
	accessToken, err = s.signer.Sign(u.ID, []string{jwtCfg.Issuer}, jwtCfg.TTL.Duration)
	if err != nil {
		return "", "", fmt.Errorf("sign access token for user %s: %w", u.ID, err)
	}

	refreshToken, err = s.signer.Sign(u.ID, []string{jwtCfg.Issuer}, jwtCfg.RefreshTTL.Duration)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token for user %s: %w", u.ID, err)
	}

	return accessToken, refreshToken, nil
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.signer.Verify(refreshToken)
	if err != nil {
		return "", fmt.Errorf("verify refresh token: %w", err)
	}

	// The account may have been removed since the refresh token was issued.
	if _, err := s.userSvc.FindUser(ctx, claims.UserID); err != nil {
		return "", fmt.Errorf("find user %s: %w", claims.UserID, err)
	}

	jwtCfg := s.cfg.JWT
	accessToken, err := s.signer.Sign(claims.UserID, []string{jwtCfg.Issuer}, jwtCfg.TTL.Duration)
	if err != nil {
		return "", fmt.Errorf("sign access token for user %s: %w", claims.UserID, err)
	}

	return accessToken, nil
}
