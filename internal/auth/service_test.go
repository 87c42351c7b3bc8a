package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ferdiebergado/hrkit/internal/auth"
	"github.com/ferdiebergado/hrkit/internal/config"
	"github.com/ferdiebergado/hrkit/internal/model"
	"github.com/ferdiebergado/hrkit/internal/pkg/timex"
	"github.com/ferdiebergado/hrkit/internal/platform/hash"
	"github.com/ferdiebergado/hrkit/internal/platform/jwt"
	"github.com/ferdiebergado/hrkit/internal/user"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: &config.JWT{
			Issuer:     "hrkit",
			TTL:        timex.Duration{Duration: 15 * time.Minute},
			RefreshTTL: timex.Duration{Duration: 24 * time.Hour},
		},
	}
}

func adminUser() *user.User {
	return &user.User{
		Model:        model.Model{ID: "u1", Version: 1},
		Email:        "admin@example.com",
		PasswordHash: "$argon2id$hash",
	}
}

func TestService_LoginUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		userSvc user.UserService
		hasher  hash.Hasher
		wantErr error
	}{
		{
			name: "success - valid credentials",
			userSvc: &user.StubService{
				FindByEmailFunc: func(_ context.Context, _ string) (*user.User, error) {
					return adminUser(), nil
				},
			},
			hasher: &hash.StubHasher{
				VerifyFunc: func(_, _ string) (bool, error) { return true, nil },
			},
		},
		{
			name: "error - unknown email",
			userSvc: &user.StubService{
				FindByEmailFunc: func(_ context.Context, _ string) (*user.User, error) {
					return nil, user.ErrNotFound
				},
			},
			hasher:  &hash.StubHasher{},
			wantErr: user.ErrNotFound,
		},
		{
			name: "error - wrong password",
			userSvc: &user.StubService{
				FindByEmailFunc: func(_ context.Context, _ string) (*user.User, error) {
					return adminUser(), nil
				},
			},
			hasher: &hash.StubHasher{
				VerifyFunc: func(_, _ string) (bool, error) { return false, nil },
			},
			wantErr: user.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			signer := &jwt.StubSigner{
				SignFunc: func(subject string, _ []string, duration time.Duration) (string, error) {
					if duration == 15*time.Minute {
						return "access-" + subject, nil
					}
					return "refresh-" + subject, nil
				},
			}

			svc := auth.NewService(tt.userSvc, &auth.Providers{Hasher: tt.hasher, Signer: signer}, testConfig())
			access, refresh, err := svc.LoginUser(context.Background(), auth.LoginUserParams{
				Email:    "admin@example.com",
				Password: "hunter2",
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("svc.LoginUser() error = %v, want: %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("svc.LoginUser() error = %v", err)
			}

			if access != "access-u1" {
				t.Errorf("access = %q, want: %q", access, "access-u1")
			}
			if refresh != "refresh-u1" {
				t.Errorf("refresh = %q, want: %q", refresh, "refresh-u1")
			}
		})
	}
}

func TestService_RefreshToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		signer  jwt.Signer
		userSvc user.UserService
		wantErr bool
	}{
		{
			name: "success - valid refresh token",
			signer: &jwt.StubSigner{
				VerifyFunc: func(_ string) (*jwt.Claims, error) {
					return &jwt.Claims{UserID: "u1"}, nil
				},
				SignFunc: func(subject string, _ []string, _ time.Duration) (string, error) {
					return "access-" + subject, nil
				},
			},
			userSvc: &user.StubService{
				FindFunc: func(_ context.Context, _ string) (*user.User, error) {
					return adminUser(), nil
				},
			},
		},
		{
			name: "error - expired token",
			signer: &jwt.StubSigner{
				VerifyFunc: func(_ string) (*jwt.Claims, error) {
					return nil, errors.New("token is expired")
				},
			},
			userSvc: &user.StubService{},
			wantErr: true,
		},
		{
			name: "error - account removed since issue",
			signer: &jwt.StubSigner{
				VerifyFunc: func(_ string) (*jwt.Claims, error) {
					return &jwt.Claims{UserID: "u1"}, nil
				},
			},
			userSvc: &user.StubService{
				FindFunc: func(_ context.Context, _ string) (*user.User, error) {
					return nil, user.ErrNotFound
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := auth.NewService(tt.userSvc, &auth.Providers{Hasher: &hash.StubHasher{}, Signer: tt.signer}, testConfig())
			access, err := svc.RefreshToken(context.Background(), "some-refresh-token")
			if tt.wantErr {
				if err == nil {
					t.Fatal("svc.RefreshToken() error = nil, want an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("svc.RefreshToken() error = %v", err)
			}

			if access != "access-u1" {
				t.Errorf("access = %q, want: %q", access, "access-u1")
			}
		})
	}
}
