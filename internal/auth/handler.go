package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ferdiebergado/hrkit/internal/config"
	"github.com/ferdiebergado/hrkit/internal/pkg/message"
	"github.com/ferdiebergado/hrkit/internal/pkg/security"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
	"github.com/ferdiebergado/hrkit/internal/user"
)

type AuthService interface {
	LoginUser(ctx context.Context, params LoginUserParams) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
}

type Handler struct {
	svc AuthService
	cfg *config.Config
}

func NewHandler(svc AuthService, cfg *config.Config) *Handler {
	return &Handler{
		svc: svc,
		cfg: cfg,
	}
}

type UserLoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email"`
	Password string `json:"password,omitempty" validate:"required"`
}

func (r *UserLoginRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", "*"),
		slog.String("password", "*"),
	)
}

type UserLoginResponse struct {
	AccessToken string `json:"access_token,omitempty"`
}

func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[UserLoginRequest](r.Context())
	if err != nil {
		web.RespondUnauthorized(w, err, message.InvalidUser, nil)
		return
	}

	params := LoginUserParams(req)
	accessToken, refreshToken, err := h.svc.LoginUser(r.Context(), params)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			web.RespondUnauthorized(w, err, message.InvalidUser, nil)
			return
		}

		web.RespondInternalServerError(w, err)
		return
	}

	cookieCfg := h.cfg.Cookie
	refreshCookie := security.NewSecureCookie(cookieCfg.Name, refreshToken, cookieCfg.MaxAge.Duration)
	http.SetCookie(w, refreshCookie)

	msg := "Logged in."
	data := &UserLoginResponse{
		AccessToken: accessToken,
	}
	web.RespondOK(w, &msg, data)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshCookie, err := r.Cookie(h.cfg.Cookie.Name)
	if err != nil {
		web.RespondUnauthorized(w, err, message.InvalidUser, nil)
		return
	}

	accessToken, err := h.svc.RefreshToken(r.Context(), refreshCookie.Value)
	if err != nil {
		web.RespondUnauthorized(w, err, message.InvalidUser, nil)
		return
	}

	msg := "Token refreshed."
	data := &UserLoginResponse{
		AccessToken: accessToken,
	}
	web.RespondOK(w, &msg, data)
}

func (h *Handler) LogoutUser(w http.ResponseWriter, r *http.Request) {
	cookieName := h.cfg.Cookie.Name
	if _, err := r.Cookie(cookieName); err != nil {
		web.RespondUnauthorized(w, err, message.InvalidUser, nil)
		return
	}

	logoutCookie := security.NewSecureCookie(cookieName, "", -time.Second)
	http.SetCookie(w, logoutCookie)

	msg := "Logged out."
	web.RespondOK(w, &msg, &struct{}{})
}
