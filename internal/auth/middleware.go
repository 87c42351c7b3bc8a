package auth

import (
	"errors"
	"net/http"

	"github.com/ferdiebergado/hrkit/internal/pkg/message"
	"github.com/ferdiebergado/hrkit/internal/pkg/security"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
	"github.com/ferdiebergado/hrkit/internal/platform/jwt"
)

var ErrInvalidToken = errors.New("invalid token")

func RequireToken(signer jwt.Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := security.ExtractBearerToken(r)
			if err != nil || token == "" {
				web.RespondUnauthorized(w, err, message.InvalidUser, nil)
				return
			}

			claims, err := signer.Verify(token)
			if err != nil {
				web.RespondUnauthorized(w, err, message.InvalidUser, nil)
				return
			}

			ctx := ContextWithUser(r.Context(), claims.UserID)
			r = r.WithContext(ctx)
			next.ServeHTTP(w, r)
		})
	}
}
