package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ferdiebergado/hrkit/internal/pkg/message"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

// CheckContentType rejects bodied requests that are not JSON.
func CheckContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead ||
			r.Method == http.MethodDelete || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		contentType := r.Header.Get(web.HeaderContentType)
		if !strings.HasPrefix(contentType, web.MimeJSON) {
			web.RespondNotAcceptable(w, fmt.Errorf("invalid content-type: %s", contentType), message.InvalidInput, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
