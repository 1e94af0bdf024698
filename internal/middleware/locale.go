package middleware

import (
	"context"
	"net/http"

	"github.com/novalabs/nova/internal/utils"
)

type ctxKey int

const languageKey ctxKey = 1

// Language resolves the caller's preferred quiz language from the lang query
// param or Accept-Language header and stores it in the request context.
// Nothing is stored when neither source names a supported language, so
// handlers can tell "no preference" from an explicit one.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := utils.DetermineLanguage(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
		if lang != "" {
			r = r.WithContext(context.WithValue(r.Context(), languageKey, lang))
		}
		next.ServeHTTP(w, r)
	})
}

// LanguageFromContext retrieves the language stored by Language, or "".
func LanguageFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(languageKey).(string); ok {
		return s
	}
	return ""
}
