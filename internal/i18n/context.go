package i18n

import (
	"context"
	"net/http"
	"strings"
)

// Locale identifies the content language for a request.
type Locale string

const (
	LocaleES Locale = "es"
	LocaleEN Locale = "en"
)

type ctxKey string

const localeKey ctxKey = "auka.locale"

// WithLocale stores the locale in context.
func WithLocale(ctx context.Context, loc Locale) context.Context {
	return context.WithValue(ctx, localeKey, loc)
}

// FromContext extracts the request locale, defaulting to Spanish.
func FromContext(ctx context.Context) Locale {
	val := ctx.Value(localeKey)
	if loc, ok := val.(Locale); ok && (loc == LocaleES || loc == LocaleEN) {
		return loc
	}
	return LocaleES
}

// Middleware resolves the locale from ?lang= or Accept-Language.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loc := resolve(r)
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), loc)))
	})
}

func resolve(r *http.Request) Locale {
	if lang := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang"))); lang != "" {
		if strings.HasPrefix(lang, "en") {
			return LocaleEN
		}
		return LocaleES
	}
	accept := strings.ToLower(r.Header.Get("Accept-Language"))
	for _, part := range strings.Split(accept, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if strings.HasPrefix(tag, "en") {
			return LocaleEN
		}
		if strings.HasPrefix(tag, "es") {
			return LocaleES
		}
	}
	return LocaleES
}
