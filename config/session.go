package config

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// NewSessionStore returns the cookie store that carries short-lived OAuth
// state between the redirect to the provider and its callback.
func NewSessionStore(cfg Config) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Auth.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
