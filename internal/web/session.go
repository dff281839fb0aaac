package web

import (
	"context"
	"net/http"

	"github.com/catsfront/catsfront/internal/session"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "catsfront_session"

type sessionKey struct{}

// withSession attaches the caller's session, starting one when the cookie
// is missing or names an expired session.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(SessionCookie); err == nil {
			if sess, ok := s.cfg.Sessions.Get(c.Value); ok {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
				return
			}
		}

		sess, err := s.cfg.Sessions.Create()
		if err != nil {
			s.logger.ErrorContext(r.Context(), "session_create_failed", "error", err)
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionKey{}).(*session.Session)
	return sess
}
