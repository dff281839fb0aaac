package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// WriteDetail writes the collection API's error envelope,
// {"detail": "<message>"}.
func WriteDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Detail string `json:"detail"`
	}{Detail: detail})
}

// RequireIntParam rejects requests whose chi URL parameter name is not a
// base-10 integer with 422, the status the collection API uses for
// malformed input.
func RequireIntParam(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64); err != nil {
				WriteDetail(w, http.StatusUnprocessableEntity, name+": value is not a valid integer")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
