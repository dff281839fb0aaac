package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestRequireIntParam(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.With(RequireIntParam("id")).Get("/cats/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/cats/1", http.StatusOK},
		{"/cats/-4", http.StatusOK},
		{"/cats/abc", http.StatusUnprocessableEntity},
		{"/cats/1.5", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != tt.wantStatus {
			t.Errorf("GET %s status = %d, want %d", tt.path, rec.Code, tt.wantStatus)
		}
	}
}
