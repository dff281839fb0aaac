package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/catsfront/catsfront/internal/handler/dto"
	"github.com/catsfront/catsfront/internal/middleware"
	"github.com/catsfront/catsfront/internal/model"
	"github.com/catsfront/catsfront/internal/service"
)

// CatIDParam is the chi URL parameter carrying a cat id.
const CatIDParam = "cat_id"

// CatHandler handles HTTP requests for the cats collection.
type CatHandler struct {
	svc    *service.CatService
	logger *slog.Logger
}

// NewCatHandler creates a new CatHandler.
func NewCatHandler(svc *service.CatService, logger *slog.Logger) *CatHandler {
	return &CatHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /cats/.
func (h *CatHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeCat(w, r)
	if !ok {
		return
	}

	cat, err := h.svc.CreateCat(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "cat_created", "cat_id", cat.ID)
	writeJSON(w, http.StatusOK, cat)
}

// List handles GET /cats/?skip=&limit=.
func (h *CatHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	skip, ok := h.queryInt(w, query.Get("skip"), "skip", 0)
	if !ok {
		return
	}
	limit, ok := h.queryInt(w, query.Get("limit"), "limit", service.DefaultLimit)
	if !ok {
		return
	}

	cats, err := h.svc.ListCats(r.Context(), skip, limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cats)
}

// Get handles GET /cats/{cat_id}.
func (h *CatHandler) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.svc.GetCat(r.Context(), catID(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cat)
}

// Update handles PUT /cats/{cat_id}. Every field is replaced.
func (h *CatHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeCat(w, r)
	if !ok {
		return
	}

	id := catID(r)
	cat, err := h.svc.UpdateCat(r.Context(), id, in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "cat_updated", "cat_id", id)
	writeJSON(w, http.StatusOK, cat)
}

// Delete handles DELETE /cats/{cat_id}.
func (h *CatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := catID(r)
	if err := h.svc.DeleteCat(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "cat_deleted", "cat_id", id)
	writeJSON(w, http.StatusOK, dto.DeleteResponse{Message: "Cat deleted successfully"})
}

// decodeCat reads a full cat body. On failure it has already written the
// response.
func (h *CatHandler) decodeCat(w http.ResponseWriter, r *http.Request) (model.CatInput, bool) {
	var req dto.CatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			middleware.WriteDetail(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return model.CatInput{}, false
		}
		writeJSON(w, http.StatusUnprocessableEntity, dto.NewValidationResponse("body", errors.New("invalid JSON body")))
		return model.CatInput{}, false
	}

	in, err := req.ToInput()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, dto.NewValidationResponse("body", err))
		return model.CatInput{}, false
	}
	return in, true
}

func (h *CatHandler) queryInt(w http.ResponseWriter, raw, name string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		verr := &model.ValidationError{Field: name, Message: "value is not a valid integer"}
		writeJSON(w, http.StatusUnprocessableEntity, dto.NewValidationResponse("query", verr))
		return 0, false
	}
	return v, true
}

// handleServiceError maps service errors to HTTP responses.
func (h *CatHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrCatNotFound):
		middleware.WriteDetail(w, http.StatusNotFound, "Cat not found")
	case errors.Is(err, service.ErrInvalidCat):
		writeJSON(w, http.StatusUnprocessableEntity, dto.NewValidationResponse("body", err))
	case errors.Is(err, service.ErrInvalidRange):
		writeJSON(w, http.StatusUnprocessableEntity, dto.NewValidationResponse("query", err))
	default:
		h.logger.ErrorContext(r.Context(), "internal_error",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		middleware.WriteDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// catID returns the path id. Routes are guarded by
// middleware.RequireIntParam, so parsing cannot fail here.
func catID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, CatIDParam), 10, 64)
	return id
}
