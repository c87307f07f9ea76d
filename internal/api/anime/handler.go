package anime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"animeapi/internal/domain"
	apperror "animeapi/internal/errors"
	"animeapi/internal/pkg/logger"
)

// AnimeService is the contract the handler expects from the business layer.
type AnimeService interface {
	FindAll(ctx context.Context) ([]domain.Anime, error)
	FindByID(ctx context.Context, id int) (domain.Anime, error)
	Save(ctx context.Context, candidate domain.Anime) (domain.Anime, error)
	SaveAll(ctx context.Context, candidates []domain.Anime) ([]domain.Anime, error)
	Update(ctx context.Context, id int, candidate domain.Anime) error
	Delete(ctx context.Context, id int) error
}

// Handler translates HTTP verbs into service calls and selects the success
// status. It carries no business logic; every service failure goes to the
// error presenter unchanged.
type Handler struct {
	Service AnimeService
	Logger  logger.Logger
}

// NewHandler creates the anime handler.
func NewHandler(svc AnimeService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// respond writes a success response; a nil payload produces an empty body.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	h.Logger.Debug("request completed", map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	})

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode response", err)
	}
}

// fail routes any error through the single error presenter.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var internal *apperror.InternalError
	if errors.As(err, &internal) {
		h.Logger.Error("request failed", internal)
	} else {
		h.Logger.Debug("request rejected", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"error":  err.Error(),
		})
	}
	apperror.Present(w, err)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, apperror.NewValidationError("id must be an integer")
	}
	return id, nil
}

// List handles GET /anime.
// @Summary List all anime
// @Tags anime
// @Produce json
// @Success 200 {array} domain.Anime
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Router /anime [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.FindAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, list)
}

// GetByID handles GET /anime/{id}.
// @Summary Find an anime by id
// @Tags anime
// @Produce json
// @Param id path int true "anime id"
// @Success 200 {object} domain.Anime
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /anime/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	anime, err := h.Service.FindByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, anime)
}

// Create handles POST /anime.
// @Summary Create an anime
// @Tags anime
// @Accept json
// @Produce json
// @Param anime body domain.Anime true "anime to create"
// @Success 201 {object} domain.Anime
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Router /anime [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var candidate domain.Anime
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		h.fail(w, r, apperror.NewValidationError("invalid JSON payload"))
		return
	}

	created, err := h.Service.Save(r.Context(), candidate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, created)
}

// CreateBatch handles POST /anime/batch.
// @Summary Create a batch of anime all-or-nothing
// @Tags anime
// @Accept json
// @Produce json
// @Param anime body []domain.Anime true "anime to create"
// @Success 201 {array} domain.Anime
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Router /anime/batch [post]
func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var candidates []domain.Anime
	if err := json.NewDecoder(r.Body).Decode(&candidates); err != nil {
		h.fail(w, r, apperror.NewValidationError("invalid JSON payload"))
		return
	}

	created, err := h.Service.SaveAll(r.Context(), candidates)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, created)
}

// Update handles PUT /anime/{id}.
// @Summary Update an anime
// @Tags anime
// @Accept json
// @Param id path int true "anime id"
// @Param anime body domain.Anime true "new anime value"
// @Success 204 "no content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /anime/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var candidate domain.Anime
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		h.fail(w, r, apperror.NewValidationError("invalid JSON payload"))
		return
	}

	if err := h.Service.Update(r.Context(), id, candidate); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusNoContent, nil)
}

// Delete handles DELETE /anime/{id}.
// @Summary Delete an anime
// @Tags anime
// @Param id path int true "anime id"
// @Success 204 "no content"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /anime/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusNoContent, nil)
}
