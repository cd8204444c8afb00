// Package update реализует HTTP-обработчик обновления проекта.
//
// Обновление перезаписывает name/url, возвращает проект в статус active
// и пересчитывает срок истечения. Archived проект обновить нельзя —
// ответ тот же, что и для несуществующего.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mrdekan/projects-api-test-task/internal/apperr"
	"github.com/mrdekan/projects-api-test-task/internal/http/middlewarectx"
	"github.com/mrdekan/projects-api-test-task/internal/http/response"
	"github.com/mrdekan/projects-api-test-task/internal/lib/sl"
	"github.com/mrdekan/projects-api-test-task/internal/models"
)

// Handler управляет HTTP-запросами на обновление проектов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления проекта.
type Service interface {
	Update(ctx context.Context, id, ownerUID string, req models.DummyProject) (*models.Project, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить проект
// @Description Перезаписывает name/url проекта, сбрасывает статус в active и продлевает срок.
// @Tags Projects
// @Accept  json
// @Produce  json
// @Param id path string true "ID проекта"
// @Param request body models.DummyProject true "Новые данные проекта"
// @Success 200 {object} map[string]any "Обновленный проект"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Проект не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /projects/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.project.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("failed to decode id from url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	var req models.DummyProject
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	ownerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || ownerUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	project, err := h.service.Update(r.Context(), id, ownerUID, req)
	if err != nil {
		log.Error("failed to update project", sl.Err(err))
		if apperr.IsNotFound(err) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("project not found"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update project"))
		return
	}

	log.Info("success to update project", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"project": project,
	}))
}
