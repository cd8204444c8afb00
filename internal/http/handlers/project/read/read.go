// Package read реализует HTTP-обработчик для получения конкретного проекта по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику чтения проекта
// в рамках текущего пользователя и возвращает данные проекта в JSON-формате.
// Чужой проект неотличим от несуществующего: оба дают 404.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrdekan/projects-api-test-task/internal/apperr"
	"github.com/mrdekan/projects-api-test-task/internal/http/middlewarectx"
	"github.com/mrdekan/projects-api-test-task/internal/http/response"
	"github.com/mrdekan/projects-api-test-task/internal/lib/sl"
	"github.com/mrdekan/projects-api-test-task/internal/models"
)

// Handler обрабатывает запросы на получение проекта по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения проекта.
type Service interface {
	Get(ctx context.Context, id, ownerUID string) (*models.Project, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить проект по ID
// @Description Возвращает проект текущего пользователя, включая archived.
// @Tags Projects
// @Produce  json
// @Param id path string true "ID проекта"
// @Success 200 {object} map[string]any "Данные проекта"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Проект не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /projects/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.project.read"

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

	ownerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || ownerUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.Get(r.Context(), id, ownerUID)
	if err != nil {
		log.Error("failed to read project", sl.Err(err))
		if apperr.IsNotFound(err) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("project not found"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read project"))
		return
	}

	log.Info("success to read project", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"project": res,
	}))
}
