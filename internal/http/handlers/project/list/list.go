// Package list реализует HTTP-обработчик списка проектов пользователя.
//
// Archived проекты из списка исключены. Параметр search ищется подстрокой
// в name и url без учета регистра, limit/offset задают страницу.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mrdekan/projects-api-test-task/internal/http/middlewarectx"
	"github.com/mrdekan/projects-api-test-task/internal/http/response"
	"github.com/mrdekan/projects-api-test-task/internal/lib/sl"
	"github.com/mrdekan/projects-api-test-task/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения списка проектов.
type Service interface {
	List(ctx context.Context, ownerUID, search string, limit, offset int) (*models.ProjectList, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список проектов пользователя
// @Description Возвращает страницу неархивных проектов с общим количеством совпадений.
// @Tags Projects
// @Produce  json
// @Param limit query int false "Размер страницы" default(10)
// @Param offset query int false "Смещение" default(0)
// @Param search query string false "Подстрока для поиска по name и url"
// @Success 200 {object} map[string]any "Страница проектов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /projects/list [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.project.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limitStr := r.URL.Query().Get("limit")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 10
	}

	offsetStr := r.URL.Query().Get("offset")
	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		offset = 0
	}

	search := r.URL.Query().Get("search")

	ownerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || ownerUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.List(r.Context(), ownerUID, search, limit, offset)
	if err != nil {
		log.Error("failed to list projects", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list"))
		return
	}

	log.Info("list projects", "count", res.Size, "total", res.Total)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"items": res.Items,
		"total": res.Total,
		"size":  res.Size,
	}))
}
