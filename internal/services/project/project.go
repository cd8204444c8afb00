// Package services содержит бизнес-логику жизненного цикла проектов.
//
// Каждый проект создается в статусе active и живет ttl от момента создания
// или последнего обновления владельцем. Фоновая проверка переводит
// просроченные проекты в expired, владелец может заархивировать проект
// навсегда. Все операции ограничены владельцем: чужой проект неотличим
// от несуществующего.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mrdekan/projects-api-test-task/internal/models"
)

// cacheTTL ограничивает время жизни закэшированного чтения проекта.
// Значение короткое: строка могла быть переведена в expired фоновой
// проверкой уже после записи в кэш.
const cacheTTL = time.Minute

// ProjectRepository определяет методы для работы с проектами в хранилище.
type ProjectRepository interface {
	// CreateProject добавляет новый проект.
	CreateProject(ctx context.Context, project models.Project) error
	// GetProject возвращает проект владельца по ID, любой статус.
	GetProject(ctx context.Context, id, ownerUID string) (*models.Project, error)
	// UpdateProject перезаписывает name/url и сбрасывает статус в active.
	UpdateProject(ctx context.Context, project models.Project) (*models.Project, error)
	// ArchiveProject переводит проект в терминальный статус archived.
	ArchiveProject(ctx context.Context, id, ownerUID string, updatedAt time.Time) (*models.Project, error)
	// ListProjects возвращает страницу неархивных проектов владельца.
	ListProjects(ctx context.Context, ownerUID, search string, limit, offset int) ([]*models.Project, error)
	// CountProjects подсчитывает совпадения без учета пагинации.
	CountProjects(ctx context.Context, ownerUID, search string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ProjectService реализует бизнес-логику работы с проектами, включая кеширование.
type ProjectService struct {
	repo  ProjectRepository
	cache Cache
	log   *slog.Logger
	ttl   time.Duration
	now   func() time.Time
}

// NewProjectService создает новый экземпляр ProjectService.
// TTL до истечения проекта приходит из конфигурации, часы подменяемы в тестах.
func NewProjectService(repo ProjectRepository, cache Cache, log *slog.Logger, ttl time.Duration) *ProjectService {
	return &ProjectService{
		repo:  repo,
		cache: cache,
		log:   log,
		ttl:   ttl,
		now:   time.Now,
	}
}

func cacheKey(id, ownerUID string) string {
	return fmt.Sprintf("project:%s:%s", id, ownerUID)
}

// Create создает новый проект в статусе active с expires_at = now + ttl.
func (s *ProjectService) Create(ctx context.Context, ownerUID string, req models.DummyProject) (*models.Project, error) {
	now := s.now().UTC()
	project := models.Project{
		ID:        uuid.NewString(),
		OwnerUID:  ownerUID,
		Name:      req.Name,
		URL:       req.URL,
		Status:    models.StatusActive,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	s.log.Info("created new project", slog.String("id", project.ID))

	key := cacheKey(project.ID, ownerUID)
	if err := s.cache.Set(key, project, cacheTTL); err != nil {
		s.log.Warn("failed to cache project", slog.String("key", key), slog.Any("err", err))
	}

	return &project, nil
}

// Update перезаписывает name/url проекта, возвращает его в статус active
// и пересчитывает expires_at от текущего момента. Отсутствующий, чужой
// или archived проект дает apperr.ErrNotFound.
func (s *ProjectService) Update(ctx context.Context, id, ownerUID string, req models.DummyProject) (*models.Project, error) {
	now := s.now().UTC()
	project := models.Project{
		ID:        id,
		OwnerUID:  ownerUID,
		Name:      req.Name,
		URL:       req.URL,
		Status:    models.StatusActive,
		ExpiresAt: now.Add(s.ttl),
		UpdatedAt: now,
	}

	updated, err := s.repo.UpdateProject(ctx, project)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated project in storage", slog.String("id", id))

	key := cacheKey(id, ownerUID)
	if err := s.cache.Set(key, updated, cacheTTL); err != nil {
		s.log.Warn("failed to cache project", slog.String("key", key), slog.Any("err", err))
	}
	return updated, nil
}

// Archive переводит проект в терминальный статус archived, expires_at не трогает.
// Повторная архивация и архивация чужого проекта дают apperr.ErrNotFound.
func (s *ProjectService) Archive(ctx context.Context, id, ownerUID string) (*models.Project, error) {
	archived, err := s.repo.ArchiveProject(ctx, id, ownerUID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info("archived project", slog.String("id", id))

	key := cacheKey(id, ownerUID)
	if err := s.cache.Set(key, archived, cacheTTL); err != nil {
		s.log.Warn("failed to cache project", slog.String("key", key), slog.Any("err", err))
	}
	return archived, nil
}

// Get возвращает проект владельца по ID, используя кеш или репозиторий.
// Archived проект по ID доступен, хотя из списков он исключен.
func (s *ProjectService) Get(ctx context.Context, id, ownerUID string) (*models.Project, error) {
	var result *models.Project
	key := cacheKey(id, ownerUID)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetProject(ctx, id, ownerUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, result, cacheTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), slog.Any("err", err))
	}
	return result, nil
}

// List возвращает страницу неархивных проектов пользователя вместе с общим
// количеством совпадений. Пустой search совпадает со всеми записями.
func (s *ProjectService) List(ctx context.Context, ownerUID, search string, limit, offset int) (*models.ProjectList, error) {
	items, err := s.repo.ListProjects(ctx, ownerUID, search, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountProjects(ctx, ownerUID, search)
	if err != nil {
		return nil, err
	}
	return &models.ProjectList{
		Items: items,
		Total: total,
		Size:  len(items),
	}, nil
}
