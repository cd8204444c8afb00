package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mrdekan/projects-api-test-task/internal/apperr"
	"github.com/mrdekan/projects-api-test-task/internal/models"
)

// likeEscaper экранирует спецсимволы шаблона ILIKE, поиск идет
// по буквальному вхождению подстроки.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CreateProject вставляет новую запись проекта.
func (s *Storage) CreateProject(ctx context.Context, project models.Project) error {
	const op = "storage.CreateProject"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO projects (id, owner_uid, name, url, status, expires_at,
			      created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.DB.ExecContext(ctx, query,
		project.ID, project.OwnerUID, project.Name, project.URL, project.Status,
		project.ExpiresAt, project.CreatedAt, project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProject возвращает проект по ID в рамках владельца.
// Чужой или отсутствующий проект неразличимы: оба дают apperr.ErrNotFound.
// Статус не фильтруется, archived проект владельцу по ID доступен.
func (s *Storage) GetProject(ctx context.Context, id, ownerUID string) (*models.Project, error) {
	const op = "storage.GetProject"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_uid, name, url, status, expires_at, created_at, updated_at
			  FROM projects
			  WHERE id = $1 AND owner_uid = $2`
	row := s.DB.QueryRowContext(ctx, query, id, ownerUID)

	var result models.Project
	if err := row.Scan(&result.ID, &result.OwnerUID, &result.Name, &result.URL,
		&result.Status, &result.ExpiresAt, &result.CreatedAt, &result.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateProject перезаписывает name/url проекта, сбрасывает статус в active
// и пересчитанный expires_at одним атомарным UPDATE. Предикат отсекает
// archived строки: обновление архивного проекта равнозначно его отсутствию.
func (s *Storage) UpdateProject(ctx context.Context, project models.Project) (*models.Project, error) {
	const op = "storage.UpdateProject"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE projects
			  SET name = $1, url = $2, status = $3, expires_at = $4, updated_at = $5
			  WHERE id = $6 AND owner_uid = $7 AND status <> $8
			  RETURNING id, owner_uid, name, url, status, expires_at, created_at, updated_at`
	row := s.DB.QueryRowContext(ctx, query,
		project.Name, project.URL, models.StatusActive, project.ExpiresAt, project.UpdatedAt,
		project.ID, project.OwnerUID, models.StatusArchived)

	var result models.Project
	if err := row.Scan(&result.ID, &result.OwnerUID, &result.Name, &result.URL,
		&result.Status, &result.ExpiresAt, &result.CreatedAt, &result.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ArchiveProject переводит проект в терминальный статус archived.
// Повторная архивация уже архивного проекта дает apperr.ErrNotFound.
// Поле expires_at не меняется.
func (s *Storage) ArchiveProject(ctx context.Context, id, ownerUID string, updatedAt time.Time) (*models.Project, error) {
	const op = "storage.ArchiveProject"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE projects
			  SET status = $1, updated_at = $2
			  WHERE id = $3 AND owner_uid = $4 AND status <> $1
			  RETURNING id, owner_uid, name, url, status, expires_at, created_at, updated_at`
	row := s.DB.QueryRowContext(ctx, query, models.StatusArchived, updatedAt, id, ownerUID)

	var result models.Project
	if err := row.Scan(&result.ID, &result.OwnerUID, &result.Name, &result.URL,
		&result.Status, &result.ExpiresAt, &result.CreatedAt, &result.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListProjects возвращает страницу неархивных проектов пользователя.
// Пустой search совпадает со всеми записями, непустой ищется подстрокой
// в name и url без учета регистра. Сортировка по created_at с id как
// детерминированным разрешением совпадений, чтобы пагинация была стабильной.
func (s *Storage) ListProjects(ctx context.Context, ownerUID, search string, limit, offset int) ([]*models.Project, error) {
	const op = "storage.ListProjects"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_uid, name, url, status, expires_at, created_at, updated_at
			  FROM projects
			  WHERE owner_uid = $1
			    AND status <> $2
			    AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR url ILIKE '%' || $3 || '%')
			  ORDER BY created_at, id
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID, models.StatusArchived, likeEscaper.Replace(search), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Project
	for rows.Next() {
		var item models.Project
		if err := rows.Scan(&item.ID, &item.OwnerUID, &item.Name, &item.URL,
			&item.Status, &item.ExpiresAt, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountProjects подсчитывает количество неархивных проектов пользователя
// под тем же фильтром, что и ListProjects, но без пагинации.
func (s *Storage) CountProjects(ctx context.Context, ownerUID, search string) (int, error) {
	const op = "storage.CountProjects"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*)
			  FROM projects
			  WHERE owner_uid = $1
			    AND status <> $2
			    AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR url ILIKE '%' || $3 || '%')`
	var total int
	if err := s.DB.QueryRowContext(ctx, query, ownerUID, models.StatusArchived, likeEscaper.Replace(search)).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// ExpireStale переводит все active проекты с истекшим expires_at в статус
// expired одним UPDATE и возвращает затронутые строки. Предикат по статусу
// active исключает и expired, и archived строки, поэтому повторный запуск
// без новых истечений не меняет ничего, а archived остается терминальным.
func (s *Storage) ExpireStale(ctx context.Context, now time.Time) ([]*models.Project, error) {
	const op = "storage.ExpireStale"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE projects
			  SET status = $1
			  WHERE status = $2 AND expires_at < $3
			  RETURNING id, owner_uid, name, url, status, expires_at, created_at, updated_at`
	rows, err := s.DB.QueryContext(ctx, query, models.StatusExpired, models.StatusActive, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Project
	for rows.Next() {
		var item models.Project
		if err := rows.Scan(&item.ID, &item.OwnerUID, &item.Name, &item.URL,
			&item.Status, &item.ExpiresAt, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
