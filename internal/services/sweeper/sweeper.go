// Package services содержит фоновую проверку истечения проектов.
//
// SweeperService с фиксированным периодом переводит просроченные active
// проекты в expired. Ошибка хранилища на одном тике логируется и
// проглатывается, следующий тик запускается независимо.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/mrdekan/projects-api-test-task/internal/lib/sl"
	"github.com/mrdekan/projects-api-test-task/internal/models"
	"github.com/mrdekan/projects-api-test-task/internal/rabbitmq"
)

// ProjectRepository описывает контракт хранилища для фоновой проверки.
type ProjectRepository interface {
	// ExpireStale переводит просроченные active проекты в expired
	// и возвращает затронутые строки.
	ExpireStale(ctx context.Context, now time.Time) ([]*models.Project, error)
}

// SweeperService периодически запускает проверку истечения проектов.
type SweeperService struct {
	repo     ProjectRepository
	log      *slog.Logger
	interval time.Duration
	now      func() time.Time
}

// NewSweeperService создает новый экземпляр SweeperService.
func NewSweeperService(repo ProjectRepository, log *slog.Logger, interval time.Duration) *SweeperService {
	return &SweeperService{
		repo:     repo,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

// Run запускает проверку сразу и затем по тикеру, пока контекст не отменен.
// Канал channel может быть nil, тогда события истечения не публикуются.
func (s *SweeperService) Run(ctx context.Context, channel *amqp.Channel) {
	s.Sweep(ctx, channel)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx, channel)
		}
	}
}

// Sweep выполняет один проход: помечает просроченные проекты как expired
// и публикует событие на каждый переведенный проект. Проход идемпотентен,
// повторный запуск без новых истечений ничего не меняет.
func (s *SweeperService) Sweep(ctx context.Context, channel *amqp.Channel) {
	now := s.now().UTC()
	expired, err := s.repo.ExpireStale(ctx, now)
	if err != nil {
		s.log.Error("failed to expire stale projects", sl.Err(err))
		return
	}
	if len(expired) == 0 {
		s.log.Info("no stale projects found")
		return
	}
	s.log.Info("marked stale projects as expired", "count", len(expired))

	if channel == nil {
		return
	}
	for _, project := range expired {
		event := models.ExpiredEvent{
			ProjectID: project.ID,
			OwnerUID:  project.OwnerUID,
			Name:      project.Name,
			ExpiredAt: now,
		}
		err = rabbitmq.PublishMessage(channel, rabbitmq.ExchangeProjects, rabbitmq.RoutingKeyExpired, event)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
