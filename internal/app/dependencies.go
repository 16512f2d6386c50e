package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
	"github.com/vladislavdragonenkov/storeadmin/internal/storage/memory"
	"github.com/vladislavdragonenkov/storeadmin/internal/storage/postgres"
)

// Dependencies содержит хранилища приложения. Store равен nil, когда
// сервис работает на in-memory репозиториях.
type Dependencies struct {
	Products domain.ProductRepository
	Orders   domain.OrderRepository
	Store    *postgres.Store
}

// NewDependencies подключает PostgreSQL, если задан DSN, иначе отдаёт
// in-memory хранилище. Недоступная база не валит запуск: сервис
// стартует на памяти, ошибка уходит в лог.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	if cfg.PostgresDSN != "" {
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.WithError(err).Warn("postgres unavailable, falling back to in-memory storage")
		} else {
			logger.Info("postgres storage initialized")
			return &Dependencies{
				Products: postgres.NewProductRepository(store),
				Orders:   postgres.NewOrderRepository(store),
				Store:    store,
			}
		}
	}

	return &Dependencies{
		Products: memory.NewProductRepository(),
		Orders:   memory.NewOrderRepository(),
	}
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close(logger *log.Entry) {
	if d.Store == nil {
		return
	}
	if err := d.Store.Close(); err != nil && logger != nil {
		logger.WithError(err).Warn("failed to close postgres store")
	}
}
