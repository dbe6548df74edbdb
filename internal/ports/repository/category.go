package repository

import (
	"context"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

type ICategoryRepo interface {
	List(ctx context.Context) ([]*domain.Category, error)
	GetByKey(ctx context.Context, key string) (*domain.Category, error)
}

// ICounterRepo последовательные счётчики для идентификаторов
type ICounterRepo interface {
	Next(ctx context.Context, counter domain.CounterType) (int64, error)
}
