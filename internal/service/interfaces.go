package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"news_watchdog/internal/domain"
)

type NewsCounter interface {
	CountRecent(ctx context.Context, dbname string) (int64, error)
}

type Notifier interface {
	Notify(ctx context.Context, alert domain.StaleAlert) error
}

type Formatter interface {
	Format(target domain.Target) string
}
