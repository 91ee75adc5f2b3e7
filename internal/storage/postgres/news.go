package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const recentNewsQuery = `
	SELECT COUNT(*) FROM "News"
	WHERE "createdAt" >= NOW() - INTERVAL '24 hours'`

// DSNFunc builds a connection string for a database name.
type DSNFunc func(dbname string) string

// NewsCounter counts news created in the last 24 hours.
// Every call opens and closes its own connection.
type NewsCounter struct {
	dsn DSNFunc
}

func NewNewsCounter(dsn DSNFunc) *NewsCounter {
	return &NewsCounter{dsn: dsn}
}

func (c *NewsCounter) CountRecent(ctx context.Context, dbname string) (int64, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", c.dsn(dbname))
	if err != nil {
		return 0, fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	var count int64
	err = db.GetContext(ctx, &count, recentNewsQuery)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count recent news: %w", err)
	}

	return count, nil
}

// ErrorCode returns the SQLSTATE code of a postgres error, or "" if err
// did not come from the server.
func ErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
