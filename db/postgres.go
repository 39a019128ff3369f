package db

import (
	"context"
	"errors"

	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrMatchNotFound   error = errors.New("match not found")
	ErrResultNotFound  error = errors.New("survey result not found")
	ErrAbsenceNotFound error = errors.New("absence record not found")
	ErrDuplicateBallot error = errors.New("duplicate ballot set for voter")
	ErrDuplicateSurvey error = errors.New("duplicate survey for voter")
)

func New(ctx context.Context, connString string, clock clock.Clock) (DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &postgresDB{pool: pool, clock: clock}, nil
}

type postgresDB struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}
