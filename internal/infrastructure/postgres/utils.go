package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// Querier lo que comparten *pgxpool.Pool y pgx.Tx; los repositorios sirven para ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// Las columnas JSONB y TEXT[] son NOT NULL: los nil se guardan vacíos.
func texts(l entity.LocalizedText) entity.LocalizedText {
	if l == nil {
		return entity.LocalizedText{}
	}
	return l
}

func strs(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func reasons(rs []entity.Reason) []entity.Reason {
	if rs == nil {
		return []entity.Reason{}
	}
	return rs
}
