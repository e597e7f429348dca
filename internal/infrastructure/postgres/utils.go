package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/OpenBar-api/internal/domain"
)

// Querier lo que los repos necesitan de la conexión: lo cumplen *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Códigos SQLSTATE usados.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

// wrapWrite traduce las violaciones de constraints a errores de dominio.
// notFound se devuelve si falla una FK (fila referenciada inexistente) en inserciones/updates.
func wrapWrite(err error, op string, notFound error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case hasCode(err, codeForeignKeyViolation):
		return notFound
	case hasCode(err, codeCheckViolation):
		return domain.ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}

// wrapDelete: en un DELETE una FK violada significa que la fila sigue referenciada.
func wrapDelete(err error, op string) error {
	if err == nil {
		return nil
	}
	if hasCode(err, codeForeignKeyViolation) {
		return domain.ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}

// noRows convierte pgx.ErrNoRows en (false, nil).
func noRows(err error) (bool, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return true, nil
	}
	return false, err
}

func wrapRead(err error, op string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
