package common

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
	ErrUnavailable       = errors.New("storage unavailable")
)

// DomainError carries one of the sentinel kinds above together with the
// entity and field it concerns. errors.Is matches against Kind and, through
// Unwrap, against the wrapped cause.
type DomainError struct {
	Kind    error
	Entity  string
	ID      string
	Field   string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Entity != "" {
		b.WriteString(": ")
		b.WriteString(e.Entity)
		if e.ID != "" {
			b.WriteString(" ")
			b.WriteString(e.ID)
		}
	}
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DomainError) Is(target error) bool {
	return e.Kind == target
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func ValidationError(field, message string) error {
	return &DomainError{Kind: ErrValidation, Field: field, Message: message}
}

func NotFoundError(entity, id string) error {
	return &DomainError{Kind: ErrNotFound, Entity: entity, ID: id}
}

func ConflictError(entity, id, message string) error {
	return &DomainError{Kind: ErrConflict, Entity: entity, ID: id, Message: message}
}

func InsufficientStockError(entity, id, message string, cause error) error {
	return &DomainError{Kind: ErrInsufficientStock, Entity: entity, ID: id, Message: message, Err: cause}
}

func UnavailableError(op string, cause error) error {
	return &DomainError{Kind: ErrUnavailable, Message: op, Err: cause}
}

// ClassifyStorageError maps a raw storage error onto the taxonomy. Errors that
// already carry a kind pass through untouched; anything unrecognised is wrapped
// with op and returned as is.
func ClassifyStorageError(op, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFoundError(entity, id)
	}
	if IsUnavailable(err) {
		return UnavailableError(op, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ConflictError(entity, id, "already exists")
		case "23503":
			return &DomainError{Kind: ErrNotFound, Entity: entity, ID: id, Message: "referenced record does not exist", Err: err}
		case "22003":
			return &DomainError{Kind: ErrValidation, Entity: entity, ID: id, Field: pgErr.ColumnName, Message: "value out of range", Err: err}
		case "23514":
			return &DomainError{Kind: ErrInsufficientStock, Entity: entity, ID: id, Message: pgErr.ConstraintName, Err: err}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsUnavailable reports whether err is a transient storage failure that a
// caller may retry.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected, lock_not_available, cannot_connect_now
		switch pgErr.Code {
		case "40001", "40P01", "55P03", "57P03":
			return true
		}
	}
	return false
}
