package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrNotFound is wrapped by every lookup that matched no rows.
var ErrNotFound = errors.New("не найдено")

type ConstraintKind string

const (
	UniqueViolation     ConstraintKind = "unique"
	CheckViolation      ConstraintKind = "check"
	ForeignKeyViolation ConstraintKind = "foreign_key"
)

// ConstraintViolation reports a write rejected by a table constraint. The
// services check invariants before writing, so seeing one usually means a
// concurrent request won the race.
type ConstraintViolation struct {
	Kind       ConstraintKind
	Constraint string
	Err        error
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("нарушено ограничение %s (%s)", e.Constraint, e.Kind)
}

func (e *ConstraintViolation) Unwrap() error {
	return e.Err
}

func IsConstraintViolation(err error, kind ConstraintKind) bool {
	var cv *ConstraintViolation
	return errors.As(err, &cv) && cv.Kind == kind
}

// translateError turns postgres constraint errors into *ConstraintViolation
// and passes everything else through.
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	var kind ConstraintKind
	switch pqErr.Code {
	case "23505":
		kind = UniqueViolation
	case "23514":
		kind = CheckViolation
	case "23503":
		kind = ForeignKeyViolation
	default:
		return err
	}

	return &ConstraintViolation{Kind: kind, Constraint: pqErr.Constraint, Err: err}
}
