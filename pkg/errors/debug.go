package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Diagnostic is the loggable breakdown of an error chain. Pricing and
// reconciliation failures surface as typed codes, while database failures
// carry the Postgres detail needed to trace a constraint hit back to a
// migration.
type Diagnostic struct {
	Message string `json:"message"`
	Code    Code   `json:"code,omitempty"`

	Cause []string `json:"cause,omitempty"`

	DB *DBDiagnostic `json:"db,omitempty"`
}

// DBDiagnostic holds the Postgres error fields, regardless of whether the
// driver in play was pgx or lib/pq.
type DBDiagnostic struct {
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Dump flattens err into a Diagnostic for structured logging.
func Dump(err error) Diagnostic {
	if err == nil {
		return Diagnostic{}
	}

	diag := Diagnostic{Message: err.Error()}
	if typed := As(err); typed != nil {
		diag.Code = typed.Code()
	}
	for cause := err; cause != nil; cause = errors.Unwrap(cause) {
		diag.Cause = append(diag.Cause, fmt.Sprintf("%T: %v", cause, cause))
	}
	diag.DB = dbDiagnostic(err)
	return diag
}

func dbDiagnostic(err error) *DBDiagnostic {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &DBDiagnostic{
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &DBDiagnostic{
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}

	return nil
}
