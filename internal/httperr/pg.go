package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgExclusionViolation = "23P01"
	pgSerializationFail  = "40001"
	pgLockNotAvailable   = "55P03"
)

// IsExclusionConflict detecta la exclusion constraint de turnos superpuestos.
// Es la garantía final contra double-booking: si dos transacciones pasan el
// chequeo de overlap, una de las dos termina acá.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// IsRetryableTxFailure cubre serialization failures y locks con timeout;
// para el caller equivalen a un Conflict (reintentar re-fetcheando slots).
func IsRetryableTxFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFail || pgErr.Code == pgLockNotAvailable
}
