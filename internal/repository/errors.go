package repository

import "errors"

// ErrReferenciaEnUso is returned by deletes rejected by the RESTRICT policy:
// the row is still referenced by another table.
var ErrReferenciaEnUso = errors.New("el registro está referenciado por otros datos")
