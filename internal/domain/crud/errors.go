package crud

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indica que la entidad solicitada no existe en el catálogo.
	ErrNotFound = errors.New("not found")

	// ErrCreatedWithoutID indica que el servicio de dominio reportó éxito
	// al crear pero no retornó un id (inconsistencia detectada por el adapter).
	ErrCreatedWithoutID = errors.New("created but no id returned")

	// ErrInvalidConfig indica una configuración de adapter incompleta.
	ErrInvalidConfig = errors.New("invalid adapter config")
)

// ServiceError envuelve un fallo reportado por el servicio de dominio.
// El mensaje del backend se conserva verbatim; Cause preserva la cadena
// original para errors.Is/As (ej: un update de id inexistente sigue
// siendo ErrNotFound a través del envoltorio).
type ServiceError struct {
	Op      string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error on %s: %s", e.Op, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

// BulkError agrega los fallos parciales de una operación masiva.
// Solo reporta cuántos fallaron, no cuáles.
type BulkError struct {
	Verb   string
	Failed int
	Total  int
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("failed to %s %d of %d items", e.Verb, e.Failed, e.Total)
}
