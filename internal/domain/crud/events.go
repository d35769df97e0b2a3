package crud

// EventKind clasifica una notificación de cambio.
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// Scope delimita una suscripción de tiempo real: un tenant y un tipo
// de entidad. Es también el límite de aislamiento de cada notificación.
type Scope struct {
	OrganizationID string `json:"organization_id"`
	EntityType     string `json:"entity_type"`
}

// ChangeEvent es la notificación emitida por el transporte de tiempo real.
type ChangeEvent struct {
	Kind    EventKind      `json:"kind"`
	Scope   Scope          `json:"scope"`
	Payload map[string]any `json:"payload,omitempty"`
}
