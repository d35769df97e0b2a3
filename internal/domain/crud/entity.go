package crud

// Entity es la forma normalizada que consume el resto del sistema.
// Se produce a partir de un registro opaco del backend via un converter.
type Entity struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Field retorna el valor de un campo por nombre.
// "id" resuelve siempre al ID de la entidad.
func (e Entity) Field(name string) (any, bool) {
	if name == "id" {
		return e.ID, true
	}
	v, ok := e.Fields[name]
	return v, ok
}

// Clone retorna una copia con su propio mapa de campos.
func (e Entity) Clone() Entity {
	out := Entity{ID: e.ID}
	if e.Fields != nil {
		out.Fields = make(map[string]any, len(e.Fields))
		for k, v := range e.Fields {
			out.Fields[k] = v
		}
	}
	return out
}
