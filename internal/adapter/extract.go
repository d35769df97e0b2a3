package adapter

import "github.com/dropDatabas3/crudkit/internal/refdata"

// containerKeys son las claves conocidas donde los servicios de dominio
// suelen anidar su array de entidades. Se prueban en orden.
var containerKeys = []string{"products", "entities", "items"}

// DefaultExtract localiza el array de entidades en un payload opaco.
// Heurística deliberadamente tolerante: prueba las claves conocidas,
// después chequea si el payload es él mismo un array; si nada matchea
// retorna vacío en vez de fallar, así integrar un servicio nuevo con
// shapes comunes no requiere extractor propio.
func DefaultExtract(payload any) []map[string]any {
	if payload == nil {
		return []map[string]any{}
	}
	if m, ok := payload.(map[string]any); ok {
		for _, key := range containerKeys {
			if v, ok := m[key]; ok {
				if out := toRecords(v); out != nil {
					return out
				}
			}
		}
		return []map[string]any{}
	}
	if out := toRecords(payload); out != nil {
		return out
	}
	return []map[string]any{}
}

// toRecords normaliza un valor a []map[string]any, o nil si no es array.
func toRecords(v any) []map[string]any {
	switch arr := v.(type) {
	case []map[string]any:
		return arr
	case []any:
		out := make([]map[string]any, 0, len(arr))
		for _, e := range arr {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// defaultRefExtract extrae pares {id, name} del payload usando la
// extracción de entidades por defecto.
func defaultRefExtract(payload any) []refdata.Ref {
	records := DefaultExtract(payload)
	refs := make([]refdata.Ref, 0, len(records))
	for _, r := range records {
		id, _ := r["id"].(string)
		name, _ := r["name"].(string)
		if id != "" && name != "" {
			refs = append(refs, refdata.Ref{ID: id, Name: name})
		}
	}
	return refs
}
