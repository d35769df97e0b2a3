// Package crud define los contratos de dominio del motor CRUD genérico.
//
// Estos tipos representan el contrato uniforme de acceso a datos,
// independiente del servicio de dominio subyacente (catálogo de
// productos, registro de clientes, etc.).
//
// Las implementaciones concretas viven en internal/adapter.
//
// Convenciones:
//   - TenantID se pasa explícitamente en todos los métodos
//   - Context siempre es el primer parámetro
//   - Errores de dominio están en errors.go
package crud
