package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init construye el singleton. Idempotente: solo la primera llamada
// tiene efecto. cmd/crudkit la invoca antes de armar el router.
func Init(cfg Config) {
	once.Do(func() {
		instance = build(cfg)
	})
}

// L retorna el singleton. Sin Init previo cae a dev/info, así los
// tests de paquete pueden loguear sin bootstrap.
func L() *zap.Logger {
	if instance == nil {
		Init(Config{Env: "dev", Level: "info"})
	}
	return instance
}

// Named retorna un logger con nombre de componente (ej: "adapter").
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// With retorna un logger con campos persistentes (ej: Entity en un
// adapter que vive todo el proceso).
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync flushea buffers pendientes; para defer en main.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}
