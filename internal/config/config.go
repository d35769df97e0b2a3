// Package config carga la configuración del servicio desde YAML con
// overrides por variables de entorno.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
		// debug | info | warn | error
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	CRUD struct {
		// DefaultPageSize aplica cuando el request no trae page_size.
		DefaultPageSize int `yaml:"default_page_size"`
		// MaxPageSize acota page_size del request.
		MaxPageSize int `yaml:"max_page_size"`
		// SearchDebounce es la ventana client-side de búsqueda.
		SearchDebounce string `yaml:"search_debounce"`
	} `yaml:"crud"`

	Realtime struct {
		// Kind: "memory" (un nodo) | "redis" (multi-nodo)
		Kind string `yaml:"kind"`
		// DebounceWindow colapsa ráfagas de notificaciones.
		DebounceWindow string `yaml:"debounce_window"`
		Redis          struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"realtime"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	c.applyEnvOverrides()
	return &c, nil
}

// Default retorna una configuración usable sin archivo YAML.
func Default() *Config {
	var c Config
	c.applyDefaults()
	c.applyEnvOverrides()
	return &c
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.CRUD.DefaultPageSize == 0 {
		c.CRUD.DefaultPageSize = 20
	}
	if c.CRUD.MaxPageSize == 0 {
		c.CRUD.MaxPageSize = 200
	}
	if c.CRUD.SearchDebounce == "" {
		c.CRUD.SearchDebounce = "300ms"
	}
	if c.Realtime.Kind == "" {
		c.Realtime.Kind = "memory"
	}
	if c.Realtime.DebounceWindow == "" {
		c.Realtime.DebounceWindow = "1s"
	}
}

// applyEnvOverrides: pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvInt("CRUD_DEFAULT_PAGE_SIZE"); ok {
		c.CRUD.DefaultPageSize = v
	}
	if v, ok := getEnvInt("CRUD_MAX_PAGE_SIZE"); ok {
		c.CRUD.MaxPageSize = v
	}
	if v, ok := getEnvStr("CRUD_SEARCH_DEBOUNCE"); ok {
		c.CRUD.SearchDebounce = v
	}
	if v, ok := getEnvStr("REALTIME_KIND"); ok {
		c.Realtime.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REALTIME_DEBOUNCE_WINDOW"); ok {
		c.Realtime.DebounceWindow = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Realtime.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Realtime.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Realtime.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Realtime.Redis.Prefix = v
	}
}

// SearchDebounceWindow parsea la ventana de búsqueda (0 si inválida).
func (c *Config) SearchDebounceWindow() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.CRUD.SearchDebounce))
	if err != nil {
		return 0
	}
	return d
}

// RealtimeWindow parsea la ventana de debounce de tiempo real.
func (c *Config) RealtimeWindow() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.Realtime.DebounceWindow))
	if err != nil {
		return 0
	}
	return d
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		if strings.TrimSpace(s) == "" {
			return []string{}, true
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}
