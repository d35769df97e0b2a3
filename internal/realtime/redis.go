package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
	"github.com/dropDatabas3/crudkit/internal/observability/logger"
)

// RedisTransport implementa Transport y Publisher sobre Redis pub/sub,
// para deployments multi-nodo. Un canal Redis por scope:
// {prefix}:crud:{organización}:{tipo de entidad}.
type RedisTransport struct {
	client *redis.Client
	prefix string
}

// RedisConfig configura la conexión al Redis de notificaciones.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisTransport conecta y verifica el Redis de notificaciones.
func NewRedisTransport(cfg RedisConfig) (*RedisTransport, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("realtime: redis ping failed: %w", err)
	}

	return &RedisTransport{client: client, prefix: cfg.Prefix}, nil
}

func (t *RedisTransport) channelName(scope crud.Scope) string {
	name := fmt.Sprintf("crud:%s:%s", scope.OrganizationID, scope.EntityType)
	if t.prefix != "" {
		return t.prefix + ":" + name
	}
	return name
}

// Subscribe abre la suscripción pub/sub del scope.
func (t *RedisTransport) Subscribe(ctx context.Context, scope crud.Scope, fn func(crud.ChangeEvent)) (Subscription, error) {
	ps := t.client.Subscribe(ctx, t.channelName(scope))
	// fuerza el SUBSCRIBE y detecta errores de conexión temprano
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("realtime: subscribe %s: %w", t.channelName(scope), err)
	}

	sub := &redisSub{ps: ps}
	go func() {
		log := logger.Named("realtime")
		for msg := range ps.Channel() {
			var ev crud.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Warn("malformed change event", logger.Err(err))
				continue
			}
			if ev.Scope != scope {
				continue // eventos de otro scope no disparan recarga
			}
			fn(ev)
		}
	}()
	return sub, nil
}

// Publish serializa y emite el evento en el canal de su scope.
func (t *RedisTransport) Publish(ctx context.Context, ev crud.ChangeEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("realtime: marshal event: %w", err)
	}
	return t.client.Publish(ctx, t.channelName(ev.Scope), b).Err()
}

// Close cierra la conexión.
func (t *RedisTransport) Close() error {
	return t.client.Close()
}

type redisSub struct {
	ps   *redis.PubSub
	once sync.Once
	err  error
}

func (s *redisSub) Close() error {
	s.once.Do(func() { s.err = s.ps.Close() })
	return s.err
}
