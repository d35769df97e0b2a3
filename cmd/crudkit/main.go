package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dropDatabas3/crudkit/internal/adapter"
	"github.com/dropDatabas3/crudkit/internal/config"
	httpserver "github.com/dropDatabas3/crudkit/internal/http"
	"github.com/dropDatabas3/crudkit/internal/metrics"
	"github.com/dropDatabas3/crudkit/internal/observability/logger"
	"github.com/dropDatabas3/crudkit/internal/realtime"
	"github.com/dropDatabas3/crudkit/internal/service/memory"
)

var version = "dev"

func main() {
	// .env es opcional; las env vars pisan el YAML
	_ = godotenv.Load()

	var cfgPath string

	root := &cobra.Command{
		Use:           "crudkit",
		Short:         "Motor CRUD genérico multi-tenant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgPath)
		},
	}
	serve.Flags().StringVarP(&cfgPath, "config", "c", "", "path al config.yaml (opcional)")

	root.AddCommand(serve)
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Imprime la versión",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runServe(cfgPath string) error {
	var cfg *config.Config
	var err error
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.Default()
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "crudkit",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()
	log := logger.Named("main")

	if err := metrics.RegisterAll(nil); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Transporte de tiempo real: memory para un nodo, redis para varios.
	var publisher realtime.Publisher
	switch cfg.Realtime.Kind {
	case "redis":
		rt, err := realtime.NewRedisTransport(realtime.RedisConfig{
			Addr:     cfg.Realtime.Redis.Addr,
			Password: cfg.Realtime.Redis.Password,
			DB:       cfg.Realtime.Redis.DB,
			Prefix:   cfg.Realtime.Redis.Prefix,
		})
		if err != nil {
			return err
		}
		defer rt.Close()
		publisher = rt
		log.Info("realtime transport: redis")
	default:
		publisher = realtime.NewBroker()
		log.Info("realtime transport: memory")
	}

	// Servicio de dominio demo sobre el que corre el contrato uniforme.
	// Integraciones reales registran acá sus propios adapters.
	products := memory.New("products")
	registry := adapter.NewRegistry()
	a, err := adapter.New(products.AdapterConfig([]string{"name", "sku"}, nil))
	if err != nil {
		return fmt.Errorf("build products adapter: %w", err)
	}
	if err := registry.Register(a); err != nil {
		return err
	}

	handler := httpserver.NewRouter(httpserver.ServerDeps{
		Config:    cfg,
		Registry:  registry,
		Publisher: publisher,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("http server listening", zap.String("addr", cfg.Server.Addr))
	return httpserver.Start(ctx, cfg.Server.Addr, handler)
}
