package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dropDatabas3/littlejohn/internal/bootstrap"
	"github.com/dropDatabas3/littlejohn/internal/config"
	httpx "github.com/dropDatabas3/littlejohn/internal/http"
	"github.com/dropDatabas3/littlejohn/internal/http/handlers"
	"github.com/dropDatabas3/littlejohn/internal/http/router"
	"github.com/dropDatabas3/littlejohn/internal/jwt"
	"github.com/dropDatabas3/littlejohn/internal/oauth"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/rate"
	"github.com/dropDatabas3/littlejohn/internal/store/core"
	"github.com/dropDatabas3/littlejohn/internal/store/memory"
	"github.com/dropDatabas3/littlejohn/internal/store/pg"
)

func main() {
	// .env es opcional; si no está se usan las env del sistema
	_ = godotenv.Load()

	var cfgPath string

	root := &cobra.Command{
		Use:   "littlejohn",
		Short: "Servidor de autorización OAuth2 (password grant)",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path al YAML de configuración (opcional)")

	root.AddCommand(serveCmd(&cfgPath), seedCmd(&cfgPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Seed + servir el token endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, ServiceName: "littlejohn"})
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, ready, cleanup, err := buildStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			// seed ANTES de aceptar tráfico: si falla, no servimos
			if err := bootstrap.Seed(ctx, st, seedConfig(cfg)); err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			ks, err := buildKeys(cfg)
			if err != nil {
				return err
			}
			issuer := jwt.NewIssuer(cfg.JWT.Issuer, ks, st, cfg.AccessTTL(), cfg.RefreshTTL())
			grants := oauth.NewDispatcher(oauth.NewPasswordGrant(st))

			h := router.New(cfg, router.Deps{
				Store:   st,
				Grants:  grants,
				Issuer:  issuer,
				Limiter: buildLimiter(cfg),
				Ready:   ready,
			})

			logger.L().Info("starting",
				zap.String("env", cfg.App.Env),
				zap.String("driver", cfg.Storage.Driver),
				zap.String("token_endpoint", cfg.Endpoints.Token),
			)
			return httpx.Serve(ctx, cfg.Server.Addr, h)
		},
	}
}

func seedCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Garantizar roles, usuario y client default sin servir",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, ServiceName: "littlejohn"})
			defer func() { _ = logger.Sync() }()

			ctx := context.Background()
			st, _, cleanup, err := buildStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return bootstrap.Seed(ctx, st, seedConfig(cfg))
		},
	}
}

// buildStore selecciona el driver. Con postgres corre las migraciones
// embebidas antes de devolver el store.
func buildStore(ctx context.Context, cfg *config.Config) (core.Store, handlers.Pinger, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		return memory.New(), nil, func() {}, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres pool: %w", err)
		}
		applied, err := pg.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("migrate: %w", err)
		}
		if applied > 0 {
			logger.L().Info("migrations applied", zap.Int("count", applied))
		}
		st := pg.New(pool)
		return st, st, pool.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func buildKeys(cfg *config.Config) (*jwt.KeySet, error) {
	if cfg.JWT.SigningSeed != "" {
		return jwt.FromSeed(cfg.JWT.SigningKID, cfg.JWT.SigningSeed)
	}
	logger.L().Warn("SIGNING_SEED not set, using ephemeral dev key")
	return jwt.NewDevEd25519(cfg.JWT.SigningKID)
}

func buildLimiter(cfg *config.Config) rate.Limiter {
	if !cfg.Rate.Enabled {
		return nil
	}
	if cfg.Rate.Redis.Addr != "" {
		client := rdb.NewClient(&rdb.Options{Addr: cfg.Rate.Redis.Addr, DB: cfg.Rate.Redis.DB})
		return rate.NewRedisLimiter(client, cfg.Rate.Redis.Prefix, cfg.Rate.Token.Limit, cfg.RateWindow())
	}
	return rate.NewMemoryLimiter(cfg.Rate.Token.Limit, cfg.RateWindow())
}

func seedConfig(cfg *config.Config) bootstrap.SeedConfig {
	return bootstrap.SeedConfig{
		Roles: []string{"Admin", "User"},
		User: bootstrap.SeedUser{
			Username:  cfg.SeedUser.Username,
			Password:  cfg.SeedUser.Password,
			Email:     cfg.SeedUser.Email,
			FirstName: cfg.SeedUser.FirstName,
			LastName:  cfg.SeedUser.LastName,
			Role:      cfg.SeedUser.Role,
		},
		Client: core.Client{
			ClientID:   cfg.DefaultClient.ClientID,
			Secret:     cfg.DefaultClient.Secret,
			Name:       cfg.DefaultClient.Name,
			Endpoints:  cfg.DefaultClient.Endpoints,
			GrantTypes: cfg.DefaultClient.GrantTypes,
			Scopes:     cfg.DefaultClient.Scopes,
		},
	}
}
