package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kivu-bank/kivu_bank/internal/account"
	"github.com/kivu-bank/kivu_bank/internal/config"
	"github.com/kivu-bank/kivu_bank/internal/eventstore"
	"github.com/kivu-bank/kivu_bank/internal/middleware"
	"github.com/kivu-bank/kivu_bank/internal/notification"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	store, err := buildStore(d)
	if err != nil {
		return err
	}

	registry := account.NewRegistry(store, d.Logger)
	notifier := notification.NewLoggerNotifier(d.Logger)
	accountSvc := account.NewService(registry, notifier)
	accountHandler := account.NewHandler(accountSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterAccountRoutes(api, accountHandler)

	return nil
}

func buildStore(d Deps) (eventstore.Store, error) {
	switch d.Cfg.EventStore {
	case config.StorePostgres:
		if d.DB == nil {
			return nil, fmt.Errorf("postgres event store requires a database pool")
		}
		return eventstore.NewPostgres(d.DB), nil
	case config.StoreRedis:
		if d.Cache == nil {
			return nil, fmt.Errorf("redis event store requires a redis client")
		}
		return eventstore.NewRedis(d.Cache), nil
	case config.StoreFile:
		return eventstore.NewFile(d.Cfg.DataDir)
	case config.StoreMemory:
		return eventstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown event store %q", d.Cfg.EventStore)
	}
}
