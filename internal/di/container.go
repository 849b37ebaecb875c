package di

import (
	"fmt"

	"github.com/BenjiKandl/apertif/internal/handler"
	"github.com/BenjiKandl/apertif/internal/repository"
	"github.com/BenjiKandl/apertif/internal/service"
	"github.com/BenjiKandl/apertif/internal/view"
	"github.com/BenjiKandl/apertif/pkg/config"
	"github.com/BenjiKandl/apertif/pkg/database"
	"github.com/BenjiKandl/apertif/pkg/logger"
	"github.com/BenjiKandl/apertif/pkg/redis"
	"github.com/BenjiKandl/apertif/pkg/sqlite"
)

// Container holds all dependencies for the apertif service
type Container struct {
	// Infrastructure
	SQLite   *sqlite.DB
	DB       *database.PostgresDB
	Redis    *redis.Client
	Notifier service.Notifier

	// Repositories
	EventStore  repository.EventStore
	MarkerStore repository.RSVPMarkerStore

	// Services
	EventService service.EventService
	RSVPService  service.RSVPService
	ViewRouter   *view.Router

	// Handlers
	HealthHandler *handler.HealthHandler
	EventHandler  *handler.EventHandler
	RSVPHandler   *handler.RSVPHandler
	ViewHandler   *handler.ViewHandler
}

// ContainerConfig contains configuration for building the container.
// Infrastructure fields are nil when the backend is not in use.
type ContainerConfig struct {
	Config   *config.Config
	Logger   *logger.Logger
	SQLite   *sqlite.DB
	DB       *database.PostgresDB
	Redis    *redis.Client
	Notifier service.Notifier
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) (*Container, error) {
	c := &Container{
		SQLite:   cfg.SQLite,
		DB:       cfg.DB,
		Redis:    cfg.Redis,
		Notifier: cfg.Notifier,
	}
	if c.Notifier == nil {
		c.Notifier = service.NewNoOpNotifier()
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}

	// Initialize repositories
	var backends repository.Backends
	if c.SQLite != nil {
		backends.SQLite = c.SQLite.DB()
	}
	if c.DB != nil {
		backends.Postgres = c.DB.Pool()
	}
	if c.Redis != nil {
		backends.Redis = c.Redis
	}
	factory := repository.NewStoreFactory(cfg.Config, backends)

	store, err := factory.EventStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build event store: %w", err)
	}
	c.EventStore = store
	c.MarkerStore = factory.MarkerStore()

	// Initialize services
	c.EventService = service.NewEventService(c.EventStore, c.Notifier, log, service.EventServiceConfig{
		PublicURL: cfg.Config.App.PublicURL,
	})
	c.RSVPService = service.NewRSVPService(c.EventStore, c.MarkerStore, c.Notifier, log)
	c.ViewRouter = view.NewRouter(c.EventStore, c.MarkerStore, cfg.Config.App.PublicURL)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(cfg.Config.App.Name, c.healthChecks()...)
	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.RSVPHandler = handler.NewRSVPHandler(c.RSVPService)
	c.ViewHandler = handler.NewViewHandler(c.ViewRouter)

	return c, nil
}

func (c *Container) healthChecks() []handler.HealthCheck {
	var checks []handler.HealthCheck
	if c.SQLite != nil {
		checks = append(checks, handler.HealthCheck{Name: "sqlite", Check: c.SQLite.HealthCheck})
	}
	if c.DB != nil {
		checks = append(checks, handler.HealthCheck{Name: "postgres", Check: c.DB.HealthCheck})
	}
	if c.Redis != nil {
		checks = append(checks, handler.HealthCheck{Name: "redis", Check: c.Redis.HealthCheck})
	}
	if hc, ok := c.EventStore.(repository.HealthChecker); ok {
		checks = append(checks, handler.HealthCheck{Name: "event_store", Check: hc.HealthCheck})
	}
	return checks
}

// Close releases the notifier. Connections are closed by their owner.
func (c *Container) Close() error {
	return c.Notifier.Close()
}
