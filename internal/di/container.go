package di

import (
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/handler"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/repository"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/service"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/database"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/redis"
)

// Container holds all dependencies for the ticketing service
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	Ledger            repository.CapacityLedger
	TicketRepo        repository.TicketRepository
	TicketTypeRepo    repository.TicketTypeRepository
	EventRepo         repository.EventRepository
	AvailabilityCache repository.AvailabilityCache

	// Publishers
	EventPublisher service.EventPublisher

	// Notifier
	Notifier service.Notifier

	// Services
	TicketService     service.TicketService
	EventService      service.EventService
	TicketTypeService service.TicketTypeService

	// Handlers
	HealthHandler     *handler.HealthHandler
	TicketHandler     *handler.TicketHandler
	EventHandler      *handler.EventHandler
	TicketTypeHandler *handler.TicketTypeHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB             *database.PostgresDB
	Redis          *redis.Client
	EventPublisher service.EventPublisher
	Notifier       service.Notifier
	ServiceConfig  *service.TicketServiceConfig
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:             cfg.DB,
		Redis:          cfg.Redis,
		EventPublisher: cfg.EventPublisher,
		Notifier:       cfg.Notifier,
	}

	if c.EventPublisher == nil {
		c.EventPublisher = service.NewNoOpEventPublisher()
	}
	if c.Notifier == nil {
		c.Notifier = service.NewNoOpNotifier()
	}

	// Initialize repositories
	pool := c.DB.Pool()
	c.Ledger = repository.NewPostgresCapacityLedger(pool)
	c.TicketRepo = repository.NewPostgresTicketRepository(pool)
	c.TicketTypeRepo = repository.NewPostgresTicketTypeRepository(pool)
	c.EventRepo = repository.NewPostgresEventRepository(pool)
	c.AvailabilityCache = repository.NewRedisAvailabilityCache(c.Redis)

	// Initialize services
	c.TicketService = service.NewTicketService(
		c.Ledger,
		c.TicketRepo,
		c.TicketTypeRepo,
		c.EventRepo,
		c.AvailabilityCache,
		c.EventPublisher,
		c.Notifier,
		cfg.ServiceConfig,
	)
	c.EventService = service.NewEventService(c.EventRepo)
	c.TicketTypeService = service.NewTicketTypeService(c.TicketTypeRepo, c.EventRepo)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.TicketHandler = handler.NewTicketHandler(c.TicketService)
	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.TicketTypeHandler = handler.NewTicketTypeHandler(c.TicketTypeService)

	return c
}
