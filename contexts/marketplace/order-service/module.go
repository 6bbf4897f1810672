package orders

import (
	"log/slog"
	"time"

	httpadapter "carparts/contexts/marketplace/order-service/adapters/http"
	"carparts/contexts/marketplace/order-service/adapters/memory"
	"carparts/contexts/marketplace/order-service/application/commands"
	"carparts/contexts/marketplace/order-service/application/queries"
	"carparts/contexts/marketplace/order-service/application/workers"
	"carparts/contexts/marketplace/order-service/ports"
)

// Module is the order-service composition root exposed to runtime wiring.
type Module struct {
	Handler     httpadapter.Handler
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
}

type Dependencies struct {
	Orders      ports.OrderRepository
	Outbox      ports.OutboxRepository
	KeyCache    ports.OrderKeyCache
	Publisher   ports.EventPublisher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	KeyCacheTTL time.Duration
	TopicPrefix string
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	handler := httpadapter.Handler{
		PlaceOrder: commands.PlaceOrderUseCase{
			Orders:      deps.Orders,
			KeyCache:    deps.KeyCache,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			KeyCacheTTL: deps.KeyCacheTTL,
			Logger:      deps.Logger,
		},
		UpdateStatus: commands.UpdateOrderStatusUseCase{
			Orders:      deps.Orders,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		ListMine: queries.ListMyOrdersUseCase{Orders: deps.Orders, Logger: deps.Logger},
		GetOrder: queries.GetOrderUseCase{Orders: deps.Orders, Logger: deps.Logger},
		ListAll:  queries.ListAllOrdersUseCase{Orders: deps.Orders, Logger: deps.Logger},
		Logger:   deps.Logger,
	}
	return Module{
		Handler: handler,
		OutboxRelay: workers.OutboxRelay{
			Outbox:      deps.Outbox,
			Publisher:   deps.Publisher,
			Clock:       deps.Clock,
			TopicPrefix: deps.TopicPrefix,
			Logger:      deps.Logger,
		},
	}
}

// NewInMemoryModule wires every port to one in-memory store, which also acts
// as the idempotency key cache. The relay has no publisher until one is set.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore(logger)
	module := NewModule(Dependencies{
		Orders:      store,
		Outbox:      store,
		KeyCache:    store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
