package profile

import (
	"log/slog"

	httpadapter "carparts/contexts/identity-access/profile-service/adapters/http"
	"carparts/contexts/identity-access/profile-service/adapters/memory"
	"carparts/contexts/identity-access/profile-service/application"
	"carparts/contexts/identity-access/profile-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Service: application.Service{
				Repo:   deps.Repository,
				Clock:  deps.Clock,
				Logger: deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
