package authorization

import (
	"log/slog"

	httpadapter "carparts/contexts/identity-access/authorization-service/adapters/http"
	jwtadapter "carparts/contexts/identity-access/authorization-service/adapters/jwt"
	"carparts/contexts/identity-access/authorization-service/adapters/memory"
	"carparts/contexts/identity-access/authorization-service/application/commands"
	"carparts/contexts/identity-access/authorization-service/application/queries"
	"carparts/contexts/identity-access/authorization-service/ports"
)

// Module is the authorization-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Users     ports.UserRepository
	Validator ports.TokenValidator
	Clock     ports.Clock
	Logger    *slog.Logger
}

// NewModule wires the auth pipeline and admin user use cases.
func NewModule(deps Dependencies) Module {
	resolver := queries.ResolveIdentityUseCase{
		Users:  deps.Users,
		Logger: deps.Logger,
	}
	handler := httpadapter.Handler{
		Authenticate: queries.AuthenticateUseCase{
			Validator: deps.Validator,
			Resolver:  resolver,
			Logger:    deps.Logger,
		},
		ListUsers: queries.ListUsersUseCase{
			Users:  deps.Users,
			Logger: deps.Logger,
		},
		CreateUser: commands.CreateUserUseCase{
			Users:  deps.Users,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		UpdateRole: commands.UpdateUserRoleUseCase{
			Users:  deps.Users,
			Logger: deps.Logger,
		},
		DeleteUser: commands.DeleteUserUseCase{
			Users:  deps.Users,
			Logger: deps.Logger,
		},
		Logger: deps.Logger,
	}
	return Module{Handler: handler}
}

// NewInMemoryModule builds a development/testing module with an in-memory
// user directory and a self-issued HMAC validator keyed by secret.
func NewInMemoryModule(secret string, logger *slog.Logger) (Module, error) {
	store := memory.NewStore()
	validator, err := jwtadapter.NewValidator(jwtadapter.Config{
		Secret:        secret,
		RequireExpiry: true,
	}, store)
	if err != nil {
		return Module{}, err
	}
	module := NewModule(Dependencies{
		Users:     store,
		Validator: validator,
		Clock:     store,
		Logger:    logger,
	})
	module.Store = store
	return module, nil
}
