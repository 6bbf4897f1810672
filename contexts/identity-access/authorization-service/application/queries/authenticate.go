package queries

import (
	"context"
	"log/slog"

	application "carparts/contexts/identity-access/authorization-service/application"
	"carparts/contexts/identity-access/authorization-service/ports"
	identityv1 "carparts/contracts/identity/v1"
)

// AuthenticateUseCase runs the validator and resolver stages for one request.
// The resolver is never reached when validation fails.
type AuthenticateUseCase struct {
	Validator ports.TokenValidator
	Resolver  ResolveIdentityUseCase
	Logger    *slog.Logger
}

func (u AuthenticateUseCase) Execute(ctx context.Context, authorizationHeader string) (identityv1.Identity, error) {
	logger := application.ResolveLogger(u.Logger)

	claims, err := u.Validator.Validate(ctx, authorizationHeader)
	if err != nil {
		logger.Debug("bearer credential rejected",
			"event", "authz_credential_rejected",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"error", err.Error(),
		)
		return identityv1.Identity{}, err
	}
	return u.Resolver.Execute(ctx, claims)
}
