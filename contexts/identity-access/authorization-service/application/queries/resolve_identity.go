package queries

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	application "carparts/contexts/identity-access/authorization-service/application"
	"carparts/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "carparts/contexts/identity-access/authorization-service/domain/errors"
	"carparts/contexts/identity-access/authorization-service/ports"
	identityv1 "carparts/contracts/identity/v1"
)

// ResolveIdentityUseCase maps verified claims to the store-backed identity.
// The role is always read from the user record; claims never supply it.
type ResolveIdentityUseCase struct {
	Users  ports.UserDirectory
	Logger *slog.Logger
}

func (u ResolveIdentityUseCase) Execute(ctx context.Context, claims entities.Claims) (identityv1.Identity, error) {
	logger := application.ResolveLogger(u.Logger)

	var (
		user entities.User
		err  error
	)
	switch claims.Mode {
	case entities.TokenModeExternal:
		subject := strings.TrimSpace(claims.Subject)
		if subject == "" {
			return identityv1.Identity{}, domainerrors.ErrUnknownIdentity
		}
		user, err = u.Users.FindUserByExternalID(ctx, subject)
	default:
		userID, parseErr := strconv.ParseInt(strings.TrimSpace(claims.Subject), 10, 64)
		if parseErr != nil || userID <= 0 {
			return identityv1.Identity{}, domainerrors.ErrUnknownIdentity
		}
		user, err = u.Users.FindUserByID(ctx, userID)
	}
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			logger.Warn("identity subject has no user record",
				"event", "authz_identity_unknown",
				"module", "identity-access/authorization-service",
				"layer", "application",
				"subject", claims.Subject,
				"mode", string(claims.Mode),
			)
			return identityv1.Identity{}, domainerrors.ErrUnknownIdentity
		}
		logger.Error("identity lookup failed",
			"event", "authz_identity_lookup_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"subject", claims.Subject,
			"error", err.Error(),
		)
		return identityv1.Identity{}, err
	}

	if claims.RoleHint != "" && identityv1.NormalizeRole(claims.RoleHint) != identityv1.NormalizeRole(user.Role) {
		logger.Warn("token role claim disagrees with store role",
			"event", "authz_role_claim_mismatch",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", user.UserID,
			"claimed_role", claims.RoleHint,
			"store_role", user.Role,
		)
	}

	email := user.Email
	if email == "" {
		email = claims.Email
	}
	return identityv1.Identity{
		ID:    user.UserID,
		Email: email,
		Name:  user.Name,
		Role:  identityv1.NormalizeRole(user.Role),
	}, nil
}
