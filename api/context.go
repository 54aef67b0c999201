package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/rpupo63/chantier-backend/usecases"
)

type keyType string

const (
	userIDKey  keyType = "userID"
	accountKey keyType = "account"
)

// ctxWithUserID adds the authenticated user ID to the context
func ctxWithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxWithAccount adds the account the user is acting for to the context
func ctxWithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

func ctxGetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

func ctxGetAccount(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(accountKey).(*models.Account)
	return account, ok && account != nil
}

// actorFrom builds the tenant context of a request that went through the
// authentication and account middlewares.
func actorFrom(ctx context.Context) usecases.Actor {
	var actor usecases.Actor
	if userID, ok := ctxGetUserID(ctx); ok {
		actor.UserID = userID
	}
	if account, ok := ctxGetAccount(ctx); ok {
		actor.AccountID = account.ID
	}
	return actor
}
