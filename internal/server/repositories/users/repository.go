// Package users persists User records. Implementations accept a dbx.DBTX so
// they run equally on a pool or inside a transaction.
package users

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository is the user store.
//
// Create assigns an ID when the caller left it empty, fills CreatedAt and
// returns common.ErrDuplicateUser when the email is already taken.
// GetUserByEmail returns common.ErrorNotFound when no row matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
