// Package users provides persistence for identity records.
package users

import (
	"context"

	"github.com/dmitrijs2005/photoframe/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
