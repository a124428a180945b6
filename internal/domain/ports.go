package domain

import (
	"context"
	"time"
)

// DirectoryRepository is the persistence port for the business directory.
type DirectoryRepository interface {
	// Businesses
	ListBusinesses(ctx context.Context, q BusinessQuery) ([]BusinessView, int, error)
	GetBusiness(ctx context.Context, id string) (BusinessView, error)
	CreateBusiness(ctx context.Context, b Business) error
	UpdateBusiness(ctx context.Context, b Business) error
	DeleteBusiness(ctx context.Context, id string) error

	// Categories
	ListCategories(ctx context.Context, limit int) ([]Category, error)
	GetCategory(ctx context.Context, id string) (Category, error)
	CreateCategory(ctx context.Context, c Category) error
	UpdateCategory(ctx context.Context, c Category) error
	DeleteCategory(ctx context.Context, id string) error

	// Overview
	CountBusinesses(ctx context.Context) (int, error)
	CountCategories(ctx context.Context) (int, error)
	BusinessesByCity(ctx context.Context) ([]CityCount, error)
}

// AuthStore is the identity + authorization persistence port.
type AuthStore interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetAdminByUserID(ctx context.Context, userID string) (Admin, error)

	// RegisterAdmin creates the identity and its admin record atomically;
	// neither row survives a failure of the other.
	RegisterAdmin(ctx context.Context, u User, a Admin) error
}

// SessionStore holds issued sessions. Del is forced sign-out.
type SessionStore interface {
	Put(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (Session, bool, error)
	Del(ctx context.Context, token string) error
}
