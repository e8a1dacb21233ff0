package sqlstore

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// UserRepository persists accounts.
type UserRepository struct {
	db   bun.IDB
	base table[models.User]
}

// NewUserRepository builds a user repository over db.
func NewUserRepository(db bun.IDB) *UserRepository {
	return &UserRepository{db: db, base: newTable[models.User](db, "user")}
}

// Create inserts a new user. A taken email surfaces as apperr.ErrDuplicateKey.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	return r.base.insert(ctx, u)
}

// GetByID loads a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	u := new(models.User)
	err := r.db.NewSelect().Model(u).Where("u.id = ?", id).Scan(ctx)
	if err != nil {
		return nil, translate(err, "get user", "user")
	}
	return u, nil
}

// GetByEmail loads a user by (case-insensitive) email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u := new(models.User)
	err := r.db.NewSelect().Model(u).Where("u.email = ?", strings.ToLower(email)).Scan(ctx)
	if err != nil {
		return nil, translate(err, "get user by email", "user")
	}
	return u, nil
}

// List returns every user, oldest first. Used by scheduled jobs.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.NewSelect().Model(&users).Order("u.created_at ASC").Scan(ctx); err != nil {
		return nil, translate(err, "list users", "user")
	}
	return users, nil
}
