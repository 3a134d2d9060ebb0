package repository

import (
	"context"
	"time"

	"github.com/baharkarakas/recipe-api/internal/models"
)

// GetOrCreateAttempts bounds the lookup/insert loop of Tags.GetOrCreate.
const GetOrCreateAttempts = 3

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u models.User) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	// Delete removes the user together with its recipes, tags and their
	// links. Run it inside Store.WithTx.
	Delete(ctx context.Context, id int64) error
}

// Tags are always addressed through their owner; a tag id owned by someone
// else behaves exactly like a missing one.
type Tags interface {
	Create(ctx context.Context, ownerID int64, name string) (models.Tag, error)
	// GetOrCreate returns the owner's tag with this name, inserting it when
	// absent. created reports whether this call inserted the row.
	GetOrCreate(ctx context.Context, ownerID int64, name string) (tag models.Tag, created bool, err error)
	Get(ctx context.Context, ownerID, id int64) (models.Tag, error)
	List(ctx context.Context, ownerID int64) ([]models.Tag, error)
	Rename(ctx context.Context, ownerID, id int64, name string) (models.Tag, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

type Recipes interface {
	Create(ctx context.Context, r models.Recipe) (models.Recipe, error)
	Get(ctx context.Context, ownerID, id int64) (models.Recipe, error)
	List(ctx context.Context, ownerID int64, f models.RecipeFilter) ([]models.Recipe, error)
	Update(ctx context.Context, ownerID, id int64, p models.RecipePatch) error
	// SetTags replaces the recipe's tag links. The caller has already checked
	// ownership of the recipe and of every tag.
	SetTags(ctx context.Context, recipeID int64, tagIDs []int64) error
	Delete(ctx context.Context, ownerID, id int64) error
}

type Repositories struct {
	Users   Users
	Tags    Tags
	Recipes Recipes
}

// Store hands out repositories bound either to the connection pool or to a
// single transaction.
type Store interface {
	Repos() Repositories
	// WithTx runs fn inside one transaction; fn's error rolls it back.
	WithTx(ctx context.Context, fn func(Repositories) error) error
	Ping(ctx context.Context) error
	Close()
}

// UniqueIDs drops duplicate ids, keeping the first occurrence order.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
