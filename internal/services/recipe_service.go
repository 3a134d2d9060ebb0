package services

import (
	"context"
	"log/slog"

	"github.com/baharkarakas/recipe-api/internal/metrics"
	"github.com/baharkarakas/recipe-api/internal/models"
	"github.com/baharkarakas/recipe-api/internal/repository"
)

// RecipeService scopes every recipe operation to the calling user. A recipe
// owned by someone else is reported as not found.
type RecipeService struct {
	store repository.Store
	log   *slog.Logger
}

func NewRecipeService(store repository.Store, log *slog.Logger) *RecipeService {
	return &RecipeService{store: store, log: log}
}

func (s *RecipeService) List(ctx context.Context, userID int64, f models.RecipeFilter) ([]models.Recipe, error) {
	return s.store.Repos().Recipes.List(ctx, userID, f)
}

func (s *RecipeService) Get(ctx context.Context, userID, id int64) (models.Recipe, error) {
	return s.store.Repos().Recipes.Get(ctx, userID, id)
}

// Create stores a recipe owned by userID. Tag names are resolved to the
// owner's tags, creating the missing ones.
func (s *RecipeService) Create(ctx context.Context, userID int64, in models.RecipePatch) (models.Recipe, error) {
	in.Normalize()
	if err := in.Validate(true); err != nil {
		return models.Recipe{}, err
	}

	var (
		out     models.Recipe
		newTags int
	)
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		rc := models.Recipe{UserID: userID}
		in.Apply(&rc)
		rc, err := r.Recipes.Create(ctx, rc)
		if err != nil {
			return err
		}
		if in.Tags != nil {
			if newTags, err = linkTags(ctx, r, userID, rc.ID, *in.Tags); err != nil {
				return err
			}
		}
		out, err = r.Recipes.Get(ctx, userID, rc.ID)
		return err
	})
	if err != nil {
		return models.Recipe{}, err
	}

	metrics.RecipesWritten.WithLabelValues("create").Inc()
	metrics.TagsCreated.Add(float64(newTags))
	s.log.Debug("recipe created", "user_id", userID, "recipe_id", out.ID, "tags", len(out.Tags))
	return out, nil
}

// Update applies the supplied fields. full demands every required field, as
// PUT does. Tags are replaced only when p.Tags is set.
func (s *RecipeService) Update(ctx context.Context, userID, id int64, p models.RecipePatch, full bool) (models.Recipe, error) {
	p.Normalize()
	if err := p.Validate(full); err != nil {
		return models.Recipe{}, err
	}

	var (
		out     models.Recipe
		newTags int
	)
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Recipes.Get(ctx, userID, id); err != nil {
			return err
		}
		if err := r.Recipes.Update(ctx, userID, id, p); err != nil {
			return err
		}
		if p.Tags != nil {
			var err error
			if newTags, err = linkTags(ctx, r, userID, id, *p.Tags); err != nil {
				return err
			}
		}
		var err error
		out, err = r.Recipes.Get(ctx, userID, id)
		return err
	})
	if err != nil {
		return models.Recipe{}, err
	}

	metrics.RecipesWritten.WithLabelValues("update").Inc()
	metrics.TagsCreated.Add(float64(newTags))
	return out, nil
}

func (s *RecipeService) Delete(ctx context.Context, userID, id int64) error {
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		return r.Recipes.Delete(ctx, userID, id)
	})
	if err != nil {
		return err
	}
	metrics.RecipesWritten.WithLabelValues("delete").Inc()
	return nil
}

// linkTags replaces the recipe's tags with the owner's tags named in names
// and returns how many tags had to be created.
func linkTags(ctx context.Context, r repository.Repositories, ownerID, recipeID int64, names []string) (int, error) {
	ids := make([]int64, 0, len(names))
	created := 0
	for _, name := range names {
		tag, isNew, err := r.Tags.GetOrCreate(ctx, ownerID, name)
		if err != nil {
			return 0, err
		}
		if isNew {
			created++
		}
		ids = append(ids, tag.ID)
	}
	return created, r.Recipes.SetTags(ctx, recipeID, ids)
}
