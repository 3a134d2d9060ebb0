package services

import (
	"context"
	"log/slog"

	"github.com/baharkarakas/recipe-api/internal/metrics"
	"github.com/baharkarakas/recipe-api/internal/models"
	"github.com/baharkarakas/recipe-api/internal/repository"
	"github.com/baharkarakas/recipe-api/internal/validate"
)

type TagService struct {
	store repository.Store
	log   *slog.Logger
}

func NewTagService(store repository.Store, log *slog.Logger) *TagService {
	return &TagService{store: store, log: log}
}

func (s *TagService) List(ctx context.Context, userID int64) ([]models.Tag, error) {
	return s.store.Repos().Tags.List(ctx, userID)
}

func (s *TagService) Create(ctx context.Context, userID int64, name string) (models.Tag, error) {
	name, ferr := models.CleanTagName("name", name)
	if ferr != nil {
		return models.Tag{}, validate.Errs{*ferr}.Err()
	}
	t, err := s.store.Repos().Tags.Create(ctx, userID, name)
	if err != nil {
		return models.Tag{}, err
	}
	metrics.TagsCreated.Inc()
	return t, nil
}

func (s *TagService) Rename(ctx context.Context, userID, id int64, name string) (models.Tag, error) {
	name, ferr := models.CleanTagName("name", name)
	if ferr != nil {
		return models.Tag{}, validate.Errs{*ferr}.Err()
	}
	return s.store.Repos().Tags.Rename(ctx, userID, id, name)
}

// Delete unlinks the tag from the owner's recipes and removes it.
func (s *TagService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.WithTx(ctx, func(r repository.Repositories) error {
		return r.Tags.Delete(ctx, userID, id)
	})
}
