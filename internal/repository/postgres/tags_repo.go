package postgres

import (
	"context"
	"fmt"

	apperr "github.com/baharkarakas/recipe-api/internal/errors"
	"github.com/baharkarakas/recipe-api/internal/models"
	"github.com/baharkarakas/recipe-api/internal/repository"
)

var (
	errTagNotFound  = apperr.NotFound("tag not found")
	errTagDuplicate = apperr.AlreadyExists("tag with this name already exists")
)

type tagsRepo struct{ q querier }

func (r *tagsRepo) Create(ctx context.Context, ownerID int64, name string) (models.Tag, error) {
	t := models.Tag{UserID: ownerID, Name: name}
	err := r.q.QueryRow(ctx,
		`INSERT INTO tags(user_id, name) VALUES($1,$2) RETURNING id`, ownerID, name,
	).Scan(&t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Tag{}, errTagDuplicate
		}
		return models.Tag{}, fmt.Errorf("insert tag: %w", err)
	}
	return t, nil
}

// GetOrCreate never lets the insert fail on the unique key, so a concurrent
// creator cannot abort the surrounding transaction.
func (r *tagsRepo) GetOrCreate(ctx context.Context, ownerID int64, name string) (models.Tag, bool, error) {
	for attempt := 0; attempt < repository.GetOrCreateAttempts; attempt++ {
		t, err := r.getByName(ctx, ownerID, name)
		if err == nil {
			return t, false, nil
		}
		if !apperr.Is(err, apperr.ErrNotFound) {
			return models.Tag{}, false, err
		}

		t = models.Tag{UserID: ownerID, Name: name}
		err = r.q.QueryRow(ctx,
			`INSERT INTO tags(user_id, name) VALUES($1,$2)
			 ON CONFLICT (user_id, name) DO NOTHING RETURNING id`, ownerID, name,
		).Scan(&t.ID)
		if err == nil {
			return t, true, nil
		}
		if !isNoRows(err) {
			return models.Tag{}, false, fmt.Errorf("insert tag: %w", err)
		}
	}
	return models.Tag{}, false, fmt.Errorf("get or create tag %q: no result after %d attempts", name, repository.GetOrCreateAttempts)
}

func (r *tagsRepo) getByName(ctx context.Context, ownerID int64, name string) (models.Tag, error) {
	t := models.Tag{UserID: ownerID}
	err := r.q.QueryRow(ctx,
		`SELECT id, name FROM tags WHERE user_id=$1 AND name=$2`, ownerID, name,
	).Scan(&t.ID, &t.Name)
	if isNoRows(err) {
		return models.Tag{}, errTagNotFound
	}
	return t, err
}

func (r *tagsRepo) Get(ctx context.Context, ownerID, id int64) (models.Tag, error) {
	t := models.Tag{UserID: ownerID}
	err := r.q.QueryRow(ctx,
		`SELECT id, name FROM tags WHERE id=$1 AND user_id=$2`, id, ownerID,
	).Scan(&t.ID, &t.Name)
	if isNoRows(err) {
		return models.Tag{}, errTagNotFound
	}
	return t, err
}

func (r *tagsRepo) List(ctx context.Context, ownerID int64) ([]models.Tag, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, name FROM tags WHERE user_id=$1 ORDER BY name DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Tag{}
	for rows.Next() {
		t := models.Tag{UserID: ownerID}
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tagsRepo) Rename(ctx context.Context, ownerID, id int64, name string) (models.Tag, error) {
	tag, err := r.q.Exec(ctx, `UPDATE tags SET name=$3 WHERE id=$1 AND user_id=$2`, id, ownerID, name)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Tag{}, errTagDuplicate
		}
		return models.Tag{}, fmt.Errorf("rename tag: %w", err)
	}
	if err := affected(tag, errTagNotFound); err != nil {
		return models.Tag{}, err
	}
	return models.Tag{ID: id, UserID: ownerID, Name: name}, nil
}

func (r *tagsRepo) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := r.q.Exec(ctx,
		`DELETE FROM recipe_tags WHERE tag_id IN (SELECT id FROM tags WHERE id=$1 AND user_id=$2)`, id, ownerID,
	); err != nil {
		return fmt.Errorf("unlink tag: %w", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM tags WHERE id=$1 AND user_id=$2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return affected(tag, errTagNotFound)
}
