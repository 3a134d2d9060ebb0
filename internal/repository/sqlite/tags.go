package sqlite

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
	res, err := r.q.ExecContext(ctx, `INSERT INTO tags (user_id, name) VALUES (?, ?)`, ownerID, name)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Tag{}, errTagDuplicate
		}
		return models.Tag{}, fmt.Errorf("insert tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Tag{}, err
	}
	return models.Tag{ID: id, UserID: ownerID, Name: name}, nil
}

func (r *tagsRepo) GetOrCreate(ctx context.Context, ownerID int64, name string) (models.Tag, bool, error) {
	for attempt := 0; attempt < repository.GetOrCreateAttempts; attempt++ {
		t, err := r.getByName(ctx, ownerID, name)
		if err == nil {
			return t, false, nil
		}
		if !apperr.Is(err, apperr.ErrNotFound) {
			return models.Tag{}, false, err
		}

		res, err := r.q.ExecContext(ctx,
			`INSERT INTO tags (user_id, name) VALUES (?, ?) ON CONFLICT (user_id, name) DO NOTHING`,
			ownerID, name)
		if err != nil {
			return models.Tag{}, false, fmt.Errorf("insert tag: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			id, err := res.LastInsertId()
			if err != nil {
				return models.Tag{}, false, err
			}
			return models.Tag{ID: id, UserID: ownerID, Name: name}, true, nil
		}
		// Lost the race to a concurrent insert; look it up again.
	}
	return models.Tag{}, false, fmt.Errorf("get or create tag %q: no result after %d attempts", name, repository.GetOrCreateAttempts)
}

func (r *tagsRepo) getByName(ctx context.Context, ownerID int64, name string) (models.Tag, error) {
	t := models.Tag{UserID: ownerID}
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name FROM tags WHERE user_id = ? AND name = ?`, ownerID, name,
	).Scan(&t.ID, &t.Name)
	if isNoRows(err) {
		return models.Tag{}, errTagNotFound
	}
	return t, err
}

func (r *tagsRepo) Get(ctx context.Context, ownerID, id int64) (models.Tag, error) {
	t := models.Tag{UserID: ownerID}
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name FROM tags WHERE id = ? AND user_id = ?`, id, ownerID,
	).Scan(&t.ID, &t.Name)
	if isNoRows(err) {
		return models.Tag{}, errTagNotFound
	}
	return t, err
}

func (r *tagsRepo) List(ctx context.Context, ownerID int64) ([]models.Tag, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name FROM tags WHERE user_id = ? ORDER BY name DESC, id DESC`, ownerID)
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
	res, err := r.q.ExecContext(ctx, `UPDATE tags SET name = ? WHERE id = ? AND user_id = ?`, name, id, ownerID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Tag{}, errTagDuplicate
		}
		return models.Tag{}, fmt.Errorf("rename tag: %w", err)
	}
	if err := affected(res, errTagNotFound); err != nil {
		return models.Tag{}, err
	}
	return models.Tag{ID: id, UserID: ownerID, Name: name}, nil
}

func (r *tagsRepo) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM recipe_tags WHERE tag_id IN (SELECT id FROM tags WHERE id = ? AND user_id = ?)`, id, ownerID,
	); err != nil {
		return fmt.Errorf("unlink tag: %w", err)
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return affected(res, errTagNotFound)
}
