package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	apperr "github.com/baharkarakas/recipe-api/internal/errors"
	"github.com/baharkarakas/recipe-api/internal/models"
	"github.com/baharkarakas/recipe-api/internal/repository"
)

var errRecipeNotFound = apperr.NotFound("recipe not found")

var recipeColumns = []string{"r.id", "r.user_id", "r.title", "r.time_minutes", "r.price_cents", "r.description", "r.link", "r.created_at"}

type recipesRepo struct{ q querier }

func scanRecipe(scanner interface{ Scan(dest ...any) error }) (models.Recipe, error) {
	var (
		rc        models.Recipe
		createdAt string
	)
	err := scanner.Scan(&rc.ID, &rc.UserID, &rc.Title, &rc.TimeMinutes, &rc.Price, &rc.Description, &rc.Link, &createdAt)
	if err != nil {
		return models.Recipe{}, err
	}
	rc.CreatedAt, err = parseTime(createdAt)
	return rc, err
}

func (r *recipesRepo) Create(ctx context.Context, rc models.Recipe) (models.Recipe, error) {
	rc.CreatedAt = time.Now().UTC()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO recipes (user_id, title, time_minutes, price_cents, description, link, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rc.UserID, rc.Title, rc.TimeMinutes, int64(rc.Price), rc.Description, rc.Link, formatTime(rc.CreatedAt),
	)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("insert recipe: %w", err)
	}
	if rc.ID, err = res.LastInsertId(); err != nil {
		return models.Recipe{}, err
	}
	rc.Tags = []models.Tag{}
	return rc, nil
}

func (r *recipesRepo) Get(ctx context.Context, ownerID, id int64) (models.Recipe, error) {
	query, args, err := qb.Select(recipeColumns...).From("recipes r").
		Where(sq.Eq{"r.id": id, "r.user_id": ownerID}).ToSql()
	if err != nil {
		return models.Recipe{}, err
	}
	rc, err := scanRecipe(r.q.QueryRowContext(ctx, query, args...))
	if isNoRows(err) {
		return models.Recipe{}, errRecipeNotFound
	}
	if err != nil {
		return models.Recipe{}, err
	}
	tags, err := r.tagsFor(ctx, []int64{rc.ID})
	if err != nil {
		return models.Recipe{}, err
	}
	rc.Tags = tags[rc.ID]
	if rc.Tags == nil {
		rc.Tags = []models.Tag{}
	}
	return rc, nil
}

func (r *recipesRepo) List(ctx context.Context, ownerID int64, f models.RecipeFilter) ([]models.Recipe, error) {
	b := qb.Select(recipeColumns...).From("recipes r").
		Where(sq.Eq{"r.user_id": ownerID}).
		OrderBy("r.id DESC")
	if len(f.TagIDs) > 0 {
		args := make([]any, len(f.TagIDs))
		for i, id := range f.TagIDs {
			args[i] = id
		}
		b = b.Where("r.id IN (SELECT rt.recipe_id FROM recipe_tags rt WHERE rt.tag_id IN ("+sq.Placeholders(len(args))+"))", args...)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := []models.Recipe{}
	for rows.Next() {
		rc, err := scanRecipe(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, rc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]int64, len(out))
	for i := range out {
		ids[i] = out[i].ID
	}
	tags, err := r.tagsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Tags = tags[out[i].ID]
		if out[i].Tags == nil {
			out[i].Tags = []models.Tag{}
		}
	}
	return out, nil
}

// tagsFor loads the tags linked to each of the given recipes.
func (r *recipesRepo) tagsFor(ctx context.Context, recipeIDs []int64) (map[int64][]models.Tag, error) {
	out := make(map[int64][]models.Tag, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}
	query, args, err := qb.Select("rt.recipe_id", "t.id", "t.user_id", "t.name").
		From("recipe_tags rt").
		Join("tags t ON t.id = rt.tag_id").
		Where(sq.Eq{"rt.recipe_id": recipeIDs}).
		OrderBy("t.id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			recipeID int64
			t        models.Tag
		)
		if err := rows.Scan(&recipeID, &t.ID, &t.UserID, &t.Name); err != nil {
			return nil, err
		}
		out[recipeID] = append(out[recipeID], t)
	}
	return out, rows.Err()
}

func (r *recipesRepo) Update(ctx context.Context, ownerID, id int64, p models.RecipePatch) error {
	if p.Empty() {
		return nil
	}
	b := qb.Update("recipes").Where(sq.Eq{"id": id, "user_id": ownerID})
	if p.Title != nil {
		b = b.Set("title", *p.Title)
	}
	if p.TimeMinutes != nil {
		b = b.Set("time_minutes", *p.TimeMinutes)
	}
	if p.Price != nil {
		b = b.Set("price_cents", int64(*p.Price))
	}
	if p.Description != nil {
		b = b.Set("description", *p.Description)
	}
	if p.Link != nil {
		b = b.Set("link", *p.Link)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	return affected(res, errRecipeNotFound)
}

func (r *recipesRepo) SetTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("clear recipe tags: %w", err)
	}
	for _, tagID := range repository.UniqueIDs(tagIDs) {
		if _, err := r.q.ExecContext(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)`, recipeID, tagID,
		); err != nil {
			return fmt.Errorf("link recipe tag: %w", err)
		}
	}
	return nil
}

func (r *recipesRepo) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM recipe_tags WHERE recipe_id IN (SELECT id FROM recipes WHERE id = ? AND user_id = ?)`, id, ownerID,
	); err != nil {
		return fmt.Errorf("unlink recipe tags: %w", err)
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM recipes WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return affected(res, errRecipeNotFound)
}
