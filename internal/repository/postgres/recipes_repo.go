package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	apperr "github.com/baharkarakas/recipe-api/internal/errors"
	"github.com/baharkarakas/recipe-api/internal/models"
	"github.com/baharkarakas/recipe-api/internal/repository"
)

var errRecipeNotFound = apperr.NotFound("recipe not found")

var recipeColumns = []string{"r.id", "r.user_id", "r.title", "r.time_minutes", "r.price_cents", "r.description", "r.link", "r.created_at"}

type recipesRepo struct{ q querier }

func scanRecipe(row interface{ Scan(dest ...any) error }) (models.Recipe, error) {
	var (
		rc    models.Recipe
		cents int64
	)
	err := row.Scan(&rc.ID, &rc.UserID, &rc.Title, &rc.TimeMinutes, &cents, &rc.Description, &rc.Link, &rc.CreatedAt)
	rc.Price = models.Price(cents)
	return rc, err
}

func (r *recipesRepo) Create(ctx context.Context, rc models.Recipe) (models.Recipe, error) {
	err := r.q.QueryRow(ctx,
		`INSERT INTO recipes(user_id, title, time_minutes, price_cents, description, link)
		 VALUES($1,$2,$3,$4,$5,$6) RETURNING id, created_at`,
		rc.UserID, rc.Title, rc.TimeMinutes, int64(rc.Price), rc.Description, rc.Link,
	).Scan(&rc.ID, &rc.CreatedAt)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("insert recipe: %w", err)
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
	rc, err := scanRecipe(r.q.QueryRow(ctx, query, args...))
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
	rc.Tags = orEmpty(tags[rc.ID])
	return rc, nil
}

func (r *recipesRepo) List(ctx context.Context, ownerID int64, f models.RecipeFilter) ([]models.Recipe, error) {
	b := qb.Select(recipeColumns...).From("recipes r").
		Where(sq.Eq{"r.user_id": ownerID}).
		OrderBy("r.id DESC")
	if len(f.TagIDs) > 0 {
		b = b.Where(sq.Expr("r.id IN (SELECT rt.recipe_id FROM recipe_tags rt WHERE rt.tag_id = ANY(?))", f.TagIDs))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, query, args...)
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
		out[i].Tags = orEmpty(tags[out[i].ID])
	}
	return out, nil
}

func (r *recipesRepo) tagsFor(ctx context.Context, recipeIDs []int64) (map[int64][]models.Tag, error) {
	out := make(map[int64][]models.Tag, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT rt.recipe_id, t.id, t.user_id, t.name
		 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
		 WHERE rt.recipe_id = ANY($1)
		 ORDER BY t.id ASC`, recipeIDs)
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
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	return affected(tag, errRecipeNotFound)
}

func (r *recipesRepo) SetTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id=$1`, recipeID); err != nil {
		return fmt.Errorf("clear recipe tags: %w", err)
	}
	ids := repository.UniqueIDs(tagIDs)
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.q.Exec(ctx,
		`INSERT INTO recipe_tags(recipe_id, tag_id) SELECT $1, unnest($2::bigint[])`, recipeID, ids,
	); err != nil {
		return fmt.Errorf("link recipe tags: %w", err)
	}
	return nil
}

func (r *recipesRepo) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := r.q.Exec(ctx,
		`DELETE FROM recipe_tags WHERE recipe_id IN (SELECT id FROM recipes WHERE id=$1 AND user_id=$2)`, id, ownerID,
	); err != nil {
		return fmt.Errorf("unlink recipe tags: %w", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM recipes WHERE id=$1 AND user_id=$2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return affected(tag, errRecipeNotFound)
}

func orEmpty(tags []models.Tag) []models.Tag {
	if tags == nil {
		return []models.Tag{}
	}
	return tags
}
