// internal/repository/postgres/users_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	apperr "github.com/baharkarakas/recipe-api/internal/errors"
	"github.com/baharkarakas/recipe-api/internal/models"
)

const userColumns = `id, email, name, password_hash, is_active, is_staff, is_superuser, last_login, created_at`

var errUserNotFound = apperr.NotFound("user not found")

type usersRepo struct{ q querier }

func scanUser(row interface{ Scan(dest ...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.LastLogin, &u.CreatedAt)
	return u, err
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	created, err := scanUser(r.q.QueryRow(ctx,
		`INSERT INTO users(email, name, password_hash, is_active, is_staff, is_superuser)
		 VALUES($1,$2,$3,$4,$5,$6) RETURNING `+userColumns,
		u.Email, u.Name, u.PasswordHash, u.IsActive, u.IsStaff, u.IsSuperuser,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperr.AlreadyExists("user with this email already exists")
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	if isNoRows(err) {
		return models.User{}, errUserNotFound
	}
	return u, err
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
	if isNoRows(err) {
		return models.User{}, errUserNotFound
	}
	return u, err
}

func (r *usersRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) Update(ctx context.Context, u models.User) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET name=$2, password_hash=$3, is_active=$4, is_staff=$5, is_superuser=$6 WHERE id=$1`,
		u.ID, u.Name, u.PasswordHash, u.IsActive, u.IsStaff, u.IsSuperuser,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return affected(tag, errUserNotFound)
}

func (r *usersRepo) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE users SET last_login=$2 WHERE id=$1`, id, at)
	return err
}

func (r *usersRepo) Delete(ctx context.Context, id int64) error {
	stmts := []string{
		`DELETE FROM recipe_tags WHERE recipe_id IN (SELECT id FROM recipes WHERE user_id=$1)`,
		`DELETE FROM recipe_tags WHERE tag_id IN (SELECT id FROM tags WHERE user_id=$1)`,
		`DELETE FROM recipes WHERE user_id=$1`,
		`DELETE FROM tags WHERE user_id=$1`,
	}
	for _, stmt := range stmts {
		if _, err := r.q.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete user data: %w", err)
		}
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return affected(tag, errUserNotFound)
}
