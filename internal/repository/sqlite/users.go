package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperr "github.com/baharkarakas/recipe-api/internal/errors"
	"github.com/baharkarakas/recipe-api/internal/models"
)

const userColumns = `id, email, name, password_hash, is_active, is_staff, is_superuser, last_login, created_at`

var errUserNotFound = apperr.NotFound("user not found")

type usersRepo struct{ q querier }

func scanUser(scanner interface{ Scan(dest ...any) error }) (models.User, error) {
	var (
		u         models.User
		lastLogin sql.NullString
		createdAt string
	)
	err := scanner.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsActive, &u.IsStaff, &u.IsSuperuser, &lastLogin, &createdAt)
	if err != nil {
		return models.User{}, err
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.User{}, err
	}
	if u.LastLogin, err = parseNullableTime(lastLogin); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO users (email, name, password_hash, is_active, is_staff, is_superuser, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Email, u.Name, u.PasswordHash, u.IsActive, u.IsStaff, u.IsSuperuser, formatTime(time.Now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperr.AlreadyExists("user with this email already exists")
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if isNoRows(err) {
		return models.User{}, errUserNotFound
	}
	return u, err
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if isNoRows(err) {
		return models.User{}, errUserNotFound
	}
	return u, err
}

func (r *usersRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
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
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET name = ?, password_hash = ?, is_active = ?, is_staff = ?, is_superuser = ? WHERE id = ?`,
		u.Name, u.PasswordHash, u.IsActive, u.IsStaff, u.IsSuperuser, u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return affected(res, errUserNotFound)
}

func (r *usersRepo) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.q.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, nullTimeString(&at), id)
	return err
}

func (r *usersRepo) Delete(ctx context.Context, id int64) error {
	stmts := []string{
		`DELETE FROM recipe_tags WHERE recipe_id IN (SELECT id FROM recipes WHERE user_id = ?)`,
		`DELETE FROM recipe_tags WHERE tag_id IN (SELECT id FROM tags WHERE user_id = ?)`,
		`DELETE FROM recipes WHERE user_id = ?`,
		`DELETE FROM tags WHERE user_id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := r.q.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete user data: %w", err)
		}
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return affected(res, errUserNotFound)
}
