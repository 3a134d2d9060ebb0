package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/baharkarakas/recipe-api/internal/auth"
	apperr "github.com/baharkarakas/recipe-api/internal/errors"
	"github.com/baharkarakas/recipe-api/internal/models"
	"github.com/baharkarakas/recipe-api/internal/repository"
	"github.com/baharkarakas/recipe-api/internal/validate"
)

// TaskRunner queues fire-and-forget background work.
type TaskRunner interface {
	Submit(f func()) bool
}

const lastLoginTimeout = 5 * time.Second

var errBadToken = apperr.Unauthorized("token is invalid or expired")

type UserService struct {
	store repository.Store
	tm    *auth.TokenManager
	tasks TaskRunner
	log   *slog.Logger
}

func NewUserService(store repository.Store, tm *auth.TokenManager, tasks TaskRunner, log *slog.Logger) *UserService {
	return &UserService{store: store, tm: tm, tasks: tasks, log: log}
}

// UserExtra holds the optional attributes of a new account.
type UserExtra struct {
	Name        string
	IsStaff     bool
	IsSuperuser bool
}

// CreateUser normalizes the email domain, hashes the password and stores an
// active account.
func (s *UserService) CreateUser(ctx context.Context, email, password string, extra UserExtra) (models.User, error) {
	u := models.User{
		Email:       models.NormalizeEmail(email),
		Name:        strings.TrimSpace(extra.Name),
		IsActive:    true,
		IsStaff:     extra.IsStaff,
		IsSuperuser: extra.IsSuperuser,
	}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = hash

	created, err := s.store.Repos().Users.Create(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	s.log.Info("user created", "user_id", created.ID, "staff", created.IsStaff)
	return created, nil
}

func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (models.User, error) {
	return s.CreateUser(ctx, email, password, UserExtra{IsStaff: true, IsSuperuser: true})
}

// Authenticate checks the credentials of an active account. Unknown emails,
// wrong passwords and inactive accounts fail identically.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.store.Repos().Users.GetByEmail(ctx, models.NormalizeEmail(email))
	if apperr.Is(err, apperr.ErrNotFound) {
		return models.User{}, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil || !u.IsActive {
		return models.User{}, apperr.ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens authenticates the caller and signs a token pair. last_login is
// updated in the background.
func (s *UserService) IssueTokens(ctx context.Context, email, password string) (auth.Pair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return auth.Pair{}, err
	}
	pair, err := s.tm.GeneratePair(u.ID, u.Role())
	if err != nil {
		return auth.Pair{}, apperr.Wrap(err, apperr.CodeInternal, "token generation failed")
	}
	s.touchLastLogin(u.ID)
	return pair, nil
}

func (s *UserService) touchLastLogin(userID int64) {
	if s.tasks == nil {
		return
	}
	s.tasks.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), lastLoginTimeout)
		defer cancel()
		if err := s.store.Repos().Users.TouchLastLogin(ctx, userID, time.Now().UTC()); err != nil {
			s.log.Warn("update last_login", "user_id", userID, "err", err)
		}
	})
}

// Refresh exchanges a refresh token for a new pair, provided its user still
// exists and is active.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (auth.Pair, error) {
	claims, err := s.tm.ParseRefresh(refreshToken)
	if err != nil {
		return auth.Pair{}, errBadToken
	}
	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return auth.Pair{}, err
	}
	pair, err := s.tm.GeneratePair(u.ID, u.Role())
	if err != nil {
		return auth.Pair{}, apperr.Wrap(err, apperr.CodeInternal, "token generation failed")
	}
	return pair, nil
}

// ResolveAccessToken returns the active user an access token was issued to.
func (s *UserService) ResolveAccessToken(ctx context.Context, token string) (models.User, error) {
	claims, err := s.tm.ParseAccess(token)
	if err != nil {
		return models.User{}, errBadToken
	}
	return s.activeUser(ctx, claims.UserID)
}

func (s *UserService) activeUser(ctx context.Context, id int64) (models.User, error) {
	u, err := s.store.Repos().Users.GetByID(ctx, id)
	if apperr.Is(err, apperr.ErrNotFound) {
		return models.User{}, apperr.Unauthorized("user not found")
	}
	if err != nil {
		return models.User{}, err
	}
	if !u.IsActive {
		return models.User{}, apperr.Unauthorized("user is inactive")
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (models.User, error) {
	return s.store.Repos().Users.GetByID(ctx, id)
}

// ProfilePatch lists the self-service fields of an account; nil means
// unchanged.
type ProfilePatch struct {
	Name     *string
	Password *string
}

func (s *UserService) UpdateProfile(ctx context.Context, id int64, p ProfilePatch) (models.User, error) {
	var hash string
	if p.Password != nil {
		var err error
		if hash, err = hashPassword(*p.Password); err != nil {
			return models.User{}, err
		}
	}

	var out models.User
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		u, err := r.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Name != nil {
			u.Name = strings.TrimSpace(*p.Name)
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		if err := u.Validate(); err != nil {
			return err
		}
		if err := r.Users.Update(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	return out, err
}

// Delete removes the account and everything it owns in one transaction.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		return r.Users.Delete(ctx, id)
	})
	if err == nil {
		s.log.Info("user deleted", "user_id", id)
	}
	return err
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.Repos().Users.List(ctx)
}

func hashPassword(password string) (string, error) {
	hash, err := auth.HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", validate.Errs{{Field: "password", Msg: "ensure this field has no more than 72 bytes"}}.Err()
	}
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeInternal, "hash password")
	}
	return hash, nil
}
