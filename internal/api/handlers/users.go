package handlers

import (
	"log/slog"
	"net/http"

	"github.com/baharkarakas/recipe-api/internal/api/httpx"
	"github.com/baharkarakas/recipe-api/internal/services"
	"github.com/baharkarakas/recipe-api/internal/validate"
)

type UserHandler struct {
	users *services.UserService
	log   *slog.Logger
}

func NewUserHandler(users *services.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

type createUserReq struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=5,max=72"`
	Name     string `json:"name" validate:"max=255"`
}

// Create registers a new account.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := readPayload(w, r)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	req := createUserReq{
		Email:    deref(p.text("email")),
		Password: deref(p.text("password")),
		Name:     deref(p.text("name")),
	}
	if err := p.finish("id"); err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	if err := validate.Struct(req).Err(); err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}

	u, err := h.users.CreateUser(r.Context(), req.Email, req.Password, services.UserExtra{Name: req.Name})
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), caller(r).UserID)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

type profileReq struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Password *string `json:"password" validate:"omitempty,min=5,max=72"`
}

// UpdateMe changes the caller's name and/or password. full (PUT) requires
// both. The email and the account flags are read-only here.
func (h *UserHandler) UpdateMe(full bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := readPayload(w, r)
		if err != nil {
			httpx.WriteErr(w, h.log, err)
			return
		}
		req := profileReq{Name: p.text("name"), Password: p.text("password")}
		if err := p.finish("id", "email", "is_active", "is_staff", "is_superuser", "last_login", "created_at"); err != nil {
			httpx.WriteErr(w, h.log, err)
			return
		}
		errs := validate.Struct(req)
		if full {
			if req.Name == nil {
				errs = append(errs, validate.ErrField{Field: "name", Msg: "this field is required"})
			}
			if req.Password == nil {
				errs = append(errs, validate.ErrField{Field: "password", Msg: "this field is required"})
			}
		}
		if err := errs.Err(); err != nil {
			httpx.WriteErr(w, h.log, err)
			return
		}

		u, err := h.users.UpdateProfile(r.Context(), caller(r).UserID, services.ProfilePatch{Name: req.Name, Password: req.Password})
		if err != nil {
			httpx.WriteErr(w, h.log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, u)
	}
}

// DeleteMe removes the caller together with their recipes and tags.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), caller(r).UserID); err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List is the staff-only account listing.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}
