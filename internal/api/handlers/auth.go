// internal/api/handlers/auth.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/baharkarakas/recipe-api/internal/api/httpx"
	"github.com/baharkarakas/recipe-api/internal/auth"
	"github.com/baharkarakas/recipe-api/internal/services"
	"github.com/baharkarakas/recipe-api/internal/validate"
)

type AuthHandler struct {
	users *services.UserService
	log   *slog.Logger
}

func NewAuthHandler(users *services.UserService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: log}
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // seconds until the access token expires
}

func newTokenResp(p auth.Pair) tokenResp {
	return tokenResp{
		AccessToken:  p.Access,
		RefreshToken: p.Refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(time.Until(p.AccessExp).Truncate(time.Second) / time.Second),
	}
}

// Token exchanges email and password for an access/refresh pair.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	p, err := readPayload(w, r)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	email, password := p.text("email"), p.text("password")
	if err := p.finish(); err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	var errs validate.Errs
	errs.Add(validate.Required("email", deref(email)))
	if password == nil || *password == "" {
		errs = append(errs, validate.ErrField{Field: "password", Msg: "this field is required"})
	}
	if err := errs.Err(); err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}

	pair, err := h.users.IssueTokens(r.Context(), *email, *password)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newTokenResp(pair))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	p, err := readPayload(w, r)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	token := p.text("refresh_token")
	if err := p.finish(); err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	if token == nil || *token == "" {
		httpx.WriteErr(w, h.log, validate.Errs{{Field: "refresh_token", Msg: "this field is required"}}.Err())
		return
	}

	pair, err := h.users.Refresh(r.Context(), *token)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newTokenResp(pair))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
