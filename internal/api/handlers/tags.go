package handlers

import (
	"log/slog"
	"net/http"

	"github.com/baharkarakas/recipe-api/internal/api/httpx"
	"github.com/baharkarakas/recipe-api/internal/services"
	"github.com/baharkarakas/recipe-api/internal/validate"
)

type TagHandler struct {
	svc *services.TagService
	log *slog.Logger
}

func NewTagHandler(svc *services.TagService, log *slog.Logger) *TagHandler {
	return &TagHandler{svc: svc, log: log}
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.List(r.Context(), caller(r).UserID)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tags)
}

func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	name, err := readTagName(w, r)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	t, err := h.svc.Create(r.Context(), caller(r).UserID, name)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, t)
}

// Update renames a tag; name is the only writable field, so PUT and PATCH
// behave the same.
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, errNotFound)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	name, err := readTagName(w, r)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	t, err := h.svc.Rename(r.Context(), caller(r).UserID, id, name)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, errNotFound)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	if err := h.svc.Delete(r.Context(), caller(r).UserID, id); err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readTagName(w http.ResponseWriter, r *http.Request) (string, error) {
	p, err := readPayload(w, r)
	if err != nil {
		return "", err
	}
	name := p.text("name")
	if err := p.finish("id", "user"); err != nil {
		return "", err
	}
	if name == nil {
		return "", validate.Errs{{Field: "name", Msg: "this field is required"}}.Err()
	}
	return *name, nil
}
