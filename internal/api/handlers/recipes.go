package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/baharkarakas/recipe-api/internal/api/httpx"
	"github.com/baharkarakas/recipe-api/internal/models"
	"github.com/baharkarakas/recipe-api/internal/services"
	"github.com/baharkarakas/recipe-api/internal/validate"
)

// recipeReadOnly are accepted in recipe payloads and never applied.
var recipeReadOnly = []string{"id", "user", "owner", "created_at"}

type recipeSummary struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	TimeMinutes int          `json:"time_minutes"`
	Price       models.Price `json:"price"`
	Link        string       `json:"link"`
	Tags        []models.Tag `json:"tags"`
}

type recipeDetail struct {
	recipeSummary
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func summaryOf(rc models.Recipe) recipeSummary {
	tags := rc.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return recipeSummary{
		ID:          rc.ID,
		Title:       rc.Title,
		TimeMinutes: rc.TimeMinutes,
		Price:       rc.Price,
		Link:        rc.Link,
		Tags:        tags,
	}
}

func detailOf(rc models.Recipe) recipeDetail {
	return recipeDetail{recipeSummary: summaryOf(rc), Description: rc.Description, CreatedAt: rc.CreatedAt}
}

type RecipeHandler struct {
	svc *services.RecipeService
	log *slog.Logger
}

func NewRecipeHandler(svc *services.RecipeService, log *slog.Logger) *RecipeHandler {
	return &RecipeHandler{svc: svc, log: log}
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := recipeFilter(r)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	list, err := h.svc.List(r.Context(), caller(r).UserID, f)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	out := make([]recipeSummary, 0, len(list))
	for _, rc := range list {
		out = append(out, summaryOf(rc))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// recipeFilter reads ?tags=1,2.
func recipeFilter(r *http.Request) (models.RecipeFilter, error) {
	var f models.RecipeFilter
	q := strings.TrimSpace(r.URL.Query().Get("tags"))
	if q == "" {
		return f, nil
	}
	for _, part := range strings.Split(q, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return f, validate.Errs{{Field: "tags", Msg: "expected a comma separated list of tag ids"}}.Err()
		}
		f.TagIDs = append(f.TagIDs, id)
	}
	return f, nil
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, errNotFound)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	rc, err := h.svc.Get(r.Context(), caller(r).UserID, id)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, detailOf(rc))
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := readRecipePatch(w, r)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	rc, err := h.svc.Create(r.Context(), caller(r).UserID, in)
	if err != nil {
		httpx.WriteErr(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, detailOf(rc))
}

// Update serves PUT (full) and PATCH (partial).
func (h *RecipeHandler) Update(full bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, errNotFound)
		if err != nil {
			httpx.WriteErr(w, h.log, err)
			return
		}
		p, err := readRecipePatch(w, r)
		if err != nil {
			httpx.WriteErr(w, h.log, err)
			return
		}
		rc, err := h.svc.Update(r.Context(), caller(r).UserID, id, p, full)
		if err != nil {
			httpx.WriteErr(w, h.log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, detailOf(rc))
	}
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func readRecipePatch(w http.ResponseWriter, r *http.Request) (models.RecipePatch, error) {
	p, err := readPayload(w, r)
	if err != nil {
		return models.RecipePatch{}, err
	}
	patch := models.RecipePatch{
		Title:       p.text("title"),
		TimeMinutes: p.integer("time_minutes"),
		Price:       p.price("price"),
		Description: p.text("description"),
		Link:        p.text("link"),
		Tags:        p.tagNames("tags"),
	}
	return patch, p.finish(recipeReadOnly...)
}
