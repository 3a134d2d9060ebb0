package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/baharkarakas/recipe-api/internal/validate"
)

type Recipe struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	Title       string    `json:"title"`
	TimeMinutes int       `json:"time_minutes"`
	Price       Price     `json:"price"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"created_at"`
	Tags        []Tag     `json:"tags"`
}

func (r Recipe) String() string { return r.Title }

// RecipeFilter narrows a recipe listing. Empty TagIDs means no tag filter.
type RecipeFilter struct {
	TagIDs []int64
}

// RecipePatch carries the writable recipe fields. A nil field is absent from
// the request and is left unchanged; Tags set to an empty slice clears the
// recipe's tags.
type RecipePatch struct {
	Title       *string   `json:"title" validate:"omitempty,max=255"`
	TimeMinutes *int      `json:"time_minutes" validate:"omitempty,gte=0,lte=2147483647"`
	Price       *Price    `json:"price" validate:"omitempty,gte=0,lte=99999"`
	Description *string   `json:"description"`
	Link        *string   `json:"link" validate:"omitempty,max=255"`
	Tags        *[]string `json:"tags" validate:"omitempty,dive,max=255"`
}

// Validate checks field formats. full requires every non-optional field, as
// a create or a full replacement does.
func (p RecipePatch) Validate(full bool) error {
	errs := validate.Struct(p)
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs = append(errs, validate.ErrField{Field: "title", Msg: "this field may not be blank"})
	}
	if p.Tags != nil {
		for i, name := range *p.Tags {
			if strings.TrimSpace(name) == "" {
				errs = append(errs, validate.ErrField{Field: fmt.Sprintf("tags[%d].name", i), Msg: "this field may not be blank"})
			}
		}
	}
	if full {
		if p.Title == nil {
			errs = append(errs, validate.ErrField{Field: "title", Msg: "this field is required"})
		}
		if p.TimeMinutes == nil {
			errs = append(errs, validate.ErrField{Field: "time_minutes", Msg: "this field is required"})
		}
		if p.Price == nil {
			errs = append(errs, validate.ErrField{Field: "price", Msg: "this field is required"})
		}
	}
	return errs.Err()
}

// Empty reports whether no column field is set. Tags are not a column.
func (p RecipePatch) Empty() bool {
	return p.Title == nil && p.TimeMinutes == nil && p.Price == nil && p.Description == nil && p.Link == nil
}

// Apply copies the supplied fields onto r.
func (p RecipePatch) Apply(r *Recipe) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.TimeMinutes != nil {
		r.TimeMinutes = *p.TimeMinutes
	}
	if p.Price != nil {
		r.Price = *p.Price
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Link != nil {
		r.Link = *p.Link
	}
}

// Normalize trims surrounding whitespace from the text fields and tag names.
func (p *RecipePatch) Normalize() {
	for _, s := range []*string{p.Title, p.Description, p.Link} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	if p.Tags != nil {
		for i, name := range *p.Tags {
			(*p.Tags)[i] = strings.TrimSpace(name)
		}
	}
}
