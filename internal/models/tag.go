package models

import (
	"strings"

	"github.com/baharkarakas/recipe-api/internal/validate"
)

type Tag struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
}

func (t Tag) String() string { return t.Name }

// CleanTagName trims the name and checks its length.
func CleanTagName(field, name string) (string, *validate.ErrField) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &validate.ErrField{Field: field, Msg: "this field may not be blank"}
	}
	if len(name) > 255 {
		return "", &validate.ErrField{Field: field, Msg: "ensure this field has no more than 255 characters"}
	}
	return name, nil
}
