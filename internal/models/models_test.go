package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/baharkarakas/recipe-api/internal/errors"
	"github.com/baharkarakas/recipe-api/internal/validate"
)

func ptr[T any](v T) *T { return &v }

func TestNormalizeEmail(t *testing.T) {
	cases := [][2]string{
		{"test1@EXAMPLE.com", "test1@example.com"},
		{"Test2@example.com", "Test2@example.com"},
		{"TEST3@example.COM", "TEST3@example.com"},
		{"test4@example.com", "test4@example.com"},
		{"no-at-sign", "no-at-sign"},
		{"we\"ird@x@EXAMPLE.org", "we\"ird@x@example.org"},
	}
	for _, c := range cases {
		assert.Equal(t, c[1], NormalizeEmail(c[0]), c[0])
	}
}

func TestUserValidate(t *testing.T) {
	u := User{Email: ""}
	err := u.Validate()
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ErrValidation))

	u.Email = "a@example.com"
	assert.NoError(t, u.Validate())
	assert.Equal(t, "user", u.Role())
	u.IsStaff = true
	assert.Equal(t, "staff", u.Role())
}

func TestParsePrice(t *testing.T) {
	ok := map[string]Price{
		"5.50":   550,
		"5.5":    550,
		"5":      500,
		"0.05":   5,
		".5":     50,
		"999.99": 99999,
		"007.10": 710,
		"-1.25":  -125,
	}
	for in, want := range ok {
		got, err := ParsePrice(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "abc", "1.234", "1000", "1e3", "1.2.3", "."} {
		_, err := ParsePrice(in)
		assert.Error(t, err, in)
	}
}

func TestPriceString(t *testing.T) {
	assert.Equal(t, "5.50", Price(550).String())
	assert.Equal(t, "0.05", Price(5).String())
	assert.Equal(t, "-1.25", Price(-125).String())
}

func TestPriceJSON(t *testing.T) {
	var v struct {
		A Price `json:"a"`
		B Price `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"20.00","b":7.5}`), &v))
	assert.Equal(t, Price(2000), v.A)
	assert.Equal(t, Price(750), v.B)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"20.00","b":"7.50"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"a":"1.999"}`), &v))
}

func TestRecipeString(t *testing.T) {
	r := Recipe{Title: "Steak", TimeMinutes: 5, Price: 550}
	assert.Equal(t, "Steak", r.String())
}

func TestRecipePatchValidate(t *testing.T) {
	assert.NoError(t, RecipePatch{Title: ptr("New recipe title")}.Validate(false))

	err := RecipePatch{Title: ptr("Only title")}.Validate(true)
	require.Error(t, err)
	var de *apperr.Error
	require.ErrorAs(t, err, &de)
	fields := map[string]bool{}
	for _, f := range de.Details.(validate.Errs) {
		fields[f.Field] = true
	}
	assert.True(t, fields["time_minutes"])
	assert.True(t, fields["price"])
	assert.False(t, fields["title"])

	full := RecipePatch{Title: ptr("Cake"), TimeMinutes: ptr(30), Price: ptr(Price(500))}
	assert.NoError(t, full.Validate(true))

	assert.Error(t, RecipePatch{Title: ptr("   ")}.Validate(false))
	assert.Error(t, RecipePatch{TimeMinutes: ptr(-1)}.Validate(false))
	assert.Error(t, RecipePatch{Price: ptr(Price(-1))}.Validate(false))
	assert.Error(t, RecipePatch{Tags: &[]string{"ok", ""}}.Validate(false))
	assert.NoError(t, RecipePatch{Tags: &[]string{}}.Validate(false))
}

func TestRecipePatchApply(t *testing.T) {
	r := Recipe{Title: "Sample recipe title", Link: "http://example.com/recipe.pdf", TimeMinutes: 10, Price: 500}
	p := RecipePatch{Title: ptr("  New recipe title ")}
	p.Normalize()
	p.Apply(&r)

	assert.Equal(t, "New recipe title", r.Title)
	assert.Equal(t, "http://example.com/recipe.pdf", r.Link)
	assert.Equal(t, 10, r.TimeMinutes)
	assert.False(t, p.Empty())
	assert.True(t, RecipePatch{Tags: &[]string{"x"}}.Empty())
}

func TestCleanTagName(t *testing.T) {
	name, ferr := CleanTagName("name", "  Vegan ")
	assert.Nil(t, ferr)
	assert.Equal(t, "Vegan", name)

	_, ferr = CleanTagName("name", " ")
	require.NotNil(t, ferr)
	assert.Equal(t, "name", ferr.Field)
}
