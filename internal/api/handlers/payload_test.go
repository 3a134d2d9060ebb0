package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/baharkarakas/recipe-api/internal/errors"
	"github.com/baharkarakas/recipe-api/internal/models"
	"github.com/baharkarakas/recipe-api/internal/validate"
)

func newPayload(t *testing.T, body string) *payload {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	p, err := readPayload(httptest.NewRecorder(), req)
	require.NoError(t, err)
	return p
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	errs, ok := e.Details.(validate.Errs)
	require.True(t, ok)
	var out []string
	for _, d := range errs {
		out = append(out, d.Field)
	}
	return out
}

func TestReadRecipePatch(t *testing.T) {
	body := `{"title":"Curry","time_minutes":"15","price":"4.50","description":null,
		"tags":[{"name":"Vegan","id":3}],"id":9,"user":2}`
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))

	p, err := readRecipePatch(httptest.NewRecorder(), req)
	require.NoError(t, err)
	require.NotNil(t, p.Title)
	assert.Equal(t, "Curry", *p.Title)
	require.NotNil(t, p.TimeMinutes)
	assert.Equal(t, 15, *p.TimeMinutes)
	require.NotNil(t, p.Price)
	assert.Equal(t, models.Price(450), *p.Price)
	assert.Nil(t, p.Description, "null is treated as absent")
	assert.Nil(t, p.Link)
	require.NotNil(t, p.Tags)
	assert.Equal(t, []string{"Vegan"}, *p.Tags)
}

func TestPayloadErrors(t *testing.T) {
	p := newPayload(t, `{"title":5,"time_minutes":"ten","tags":[{"label":"x"}],"extra":1}`)
	p.text("title")
	p.integer("time_minutes")
	p.tagNames("tags")
	err := p.finish()

	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	assert.ElementsMatch(t,
		[]string{"title", "time_minutes", "tags[0].name", "tags[0].label", "extra"},
		fieldsOf(t, err))
}

func TestPayloadEmptyTagList(t *testing.T) {
	p := newPayload(t, `{"tags":[]}`)
	tags := p.tagNames("tags")
	require.NoError(t, p.finish())
	require.NotNil(t, tags)
	assert.Empty(t, *tags)
}

func TestReadTagName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":1,"user":4}`))
	_, err := readTagName(httptest.NewRecorder(), req)
	assert.Equal(t, []string{"name"}, fieldsOf(t, err))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Dinner"}`))
	name, err := readTagName(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", name)
}
