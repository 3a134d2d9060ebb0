package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/recipe-api/internal/api/httpx"
	apperr "github.com/baharkarakas/recipe-api/internal/errors"
	"github.com/baharkarakas/recipe-api/internal/middleware"
	"github.com/baharkarakas/recipe-api/internal/models"
	"github.com/baharkarakas/recipe-api/internal/validate"
)

// payload is a decoded JSON object whose members are consumed one by one.
// Whatever is left when finish runs is an unknown field.
type payload struct {
	fields map[string]json.RawMessage
	errs   validate.Errs
}

func readPayload(w http.ResponseWriter, r *http.Request) (*payload, error) {
	obj, err := httpx.DecodeObject(w, r)
	if err != nil {
		return nil, err
	}
	return &payload{fields: obj}, nil
}

// raw consumes key. A JSON null counts as absent.
func (p *payload) raw(key string) (json.RawMessage, bool) {
	v, ok := p.fields[key]
	delete(p.fields, key)
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, false
	}
	return v, true
}

func (p *payload) fail(field, msg string) {
	p.errs = append(p.errs, validate.ErrField{Field: field, Msg: msg})
}

func (p *payload) text(key string) *string {
	v, ok := p.raw(key)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		p.fail(key, "not a valid string")
		return nil
	}
	return &s
}

// integer accepts a JSON integer or a string holding one.
func (p *payload) integer(key string) *int {
	v, ok := p.raw(key)
	if !ok {
		return nil
	}
	var n int
	if err := json.Unmarshal(v, &n); err == nil {
		return &n
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return &n
		}
	}
	p.fail(key, "a valid integer is required")
	return nil
}

func (p *payload) price(key string) *models.Price {
	v, ok := p.raw(key)
	if !ok {
		return nil
	}
	var pr models.Price
	if err := json.Unmarshal(v, &pr); err != nil {
		p.fail(key, err.Error())
		return nil
	}
	return &pr
}

// tagNames reads a list of {"name": ...} objects. "id" members are
// read-only and ignored.
func (p *payload) tagNames(key string) *[]string {
	v, ok := p.raw(key)
	if !ok {
		return nil
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		p.fail(key, "expected a list of items")
		return nil
	}
	names := make([]string, 0, len(items))
	for i, item := range items {
		var name string
		raw, ok := item["name"]
		if !ok || json.Unmarshal(raw, &name) != nil {
			p.fail(fmt.Sprintf("%s[%d].name", key, i), "this field is required")
		}
		for _, k := range sortedKeys(item) {
			if k != "name" && k != "id" {
				p.fail(fmt.Sprintf("%s[%d].%s", key, i, k), "unknown field")
			}
		}
		names = append(names, name)
	}
	return &names
}

// finish drops the read-only members in ignored and reports every other
// member that no getter consumed, plus any decoding failure.
func (p *payload) finish(ignored ...string) error {
	for _, k := range ignored {
		delete(p.fields, k)
	}
	for _, k := range sortedKeys(p.fields) {
		p.fail(k, "unknown field")
	}
	return p.errs.Err()
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// pathID parses the {id} URL parameter. A malformed id cannot name any row,
// so it is reported as not found.
func pathID(r *http.Request, notFound error) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}

func caller(r *http.Request) middleware.UserCtx {
	u, _ := middleware.FromCtx(r.Context())
	return u
}

var errNotFound = apperr.NotFound("not found")
