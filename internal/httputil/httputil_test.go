package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codegen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalString_TriState(t *testing.T) {
	var body struct {
		Description OptionalString `json:"description"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.False(t, body.Description.Present)

	require.NoError(t, json.Unmarshal([]byte(`{"description": null}`), &body))
	assert.True(t, body.Description.Present)
	assert.Nil(t, body.Description.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"description": "hello"}`), &body))
	require.NotNil(t, body.Description.Value)
	assert.Equal(t, "hello", *body.Description.ToModel().Value)
}

func TestParseJSON(t *testing.T) {
	var dest map[string]interface{}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"n": 1}`))
	require.NoError(t, ParseJSON(httptest.NewRecorder(), r, &dest, 1024))
	assert.Equal(t, json.Number("1"), dest["n"])

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"n":`))
	err := ParseJSON(httptest.NewRecorder(), r, &dest, 1024)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	err = ParseJSON(httptest.NewRecorder(), r, &dest, 1024)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"big": "`+strings.Repeat("x", 64)+`"}`))
	err = ParseJSON(httptest.NewRecorder(), r, &dest, 16)
	assert.Error(t, err)
}

func TestQueryParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=5&mine=true&bad=x", nil)

	n, err := QueryInt(r, "limit", 20)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = QueryInt(r, "skip", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = QueryInt(r, "bad", 0)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	b, err := QueryBool(r, "mine")
	require.NoError(t, err)
	assert.True(t, b)

	_, err = QueryBool(r, "bad")
	assert.Error(t, err)
}

func TestRespondEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	RespondSuccess(w, http.StatusCreated, "created", map[string]string{"id": "1"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"created","data":{"id":"1"}}`, w.Body.String())

	w = httptest.NewRecorder()
	RespondError(w, http.StatusNotFound, "template not found")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"template not found","data":null}`, w.Body.String())
}
