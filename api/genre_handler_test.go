package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenreCreatePersistsGenre(t *testing.T) {
	a := newTestAPI(t, nil)

	rec := a.mustDo(http.StatusCreated, http.MethodPost, "/genres/", `{"name":"Western"}`)
	assert.Empty(t, rec.Body.String())

	rec = a.mustDo(http.StatusOK, http.MethodGet, "/genres/", "")
	assert.JSONEq(t, `[{"id":1,"name":"Western"}]`, rec.Body.String())

	rec = a.mustDo(http.StatusOK, http.MethodGet, "/directors/", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = a.mustDo(http.StatusOK, http.MethodGet, "/genres/1/detail", "")
	assert.JSONEq(t, `{"id":1,"name":"Western"}`, rec.Body.String())
}

func TestGenreListingKeepsEveryMovie(t *testing.T) {
	a := newTestAPI(t, nil)
	a.mustDo(http.StatusCreated, http.MethodPost, "/genres/", `{"name":"Drama"}`)
	a.mustDo(http.StatusCreated, http.MethodPost, "/genres/", `{"name":"Comedy"}`)
	a.mustDo(http.StatusCreated, http.MethodPost, "/movies/", `{"title":"T1","description":"d","trailer":"u","year":2000,"rating":7.5,"genre_id":1}`)
	a.mustDo(http.StatusCreated, http.MethodPost, "/movies/", `{"title":"T2","genre_id":1}`)
	a.mustDo(http.StatusCreated, http.MethodPost, "/movies/", `{"title":"T3","genre_id":2}`)

	rec := a.mustDo(http.StatusOK, http.MethodGet, "/genres/1", "")
	assert.JSONEq(t, `[
		{"Drama":["T1","d","u",2000,7.5]},
		{"Drama":["T2","","",0,0]}
	]`, rec.Body.String())

	rec = a.mustDo(http.StatusOK, http.MethodGet, "/genres/1/movies", "")
	assert.JSONEq(t, `[
		{"id":1,"title":"T1","description":"d","trailer":"u","year":2000,"rating":7.5,"genre_id":1,"director_id":null},
		{"id":2,"title":"T2","description":"","trailer":"","year":0,"rating":0,"genre_id":1,"director_id":null}
	]`, rec.Body.String())
}

func TestGenreListingEmptyAndMissing(t *testing.T) {
	a := newTestAPI(t, nil)
	a.mustDo(http.StatusCreated, http.MethodPost, "/genres/", `{"name":"Noir"}`)

	rec := a.mustDo(http.StatusOK, http.MethodGet, "/genres/1", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	for _, path := range []string{"/genres/2", "/genres/2/detail", "/genres/2/movies"} {
		rec = a.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
	}
}

func TestGenreUpdateDelete(t *testing.T) {
	a := newTestAPI(t, nil)
	a.mustDo(http.StatusCreated, http.MethodPost, "/genres/", `{"name":"Scifi"}`)
	a.mustDo(http.StatusCreated, http.MethodPost, "/movies/", `{"title":"Alien","genre_id":1}`)

	a.mustDo(http.StatusNoContent, http.MethodPut, "/genres/1", `{"name":"Sci-Fi"}`)
	rec := a.mustDo(http.StatusOK, http.MethodGet, "/genres/1", "")
	assert.JSONEq(t, `[{"Sci-Fi":["Alien","","",0,0]}]`, rec.Body.String())

	a.mustDo(http.StatusNoContent, http.MethodDelete, "/genres/1", "")
	rec = a.mustDo(http.StatusOK, http.MethodGet, "/movies/?genre_id=1", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = a.do(http.MethodPut, "/genres/1", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = a.do(http.MethodDelete, "/genres/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}
