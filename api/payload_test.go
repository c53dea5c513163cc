package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/movies-api/errs"
)

func TestDecodePayloadErrorKinds(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		limit int64
		is    func(error) bool
	}{
		{"empty body", "", 0, errs.IsMalformedPayloadError},
		{"truncated", `{"title":`, 0, errs.IsInvalidJSONError},
		{"trailing data", `{"title":"x"} []`, 0, errs.IsInvalidJSONError},
		{"unknown field", `{"studio":"A24"}`, 0, errs.IsInvalidFieldError},
		{"wrong type", `{"year":"1999"}`, 0, errs.IsInvalidFieldError},
		{"wrong reference type", `{"genre_id":"drama"}`, 0, errs.IsInvalidFieldError},
		{"too large", `{"title":"` + strings.Repeat("x", 64) + `"}`, 16, errs.IsMaxBodySizeExceededError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(tt.body))
			if tt.limit > 0 {
				req.Body = http.MaxBytesReader(rec, req.Body, tt.limit)
			}

			var payload movieRequest
			err := decodePayload(req, zerolog.Nop(), &payload, "movie")
			require.Error(t, err)
			assert.True(t, tt.is(err), "unexpected error kind: %v", err)
		})
	}
}

func TestDecodeMovieReferences(t *testing.T) {
	decode := func(body string) movieRequest {
		t.Helper()
		var payload movieRequest
		req := httptest.NewRequest(http.MethodPut, "/movies/1", strings.NewReader(body))
		require.NoError(t, decodePayload(req, zerolog.Nop(), &payload, "movie"))
		return payload
	}

	absent := decode(`{"title":"Heat"}`)
	assert.False(t, absent.GenreID.Set)
	assert.False(t, absent.DirectorID.Set)

	cleared := decode(`{"genre_id":null,"director_id":3}`)
	assert.True(t, cleared.GenreID.Set)
	assert.Nil(t, cleared.GenreID.Value)
	require.NotNil(t, cleared.DirectorID.Value)
	assert.Equal(t, uint(3), *cleared.DirectorID.Value)
}
