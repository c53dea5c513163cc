package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rpupo63/movies-api/errs"
)

// decodePayload reads a JSON object into dst, rejecting unknown fields and trailing data
func decodePayload(r *http.Request, logger zerolog.Logger, dst any, payloadType string) error {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errs.NewMaxBodySizeExceededError(maxBytesErr.Limit)
		}
		logger.Error().Err(err).Msg("Failed to read request body")
		return errs.NewBadRequestError("failed to read request body")
	}

	decoder := json.NewDecoder(bytes.NewReader(bodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		logger.Debug().Err(err).Str("body", string(bodyBytes)).Msgf("Failed to decode %s request body", payloadType)

		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr):
			return errs.NewInvalidFieldError(typeErr.Field, fmt.Sprintf("expected %s", typeErr.Type))
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return errs.NewInvalidFieldError(field, "unknown field")
		case errors.Is(err, io.EOF):
			return errs.NewMalformedPayloadError(payloadType, err)
		default:
			return errs.NewInvalidJSONError(err)
		}
	}

	if decoder.More() {
		return errs.NewInvalidJSONError(errors.New("unexpected data after JSON object"))
	}
	return nil
}

// parseID reads a positive integer URL parameter
func parseID(r *http.Request, param string) (uint, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return 0, errs.NewBadRequestError("missing " + param)
	}

	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, errs.NewBadRequestError("invalid " + param)
	}
	return uint(id), nil
}

// parseOptionalID reads an integer query parameter; absent or empty yields nil
func parseOptionalID(query url.Values, key string) (*uint, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil {
		return nil, errs.NewInvalidFieldError(key, "must be a non-negative integer")
	}
	value := uint(id)
	return &value, nil
}

// optionalText trims a provided string field and rejects it when blank
func optionalText(value *string, field string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, errs.NewInvalidFieldError(field, "must not be blank")
	}
	return &trimmed, nil
}

// namedRequest is the create and patch payload for directors and genres
type namedRequest struct {
	Name *string `json:"name"`
}

func (req *namedRequest) validate(required bool) error {
	if req.Name == nil {
		if required {
			return errs.NewMissingRequiredFieldError("name")
		}
		return nil
	}
	name, err := optionalText(req.Name, "name")
	if err != nil {
		return err
	}
	req.Name = name
	return nil
}
