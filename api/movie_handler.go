package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/movies-api/database"
	"github.com/rpupo63/movies-api/errs"
	"github.com/rpupo63/movies-api/models"
)

type movieHandler struct {
	responder Responder
	logger    zerolog.Logger
	movieRepo *database.MovieRepo
}

func newMovieHandler(movieRepo *database.MovieRepo) movieHandler {
	logger := log.With().Str("handlerName", "movieHandler").Logger()

	return movieHandler{
		responder: NewResponder(logger),
		logger:    logger,
		movieRepo: movieRepo,
	}
}

// movieRequest is the create and patch payload. Nil fields are absent from the JSON.
type movieRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Trailer     *string     `json:"trailer"`
	Year        *int        `json:"year"`
	Rating      *float64    `json:"rating"`
	GenreID     referenceID `json:"genre_id"`
	DirectorID  referenceID `json:"director_id"`
}

// referenceID tells an absent reference apart from an explicit null, which clears it
type referenceID struct {
	Set   bool
	Value *uint
}

func (ref *referenceID) UnmarshalJSON(data []byte) error {
	ref.Set = true
	if string(data) == "null" {
		ref.Value = nil
		return nil
	}

	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	ref.Value = &id
	return nil
}

func (req *movieRequest) validate() error {
	title, err := optionalText(req.Title, "title")
	if err != nil {
		return err
	}
	req.Title = title

	if req.Year != nil && *req.Year < 0 {
		return errs.NewInvalidFieldError("year", "must not be negative")
	}
	if req.Rating != nil && *req.Rating < 0 {
		return errs.NewInvalidFieldError("rating", "must not be negative")
	}
	return nil
}

// apply copies every provided field onto movie
func (req movieRequest) apply(movie *models.Movie) {
	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.Description != nil {
		movie.Description = *req.Description
	}
	if req.Trailer != nil {
		movie.Trailer = *req.Trailer
	}
	if req.Year != nil {
		movie.Year = *req.Year
	}
	if req.Rating != nil {
		movie.Rating = *req.Rating
	}
	if req.GenreID.Set {
		movie.GenreID = req.GenreID.Value
	}
	if req.DirectorID.Set {
		movie.DirectorID = req.DirectorID.Value
	}
}

// getAllMovies lists movies, optionally filtered by genre_id and/or director_id
// @Router /movies [get]
func (h movieHandler) getAllMovies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		genreID, err := parseOptionalID(query, "genre_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		directorID, err := parseOptionalID(query, "director_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		movies, err := h.movieRepo.FindAll(r.Context(), models.MovieFilter{GenreID: genreID, DirectorID: directorID})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find movies", "movies", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, movies)
	}
}

// getMovie retrieves a specific movie by ID
// @Router /movies/{movieID} [get]
func (h movieHandler) getMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := parseID(r, "movieID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		movie, err := h.movieRepo.FindByID(r.Context(), movieID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find movie", "movie", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, movie)
	}
}

// createMovie creates a new movie; the body of the response is empty
// @Router /movies [post]
func (h movieHandler) createMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req movieRequest
		if err := decodePayload(r, h.logger, &req, "movie"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Title == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}
		if err := req.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var movie models.Movie
		req.apply(&movie)

		if err := h.movieRepo.Add(r.Context(), &movie); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "movie", err))
			return
		}

		h.logger.Info().
			Uint("movieID", movie.ID).
			Str("userID", ctxGetUserID(r.Context())).
			Msg("movie created")
		h.responder.WriteEmpty(w, http.StatusCreated)
	}
}

// updateMovie patches the provided fields of an existing movie
// @Router /movies/{movieID} [put]
func (h movieHandler) updateMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := parseID(r, "movieID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existingMovie, err := h.movieRepo.FindByID(r.Context(), movieID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find movie", "movie", err))
			return
		}

		var req movieRequest
		if err := decodePayload(r, h.logger, &req, "movie"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		req.apply(existingMovie)

		if err := h.movieRepo.Update(r.Context(), existingMovie); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "movie", err))
			return
		}

		h.responder.WriteEmpty(w, http.StatusNoContent)
	}
}

// deleteMovie deletes a movie by ID
// @Router /movies/{movieID} [delete]
func (h movieHandler) deleteMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := parseID(r, "movieID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.movieRepo.Delete(r.Context(), movieID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "movie", err))
			return
		}

		h.responder.WriteEmpty(w, http.StatusNoContent)
	}
}
