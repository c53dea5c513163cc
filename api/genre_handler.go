package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/movies-api/database"
	"github.com/rpupo63/movies-api/models"
)

type genreHandler struct {
	responder Responder
	logger    zerolog.Logger
	genreRepo *database.GenreRepo
	movieRepo *database.MovieRepo
}

func newGenreHandler(genreRepo *database.GenreRepo, movieRepo *database.MovieRepo) genreHandler {
	logger := log.With().Str("handlerName", "genreHandler").Logger()

	return genreHandler{
		responder: NewResponder(logger),
		logger:    logger,
		genreRepo: genreRepo,
		movieRepo: movieRepo,
	}
}

// GenreMovieListing holds one movie of a genre keyed by the genre name:
// {"Drama": [title, description, trailer, year, rating]}
type GenreMovieListing map[string][]any

// @Router /genres [get]
func (h genreHandler) getAllGenres() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genres, err := h.genreRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find genres", "genres", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, genres)
	}
}

// getGenreMovieListing joins the genre with its movies, one listing entry per movie
// @Router /genres/{genreID} [get]
func (h genreHandler) getGenreMovieListing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genreID, err := parseID(r, "genreID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.genreRepo.FindByID(r.Context(), genreID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find genre", "genre", err))
			return
		}

		rows, err := h.genreRepo.FindMovies(r.Context(), genreID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("join movies", "genre", err))
			return
		}

		listing := make([]GenreMovieListing, 0, len(rows))
		for _, row := range rows {
			listing = append(listing, GenreMovieListing{row.GenreName: row.Tuple()})
		}

		h.responder.WriteJSON(w, http.StatusOK, listing)
	}
}

// getGenre retrieves the genre record itself
// @Router /genres/{genreID}/detail [get]
func (h genreHandler) getGenre() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genreID, err := parseID(r, "genreID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		genre, err := h.genreRepo.FindByID(r.Context(), genreID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find genre", "genre", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, genre)
	}
}

// getGenreMovies lists full movie records of a genre
// @Router /genres/{genreID}/movies [get]
func (h genreHandler) getGenreMovies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genreID, err := parseID(r, "genreID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.genreRepo.FindByID(r.Context(), genreID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find genre", "genre", err))
			return
		}

		movies, err := h.movieRepo.FindAll(r.Context(), models.MovieFilter{GenreID: &genreID})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find movies", "movies", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, movies)
	}
}

// @Router /genres [post]
func (h genreHandler) createGenre() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req namedRequest
		if err := decodePayload(r, h.logger, &req, "genre"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		genre := models.Genre{Name: *req.Name}
		if err := h.genreRepo.Add(r.Context(), &genre); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "genre", err))
			return
		}

		h.logger.Info().Uint("genreID", genre.ID).Str("userID", ctxGetUserID(r.Context())).Msg("genre created")
		h.responder.WriteEmpty(w, http.StatusCreated)
	}
}

// @Router /genres/{genreID} [put]
func (h genreHandler) updateGenre() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genreID, err := parseID(r, "genreID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		genre, err := h.genreRepo.FindByID(r.Context(), genreID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find genre", "genre", err))
			return
		}

		var req namedRequest
		if err := decodePayload(r, h.logger, &req, "genre"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Name != nil {
			genre.Name = *req.Name
		}

		if err := h.genreRepo.Update(r.Context(), genre); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "genre", err))
			return
		}

		h.responder.WriteEmpty(w, http.StatusNoContent)
	}
}

// @Router /genres/{genreID} [delete]
func (h genreHandler) deleteGenre() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genreID, err := parseID(r, "genreID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.genreRepo.Delete(r.Context(), genreID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "genre", err))
			return
		}

		h.responder.WriteEmpty(w, http.StatusNoContent)
	}
}
