package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/movies-api/database"
	"github.com/rpupo63/movies-api/models"
)

type directorHandler struct {
	responder    Responder
	logger       zerolog.Logger
	directorRepo *database.DirectorRepo
	movieRepo    *database.MovieRepo
}

func newDirectorHandler(directorRepo *database.DirectorRepo, movieRepo *database.MovieRepo) directorHandler {
	logger := log.With().Str("handlerName", "directorHandler").Logger()

	return directorHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		directorRepo: directorRepo,
		movieRepo:    movieRepo,
	}
}

// @Router /directors [get]
func (h directorHandler) getAllDirectors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		directors, err := h.directorRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find directors", "directors", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, directors)
	}
}

// @Router /directors/{directorID} [get]
func (h directorHandler) getDirector() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		directorID, err := parseID(r, "directorID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		director, err := h.directorRepo.FindByID(r.Context(), directorID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find director", "director", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, director)
	}
}

// getDirectorMovies lists the movies credited to a director
// @Router /directors/{directorID}/movies [get]
func (h directorHandler) getDirectorMovies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		directorID, err := parseID(r, "directorID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.directorRepo.FindByID(r.Context(), directorID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find director", "director", err))
			return
		}

		movies, err := h.movieRepo.FindAll(r.Context(), models.MovieFilter{DirectorID: &directorID})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find movies", "movies", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, movies)
	}
}

// @Router /directors [post]
func (h directorHandler) createDirector() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req namedRequest
		if err := decodePayload(r, h.logger, &req, "director"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		director := models.Director{Name: *req.Name}
		if err := h.directorRepo.Add(r.Context(), &director); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "director", err))
			return
		}

		h.logger.Info().Uint("directorID", director.ID).Str("userID", ctxGetUserID(r.Context())).Msg("director created")
		h.responder.WriteEmpty(w, http.StatusCreated)
	}
}

// @Router /directors/{directorID} [put]
func (h directorHandler) updateDirector() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		directorID, err := parseID(r, "directorID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		director, err := h.directorRepo.FindByID(r.Context(), directorID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find director", "director", err))
			return
		}

		var req namedRequest
		if err := decodePayload(r, h.logger, &req, "director"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Name != nil {
			director.Name = *req.Name
		}

		if err := h.directorRepo.Update(r.Context(), director); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "director", err))
			return
		}

		h.responder.WriteEmpty(w, http.StatusNoContent)
	}
}

// @Router /directors/{directorID} [delete]
func (h directorHandler) deleteDirector() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		directorID, err := parseID(r, "directorID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.directorRepo.Delete(r.Context(), directorID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "director", err))
			return
		}

		h.responder.WriteEmpty(w, http.StatusNoContent)
	}
}
