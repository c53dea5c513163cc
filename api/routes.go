package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the catalog routes; mutations sit behind authMiddleware
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/healthz", handlers.healthHandler.getHealth())

	// Public reads
	r.Group(func(r chi.Router) {
		r.Get("/movies", handlers.movieHandler.getAllMovies())
		r.Get("/movies/{movieID}", handlers.movieHandler.getMovie())

		r.Get("/directors", handlers.directorHandler.getAllDirectors())
		r.Get("/directors/{directorID}", handlers.directorHandler.getDirector())
		r.Get("/directors/{directorID}/movies", handlers.directorHandler.getDirectorMovies())

		r.Get("/genres", handlers.genreHandler.getAllGenres())
		r.Get("/genres/{genreID}", handlers.genreHandler.getGenreMovieListing())
		r.Get("/genres/{genreID}/detail", handlers.genreHandler.getGenre())
		r.Get("/genres/{genreID}/movies", handlers.genreHandler.getGenreMovies())
	})

	// Authenticated writes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Post("/movies", handlers.movieHandler.createMovie())
		r.Put("/movies/{movieID}", handlers.movieHandler.updateMovie())
		r.Delete("/movies/{movieID}", handlers.movieHandler.deleteMovie())

		r.Post("/directors", handlers.directorHandler.createDirector())
		r.Put("/directors/{directorID}", handlers.directorHandler.updateDirector())
		r.Delete("/directors/{directorID}", handlers.directorHandler.deleteDirector())

		r.Post("/genres", handlers.genreHandler.createGenre())
		r.Put("/genres/{genreID}", handlers.genreHandler.updateGenre())
		r.Delete("/genres/{genreID}", handlers.genreHandler.deleteGenre())
	})
}
