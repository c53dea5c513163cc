package api

import (
	"time"

	"github.com/rpupo63/movies-api/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		movieHandler:    newMovieHandler(database.MovieRepo()),
		directorHandler: newDirectorHandler(database.DirectorRepo(), database.MovieRepo()),
		genreHandler:    newGenreHandler(database.GenreRepo(), database.MovieRepo()),
		healthHandler:   newHealthHandler(database, startupTime),
	}
}
