package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rpupo63/movies-api/models"
)

type Database struct {
	db           *gorm.DB
	movieRepo    *MovieRepo
	directorRepo *DirectorRepo
	genreRepo    *GenreRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:           db,
		movieRepo:    NewMovieRepo(db),
		directorRepo: NewDirectorRepo(db),
		genreRepo:    NewGenreRepo(db),
	}
}

func (d Database) MovieRepo() *MovieRepo {
	return d.movieRepo
}

func (d Database) DirectorRepo() *DirectorRepo {
	return d.directorRepo
}

func (d Database) GenreRepo() *GenreRepo {
	return d.genreRepo
}

func (d Database) Migrate() error {
	return models.Migrate(d.db)
}

// Ping checks that the primary connection is alive
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("error getting sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
