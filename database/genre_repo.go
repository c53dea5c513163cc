package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/movies-api/models"
)

type GenreRepo struct {
	db *gorm.DB
}

func NewGenreRepo(db *gorm.DB) *GenreRepo {
	return &GenreRepo{db}
}

// FindAll returns all genres ordered by id
func (r *GenreRepo) FindAll(ctx context.Context) ([]*models.Genre, error) {
	genres := []*models.Genre{}
	err := r.db.WithContext(ctx).Order("id").Find(&genres).Error
	return genres, err
}

func (r *GenreRepo) FindByID(ctx context.Context, id uint) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).First(&genre, id).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// FindMovies joins genres and movies and returns one row per movie of the genre
func (r *GenreRepo) FindMovies(ctx context.Context, genreID uint) ([]models.GenreMovie, error) {
	rows := []models.GenreMovie{}
	err := r.db.WithContext(ctx).
		Table("genres").
		Select("genres.name AS genre_name, movies.title, movies.description, movies.trailer, movies.year, movies.rating").
		Joins("JOIN movies ON movies.genre_id = genres.id").
		Where("genres.id = ?", genreID).
		Order("movies.id").
		Scan(&rows).Error
	return rows, err
}

func (r *GenreRepo) Add(ctx context.Context, genre *models.Genre) error {
	return r.db.WithContext(ctx).Create(genre).Error
}

func (r *GenreRepo) Update(ctx context.Context, genre *models.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Genre{}, genre.ID); err != nil {
			return err
		}
		return tx.Save(genre).Error
	})
}

// Delete removes a genre and detaches the movies that referenced it
func (r *GenreRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteReferenced(tx, &models.Genre{}, "genre_id", id)
	})
}
