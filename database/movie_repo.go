package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rpupo63/movies-api/errs"
	"github.com/rpupo63/movies-api/models"
)

type MovieRepo struct {
	db *gorm.DB
}

func NewMovieRepo(db *gorm.DB) *MovieRepo {
	return &MovieRepo{db}
}

// FindAll returns the movies matching every non-nil filter field, ordered by id
func (r *MovieRepo) FindAll(ctx context.Context, filter models.MovieFilter) ([]*models.Movie, error) {
	query := r.db.WithContext(ctx).Order("id")
	if filter.GenreID != nil {
		query = query.Where("genre_id = ?", *filter.GenreID)
	}
	if filter.DirectorID != nil {
		query = query.Where("director_id = ?", *filter.DirectorID)
	}

	movies := []*models.Movie{}
	err := query.Find(&movies).Error
	return movies, err
}

// FindByID returns gorm.ErrRecordNotFound when no movie has the id
func (r *MovieRepo) FindByID(ctx context.Context, id uint) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.WithContext(ctx).First(&movie, id).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// Add inserts a new movie after checking its genre and director exist
func (r *MovieRepo) Add(ctx context.Context, movie *models.Movie) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, movie); err != nil {
			return err
		}
		return tx.Omit("Genre", "Director").Create(movie).Error
	})
}

// Update overwrites every column of an existing movie
func (r *MovieRepo) Update(ctx context.Context, movie *models.Movie) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Movie{}, movie.ID); err != nil {
			return err
		}
		if err := checkReferences(tx, movie); err != nil {
			return err
		}
		return tx.Omit("Genre", "Director").Save(movie).Error
	})
}

// Delete removes a movie by id
func (r *MovieRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Movie{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func checkReferences(tx *gorm.DB, movie *models.Movie) error {
	if movie.GenreID != nil {
		if err := exists(tx, &models.Genre{}, *movie.GenreID); errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewInvalidReferenceError("genre_id", "genre", *movie.GenreID)
		} else if err != nil {
			return err
		}
	}
	if movie.DirectorID != nil {
		if err := exists(tx, &models.Director{}, *movie.DirectorID); errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewInvalidReferenceError("director_id", "director", *movie.DirectorID)
		} else if err != nil {
			return err
		}
	}
	return nil
}

// exists returns gorm.ErrRecordNotFound when model has no row with the id
func exists(tx *gorm.DB, model any, id uint) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
