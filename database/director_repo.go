package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/movies-api/models"
)

type DirectorRepo struct {
	db *gorm.DB
}

func NewDirectorRepo(db *gorm.DB) *DirectorRepo {
	return &DirectorRepo{db}
}

// FindAll returns all directors ordered by id
func (r *DirectorRepo) FindAll(ctx context.Context) ([]*models.Director, error) {
	directors := []*models.Director{}
	err := r.db.WithContext(ctx).Order("id").Find(&directors).Error
	return directors, err
}

func (r *DirectorRepo) FindByID(ctx context.Context, id uint) (*models.Director, error) {
	var director models.Director
	if err := r.db.WithContext(ctx).First(&director, id).Error; err != nil {
		return nil, err
	}
	return &director, nil
}

func (r *DirectorRepo) Add(ctx context.Context, director *models.Director) error {
	return r.db.WithContext(ctx).Create(director).Error
}

func (r *DirectorRepo) Update(ctx context.Context, director *models.Director) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Director{}, director.ID); err != nil {
			return err
		}
		return tx.Save(director).Error
	})
}

// Delete removes a director and detaches the movies that referenced it
func (r *DirectorRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteReferenced(tx, &models.Director{}, "director_id", id)
	})
}

// deleteReferenced nulls movies.<column> for the row before deleting it
func deleteReferenced(tx *gorm.DB, model any, column string, id uint) error {
	if err := tx.Model(&models.Movie{}).Where(column+" = ?", id).Update(column, nil).Error; err != nil {
		return err
	}
	result := tx.Delete(model, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
