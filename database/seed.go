package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/movies-api/errs"
	"github.com/rpupo63/movies-api/models"
)

// Seed is the YAML fixture format:
//
//	directors:
//	  - {id: 1, name: Tarantino}
//	genres:
//	  - {id: 1, name: Comedy}
//	movies:
//	  - {title: Pulp Fiction, year: 1994, rating: 8.9, genre_id: 1, director_id: 1}
type Seed struct {
	Directors []seedNamed `yaml:"directors"`
	Genres    []seedNamed `yaml:"genres"`
	Movies    []seedMovie `yaml:"movies"`
}

type seedNamed struct {
	ID   uint   `yaml:"id"`
	Name string `yaml:"name"`
}

type seedMovie struct {
	ID          uint    `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Trailer     string  `yaml:"trailer"`
	Year        int     `yaml:"year"`
	Rating      float64 `yaml:"rating"`
	GenreID     *uint   `yaml:"genre_id"`
	DirectorID  *uint   `yaml:"director_id"`
}

var skipExisting = clause.OnConflict{DoNothing: true}

// SeedResult counts inserted rows; rows whose id already existed are skipped
type SeedResult struct {
	Directors int64
	Genres    int64
	Movies    int64
}

func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening seed file: %w", err)
	}
	defer f.Close()
	return DecodeSeed(f)
}

func DecodeSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("error parsing seed file: %w", err)
	}
	return &seed, nil
}

// Seed inserts the fixture in one transaction, referenced tables first
func (d Database) Seed(ctx context.Context, seed *Seed) (SeedResult, error) {
	var result SeedResult

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range seed.Directors {
			res := tx.Clauses(skipExisting).Create(&models.Director{ID: s.ID, Name: s.Name})
			if res.Error != nil {
				return fmt.Errorf("seed director %q: %w", s.Name, res.Error)
			}
			result.Directors += res.RowsAffected
		}

		for _, s := range seed.Genres {
			res := tx.Clauses(skipExisting).Create(&models.Genre{ID: s.ID, Name: s.Name})
			if res.Error != nil {
				return fmt.Errorf("seed genre %q: %w", s.Name, res.Error)
			}
			result.Genres += res.RowsAffected
		}

		for _, s := range seed.Movies {
			movie := &models.Movie{
				ID:          s.ID,
				Title:       s.Title,
				Description: s.Description,
				Trailer:     s.Trailer,
				Year:        s.Year,
				Rating:      s.Rating,
				GenreID:     s.GenreID,
				DirectorID:  s.DirectorID,
			}
			if err := checkReferences(tx, movie); err != nil {
				return fmt.Errorf("seed movie %q: %w", s.Title, err)
			}
			res := tx.Clauses(skipExisting).Omit("Genre", "Director").Create(movie)
			if res.Error != nil {
				return fmt.Errorf("seed movie %q: %w", s.Title, res.Error)
			}
			result.Movies += res.RowsAffected
		}

		return resetSequences(tx)
	})
	if err != nil {
		// fixture problems such as dangling references keep their own classification
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) {
			return SeedResult{}, err
		}
		return SeedResult{}, errs.NewTransactionFailedError("seed", err)
	}

	log.Info().
		Int64("directors", result.Directors).
		Int64("genres", result.Genres).
		Int64("movies", result.Movies).
		Msg("Seed applied")
	return result, nil
}

// resetSequences moves postgres serial sequences past explicitly seeded ids
func resetSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range []string{"directors", "genres", "movies"} {
		stmt := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 1)) FROM %[1]s", table)
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("reset %s sequence: %w", table, err)
		}
	}
	return nil
}
