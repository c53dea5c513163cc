package database

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rpupo63/movies-api/errs"
	"github.com/rpupo63/movies-api/models"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()
	db, err := Open(map[string]string{"DB_TYPE": "sqlite", "DB_PATH": ":memory:"})
	require.NoError(t, err)

	d := New(db)
	require.NoError(t, d.Migrate())
	t.Cleanup(func() { d.Close() })
	return d
}

func uintPtr(v uint) *uint {
	return &v
}

func TestOpenRejectsUnknownType(t *testing.T) {
	_, err := Open(map[string]string{"DB_TYPE": "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_TYPE")
}

func TestMovieRepoFilters(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	drama := &models.Genre{Name: "Drama"}
	comedy := &models.Genre{Name: "Comedy"}
	require.NoError(t, d.GenreRepo().Add(ctx, drama))
	require.NoError(t, d.GenreRepo().Add(ctx, comedy))
	nolan := &models.Director{Name: "Nolan"}
	require.NoError(t, d.DirectorRepo().Add(ctx, nolan))

	fixtures := []*models.Movie{
		{Title: "A", GenreID: &drama.ID, DirectorID: &nolan.ID},
		{Title: "B", GenreID: &drama.ID},
		{Title: "C", GenreID: &comedy.ID, DirectorID: &nolan.ID},
		{Title: "D"},
	}
	for _, m := range fixtures {
		require.NoError(t, d.MovieRepo().Add(ctx, m))
	}

	titles := func(filter models.MovieFilter) []string {
		movies, err := d.MovieRepo().FindAll(ctx, filter)
		require.NoError(t, err)
		out := []string{}
		for _, m := range movies {
			out = append(out, m.Title)
		}
		return out
	}

	tests := []struct {
		name   string
		filter models.MovieFilter
		want   []string
	}{
		{"no filter", models.MovieFilter{}, []string{"A", "B", "C", "D"}},
		{"genre", models.MovieFilter{GenreID: &drama.ID}, []string{"A", "B"}},
		{"director", models.MovieFilter{DirectorID: &nolan.ID}, []string{"A", "C"}},
		{"both", models.MovieFilter{GenreID: &drama.ID, DirectorID: &nolan.ID}, []string{"A"}},
		{"no match", models.MovieFilter{GenreID: uintPtr(99)}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, titles(tt.filter)); diff != "" {
				t.Errorf("titles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMovieRepoRejectsDanglingReferences(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	err := d.MovieRepo().Add(ctx, &models.Movie{Title: "Orphan", GenreID: uintPtr(42)})
	require.Error(t, err)
	assert.True(t, errs.IsForeignKeyConstraintError(err))

	movies, err := d.MovieRepo().FindAll(ctx, models.MovieFilter{})
	require.NoError(t, err)
	assert.Empty(t, movies)

	movie := &models.Movie{Title: "Real"}
	require.NoError(t, d.MovieRepo().Add(ctx, movie))
	movie.DirectorID = uintPtr(7)
	err = d.MovieRepo().Update(ctx, movie)
	assert.True(t, errs.IsForeignKeyConstraintError(err))
}

func TestMissingIDsReturnRecordNotFound(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	_, err := d.MovieRepo().FindByID(ctx, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, d.MovieRepo().Update(ctx, &models.Movie{ID: 1, Title: "x"}), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, d.MovieRepo().Delete(ctx, 1), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, d.DirectorRepo().Update(ctx, &models.Director{ID: 1, Name: "x"}), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, d.DirectorRepo().Delete(ctx, 1), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, d.GenreRepo().Update(ctx, &models.Genre{ID: 1, Name: "x"}), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, d.GenreRepo().Delete(ctx, 1), gorm.ErrRecordNotFound)

	// Update must not fall back to an insert
	movies, err := d.MovieRepo().FindAll(ctx, models.MovieFilter{})
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestDeleteDetachesMovies(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	genre := &models.Genre{Name: "Horror"}
	require.NoError(t, d.GenreRepo().Add(ctx, genre))
	director := &models.Director{Name: "Carpenter"}
	require.NoError(t, d.DirectorRepo().Add(ctx, director))
	movie := &models.Movie{Title: "The Thing", GenreID: &genre.ID, DirectorID: &director.ID}
	require.NoError(t, d.MovieRepo().Add(ctx, movie))

	require.NoError(t, d.GenreRepo().Delete(ctx, genre.ID))
	require.NoError(t, d.DirectorRepo().Delete(ctx, director.ID))

	got, err := d.MovieRepo().FindByID(ctx, movie.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GenreID)
	assert.Nil(t, got.DirectorID)
	assert.Equal(t, "The Thing", got.Title)
}

func TestGenreFindMoviesKeepsEveryMovie(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	scifi := &models.Genre{Name: "Sci-Fi"}
	other := &models.Genre{Name: "Other"}
	require.NoError(t, d.GenreRepo().Add(ctx, scifi))
	require.NoError(t, d.GenreRepo().Add(ctx, other))
	require.NoError(t, d.MovieRepo().Add(ctx, &models.Movie{Title: "Alien", Description: "d1", Trailer: "t1", Year: 1979, Rating: 8.5, GenreID: &scifi.ID}))
	require.NoError(t, d.MovieRepo().Add(ctx, &models.Movie{Title: "Solaris", Description: "d2", Trailer: "t2", Year: 1972, Rating: 8.1, GenreID: &scifi.ID}))
	require.NoError(t, d.MovieRepo().Add(ctx, &models.Movie{Title: "Elsewhere", GenreID: &other.ID}))

	rows, err := d.GenreRepo().FindMovies(ctx, scifi.ID)
	require.NoError(t, err)
	want := []models.GenreMovie{
		{GenreName: "Sci-Fi", Title: "Alien", Description: "d1", Trailer: "t1", Year: 1979, Rating: 8.5},
		{GenreName: "Sci-Fi", Title: "Solaris", Description: "d2", Trailer: "t2", Year: 1972, Rating: 8.1},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("join rows mismatch (-want +got):\n%s", diff)
	}

	rows, err = d.GenreRepo().FindMovies(ctx, 404)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

const seedYAML = `
directors:
  - {id: 1, name: Kubrick}
genres:
  - {id: 1, name: Drama}
  - {id: 2, name: War}
movies:
  - {id: 1, title: Paths of Glory, year: 1957, rating: 8.4, genre_id: 2, director_id: 1}
  - {id: 2, title: Barry Lyndon, year: 1975, rating: 8.1, genre_id: 1, director_id: 1}
`

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	seed, err := DecodeSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)

	result, err := d.Seed(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Directors: 1, Genres: 2, Movies: 2}, result)

	result, err = d.Seed(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, result)

	movies, err := d.MovieRepo().FindAll(ctx, models.MovieFilter{GenreID: uintPtr(2)})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Paths of Glory", movies[0].Title)
}

func TestSeedRejectsUnknownKeysAndDanglingReferences(t *testing.T) {
	_, err := DecodeSeed(strings.NewReader("actors: []\n"))
	require.Error(t, err)

	d := newTestDatabase(t)
	seed, err := DecodeSeed(strings.NewReader("movies:\n  - {title: Lost, genre_id: 9}\n"))
	require.NoError(t, err)
	_, err = d.Seed(context.Background(), seed)
	require.Error(t, err)
	assert.True(t, errs.IsForeignKeyConstraintError(err))

	empty, err := DecodeSeed(strings.NewReader(""))
	require.NoError(t, err)
	result, err := d.Seed(context.Background(), empty)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, result)
}

func TestPing(t *testing.T) {
	d := newTestDatabase(t)
	assert.NoError(t, d.Ping(context.Background()))
}

func TestLoadSeedFile(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	seed, err := LoadSeedFile("testdata/catalog.yaml")
	require.NoError(t, err)

	result, err := d.Seed(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Directors: 2, Genres: 2, Movies: 3}, result)

	rows, err := d.GenreRepo().FindMovies(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Pulp Fiction", rows[0].Title)
	assert.Equal(t, "Jackie Brown", rows[1].Title)

	_, err = LoadSeedFile("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestSeedWrapsTransactionFailures(t *testing.T) {
	d := newTestDatabase(t)
	seed, err := DecodeSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)

	require.NoError(t, d.Close())

	_, err = d.Seed(context.Background(), seed)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrTransactionFailed)
	assert.Equal(t, http.StatusInternalServerError, errs.StatusCode(err))
	assert.False(t, errs.IsForeignKeyConstraintError(err))
}
