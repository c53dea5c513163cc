package models

// Genre represents a movie category
type Genre struct {
	ID   uint   `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name string `json:"name" db:"name" gorm:"column:name;size:255"`
}

func (Genre) TableName() string {
	return "genres"
}

// GenreMovie is one row of the genres/movies join
type GenreMovie struct {
	GenreName   string  `gorm:"column:genre_name"`
	Title       string  `gorm:"column:title"`
	Description string  `gorm:"column:description"`
	Trailer     string  `gorm:"column:trailer"`
	Year        int     `gorm:"column:year"`
	Rating      float64 `gorm:"column:rating"`
}

// Tuple returns the movie columns in wire order: title, description, trailer, year, rating.
func (gm GenreMovie) Tuple() []any {
	return []any{gm.Title, gm.Description, gm.Trailer, gm.Year, gm.Rating}
}
