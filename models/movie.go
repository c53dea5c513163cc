package models

// Movie represents a catalog entry with optional genre and director references
type Movie struct {
	ID          uint    `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Title       string  `json:"title" db:"title" gorm:"column:title;size:255"`
	Description string  `json:"description" db:"description" gorm:"column:description;size:255"`
	Trailer     string  `json:"trailer" db:"trailer" gorm:"column:trailer;size:255"`
	Year        int     `json:"year" db:"year" gorm:"column:year"`
	Rating      float64 `json:"rating" db:"rating" gorm:"column:rating"`
	GenreID     *uint   `json:"genre_id" db:"genre_id" gorm:"column:genre_id;index:idx_movies_genre_id"`
	DirectorID  *uint   `json:"director_id" db:"director_id" gorm:"column:director_id;index:idx_movies_director_id"`

	Genre    *Genre    `json:"-" gorm:"foreignKey:GenreID;references:ID;constraint:OnDelete:SET NULL"`
	Director *Director `json:"-" gorm:"foreignKey:DirectorID;references:ID;constraint:OnDelete:SET NULL"`
}

func (Movie) TableName() string {
	return "movies"
}

// MovieFilter narrows a movie listing. Nil fields are not applied.
type MovieFilter struct {
	GenreID    *uint
	DirectorID *uint
}
