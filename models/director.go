package models

// Director represents a person credited with directing movies
type Director struct {
	ID   uint   `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name string `json:"name" db:"name" gorm:"column:name;size:255"`
}

func (Director) TableName() string {
	return "directors"
}
