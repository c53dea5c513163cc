package models

// All returns every persisted model in dependency order, referenced tables first.
func All() []any {
	return []any{
		&Director{},
		&Genre{},
		&Movie{},
	}
}

// tableModels maps table names to the struct describing them
func tableModels() map[string]any {
	return map[string]any{
		Director{}.TableName(): Director{},
		Genre{}.TableName():    Genre{},
		Movie{}.TableName():    Movie{},
	}
}
