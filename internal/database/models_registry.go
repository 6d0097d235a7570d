package database

import "promptly/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models, in
// dependency order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Prompt{},
		&models.Like{},
		&models.Vote{},
		&models.Bookmark{},
	}
}
