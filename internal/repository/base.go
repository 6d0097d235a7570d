// Package repository implements the data access layer for the application.
package repository

import (
	"errors"

	"promptly/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate row-locks the selected record for the rest of the transaction.
// sqlite has no row locks and the dialect drops the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lockPrompt locks the prompt row and fails with NotFound if it does not exist.
func lockPrompt(tx *gorm.DB, promptID uint) error {
	var p models.Prompt
	err := lockForUpdate(tx).Select("id").First(&p, promptID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Prompt", promptID)
	}
	return err
}

// lockUser locks the user row and fails with NotFound if it does not exist.
func lockUser(tx *gorm.DB, userID uint) error {
	var u models.User
	err := lockForUpdate(tx).Select("id").First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("User", userID)
	}
	return err
}

// wrapDBError leaves AppErrors untouched and wraps everything else as internal, keeping
// the cause reachable for IsRetryable.
func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
