package repos

import (
	"context"

	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserRepo struct {
	crud[models.User]
}

func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{newCrud[models.User](db, log, "UserRepo")}
}

// GetByEmail liefert ErrNotFound, wenn kein Benutzer die Adresse trägt.
func (r *UserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	var u models.User
	if err := r.conn(ctx, tx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	var count int64
	if err := r.conn(ctx, tx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
