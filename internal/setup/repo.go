package setup

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/luisaguirre/cartquotes-backend/pkg/db/models"
)

const settingsRowID = 1

// SettingsRepository persists the single app-settings row.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Save(ctx context.Context, settings *models.AppSettings) (*models.AppSettings, error)
}

// Repository is the gorm-backed settings store.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get loads the settings row, returning a zero-value row when none exists yet.
func (r *Repository) Get(ctx context.Context) (*models.AppSettings, error) {
	var row models.AppSettings
	err := r.db.WithContext(ctx).
		Where("id = ?", settingsRowID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.AppSettings{ID: settingsRowID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Save upserts the settings row.
func (r *Repository) Save(ctx context.Context, settings *models.AppSettings) (*models.AppSettings, error) {
	settings.ID = settingsRowID
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
