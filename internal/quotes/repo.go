package quotes

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luisaguirre/cartquotes-backend/pkg/db/models"
	"github.com/luisaguirre/cartquotes-backend/pkg/pagination"
)

// sortColumns is the allow-list of sortable fields. Anything else falls back
// to lastUpdate.
var sortColumns = map[string]string{
	"referenceName":  "reference_name",
	"creationDate":   "creation_date",
	"expirationDate": "expiration_date",
	"lastUpdate":     "last_update",
	"status":         "status",
	"subtotal":       "subtotal_cents",
}

// Repository exposes persistence operations for quote documents.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a quote repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) QuoteRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new quote document.
func (r *Repository) Create(ctx context.Context, record *models.Quote) (*models.Quote, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindByID loads a quote by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var record models.Quote
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save writes the full document back. Updates are whole-document replaces,
// last writer wins.
func (r *Repository) Save(ctx context.Context, record *models.Quote) (*models.Quote, error) {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes the quote document.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Quote{}).Error
}

// Search applies the filter groups and returns one page plus the total count.
// Values inside a group are OR-combined (IN), groups AND-combined.
func (r *Repository) Search(ctx context.Context, filter SearchFilter, page pagination.Params) ([]models.Quote, int64, error) {
	page = pagination.Normalize(page)

	query := r.db.WithContext(ctx).Model(&models.Quote{})

	if len(filter.Organizations) > 0 {
		query = query.Where("organization IN ?", filter.Organizations)
	}
	if len(filter.CostCenters) > 0 {
		query = query.Where("cost_center IN ?", filter.CostCenters)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.CreatorEmail != "" {
		query = query.Where("creator_email = ?", filter.CreatorEmail)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("(LOWER(reference_name) LIKE ? OR LOWER(creator_email) LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortField]
	if !ok {
		column = "last_update"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	var rows []models.Quote
	err := query.
		Order(column + " " + direction).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
