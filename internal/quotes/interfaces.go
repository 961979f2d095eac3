package quotes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luisaguirre/cartquotes-backend/pkg/db/models"
	"github.com/luisaguirre/cartquotes-backend/pkg/enums"
	"github.com/luisaguirre/cartquotes-backend/pkg/pagination"
)

// SearchFilter narrows a quote search. Values within one field are OR-combined,
// fields are AND-combined.
type SearchFilter struct {
	Organizations []string
	CostCenters   []string
	Statuses      []enums.QuoteStatus
	Keyword       string
	CreatorEmail  string
	SortField     string
	SortDesc      bool
}

// QuoteRepository defines the persistence surface required by the quote service.
type QuoteRepository interface {
	WithTx(tx *gorm.DB) QuoteRepository
	Create(ctx context.Context, record *models.Quote) (*models.Quote, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	Save(ctx context.Context, record *models.Quote) (*models.Quote, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter SearchFilter, page pagination.Params) ([]models.Quote, int64, error)
}
