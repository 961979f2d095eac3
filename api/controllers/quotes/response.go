package quotes

import (
	quotedto "github.com/luisaguirre/cartquotes-backend/api/controllers/quotes/dto"
	"github.com/luisaguirre/cartquotes-backend/pkg/db/models"
	"github.com/luisaguirre/cartquotes-backend/pkg/pagination"
)

func newQuote(record *models.Quote) quotedto.Quote {
	return quotedto.Quote{
		ID:               record.ID,
		ReferenceName:    record.ReferenceName,
		CreatorEmail:     record.CreatorEmail,
		CreatorRole:      record.CreatorRole.String(),
		Organization:     record.Organization,
		CostCenter:       record.CostCenter,
		Status:           record.Status.String(),
		Items:            record.Items,
		UpdateHistory:    record.UpdateHistory,
		CustomData:       record.CustomData,
		Subtotal:         record.SubtotalCents,
		ViewedBySales:    record.ViewedBySales,
		ViewedByCustomer: record.ViewedByCust,
		CreationDate:     record.CreationDate,
		ExpirationDate:   record.ExpirationDate,
		LastUpdate:       record.LastUpdate,
	}
}

func newQuoteList(records []models.Quote, window pagination.Pagination) quotedto.QuoteList {
	listed := make([]quotedto.Quote, 0, len(records))
	for i := range records {
		listed = append(listed, newQuote(&records[i]))
	}
	return quotedto.QuoteList{Quotes: listed, Pagination: window}
}
