package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/luisaguirre/cartquotes-backend/pkg/pagination"
	"github.com/luisaguirre/cartquotes-backend/pkg/types"
)

// Quote is the API shape of a stored quote.
type Quote struct {
	ID               uuid.UUID          `json:"id"`
	ReferenceName    string             `json:"referenceName"`
	CreatorEmail     string             `json:"creatorEmail"`
	CreatorRole      string             `json:"creatorRole"`
	Organization     *string            `json:"organization,omitempty"`
	CostCenter       *string            `json:"costCenter,omitempty"`
	Status           string             `json:"status"`
	Items            types.QuoteItems   `json:"items"`
	UpdateHistory    types.QuoteUpdates `json:"updateHistory"`
	CustomData       *types.CustomData  `json:"customData,omitempty"`
	Subtotal         int64              `json:"subtotal"`
	ViewedBySales    bool               `json:"viewedBySales"`
	ViewedByCustomer bool               `json:"viewedByCustomer"`
	CreationDate     time.Time          `json:"creationDate"`
	ExpirationDate   time.Time          `json:"expirationDate"`
	LastUpdate       time.Time          `json:"lastUpdate"`
}

// QuoteList pairs one result page with its window.
type QuoteList struct {
	Quotes     []Quote               `json:"quotes"`
	Pagination pagination.Pagination `json:"pagination"`
}
