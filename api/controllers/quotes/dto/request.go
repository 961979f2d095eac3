package dto

// QuoteItemPayload is one cart line frozen into a quote. Prices are integer
// cents.
type QuoteItemPayload struct {
	SKUID        string `json:"skuId" validate:"required"`
	Name         string `json:"name"`
	SKUName      string `json:"skuName"`
	RefID        string `json:"refId"`
	ProductID    string `json:"productId"`
	ImageURL     string `json:"imageUrl"`
	ListPrice    int64  `json:"listPrice" validate:"min=0"`
	Price        int64  `json:"price" validate:"min=0"`
	Quantity     int    `json:"quantity" validate:"required,min=1"`
	SellingPrice int64  `json:"sellingPrice" validate:"min=0"`
	SellerID     string `json:"sellerId"`
}

// CustomAppPayload carries app-scoped custom fields saved with the quote.
type CustomAppPayload struct {
	ID     string            `json:"id" validate:"required"`
	Fields map[string]string `json:"fields"`
}

// CustomDataPayload groups the custom apps captured with the quote.
type CustomDataPayload struct {
	CustomApps []CustomAppPayload `json:"customApps" validate:"dive"`
}

// CreateQuoteRequest saves the current cart as a quote.
type CreateQuoteRequest struct {
	ReferenceName  string             `json:"referenceName" validate:"required"`
	Items          []QuoteItemPayload `json:"items" validate:"required,min=1,dive"`
	Subtotal       int64              `json:"subtotal" validate:"min=0"`
	Note           string             `json:"note"`
	SendToSalesRep bool               `json:"sendToSalesRep"`
	CustomData     *CustomDataPayload `json:"customData"`
}

// UpdateQuoteRequest revises an existing quote. Items are merged only when
// present.
type UpdateQuoteRequest struct {
	Items    []QuoteItemPayload `json:"items" validate:"omitempty,dive"`
	Subtotal int64              `json:"subtotal" validate:"min=0"`
	Note     string             `json:"note"`
	Decline  bool               `json:"decline"`
}

// UseQuoteRequest applies a quote onto a live cart.
type UseQuoteRequest struct {
	OrderFormID string `json:"orderFormId" validate:"required"`
}
