package types

// QuoteItem is a frozen cart line captured when the quote was saved. Unit
// prices are integer minor-currency units (cents).
type QuoteItem struct {
	SKUID        string `json:"skuId"`
	Name         string `json:"name"`
	SKUName      string `json:"skuName"`
	RefID        string `json:"refId"`
	ProductID    string `json:"productId"`
	ImageURL     string `json:"imageUrl"`
	ListPrice    int64  `json:"listPrice"`
	Price        int64  `json:"price"`
	Quantity     int    `json:"quantity"`
	SellingPrice int64  `json:"sellingPrice"`
	SellerID     string `json:"sellerId"`
}

// QuoteItems is the ordered line-item collection stored on a quote.
type QuoteItems []QuoteItem

// QuoteUpdate is an immutable audit entry appended on every status-changing
// action. Insertion order is chronological order.
type QuoteUpdate struct {
	Date   string `json:"date"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
	Note   string `json:"note"`
}

// QuoteUpdates is the append-only history collection.
type QuoteUpdates []QuoteUpdate

// CustomApp carries app-scoped custom fields replayed onto a cart when the
// quote is used.
type CustomApp struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// CustomData groups the custom apps captured with a quote.
type CustomData struct {
	CustomApps []CustomApp `json:"customApps"`
}
