// Package pricing holds the integer-cents price math for quotes. All amounts
// are cents; no floating point enters any calculation.
package pricing

import (
	pkgerrors "github.com/luisaguirre/cartquotes-backend/pkg/errors"
	"github.com/luisaguirre/cartquotes-backend/pkg/types"
)

// Subtotal sums sellingPrice x quantity across all items.
func Subtotal(items types.QuoteItems) int64 {
	var total int64
	for _, item := range items {
		total += item.SellingPrice * int64(item.Quantity)
	}
	return total
}

// ApplyPercentageDiscount rewrites each item's selling price to
// floor(sellingPrice * (100 - percent) / 100) and returns the new subtotal.
// percent must be within [0, 100]. The basis is the item's current selling
// price, so a zero percent is a no-op and manual price edits survive it;
// callers discount a freshly loaded quote, never an already-discounted copy.
func ApplyPercentageDiscount(items types.QuoteItems, percent int) (int64, error) {
	if percent < 0 || percent > 100 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
	}
	for i := range items {
		items[i].SellingPrice = items[i].SellingPrice * int64(100-percent) / 100
	}
	return Subtotal(items), nil
}
