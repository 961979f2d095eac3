// Package reconcile replays a saved quote onto a live cart through the
// commerce engine, preserving the frozen selling prices where it can.
package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/luisaguirre/cartquotes-backend/pkg/commerce"
	"github.com/luisaguirre/cartquotes-backend/pkg/db/models"
	pkgerrors "github.com/luisaguirre/cartquotes-backend/pkg/errors"
	"github.com/luisaguirre/cartquotes-backend/pkg/logger"
)

const defaultSellerID = "1"

// CartEngine is the slice of the commerce client consumed during apply.
type CartEngine interface {
	ClearCart(ctx context.Context, cartID string) error
	AddItems(ctx context.Context, cartID string, items []commerce.OrderItem) ([]commerce.CartLine, error)
	OverridePrices(ctx context.Context, cartID string, overrides []commerce.PriceOverride) error
	SetCustomData(ctx context.Context, cartID, appID string, fields map[string]string) error
}

// Service applies quotes to carts.
type Service interface {
	Apply(ctx context.Context, cartID string, quote *models.Quote) error
}

type service struct {
	engine CartEngine
	logg   *logger.Logger
}

// NewService builds a reconciliation service over the provided cart engine.
func NewService(engine CartEngine, logg *logger.Logger) (Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("cart engine required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{engine: engine, logg: logg}, nil
}

// Apply replaces the cart's contents with the quote's frozen items.
//
// The clear step is the point of no return: once it succeeds the cart's
// previous contents are gone and any later failure is reported as a partial
// application naming which guarantees held. Prices are restored positionally
// against the engine's returned line order, keyed by sku id; skus the engine
// no longer recognizes keep the engine's own price.
func (s *service) Apply(ctx context.Context, cartID string, quote *models.Quote) error {
	if strings.TrimSpace(cartID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	if quote == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "quote is required")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"quote_id": quote.ID.String(),
		"cart_id":  cartID,
	})

	if err := s.engine.ClearCart(ctx, cartID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}

	if len(quote.Items) == 0 {
		s.logg.Info(ctx, "quote has no items, cart left empty")
		return nil
	}

	orderItems := make([]commerce.OrderItem, 0, len(quote.Items))
	priceBySKU := make(map[string]int64, len(quote.Items))
	for _, item := range quote.Items {
		seller := item.SellerID
		if seller == "" {
			seller = defaultSellerID
		}
		orderItems = append(orderItems, commerce.OrderItem{
			SKUID:    item.SKUID,
			Quantity: item.Quantity,
			SellerID: seller,
		})
		priceBySKU[item.SKUID] = item.SellingPrice
	}

	lines, err := s.engine.AddItems(ctx, cartID, orderItems)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePartialReconciliation, err, "add items after clearing cart").
			WithDetails(map[string]bool{"cartCleared": true, "itemsApplied": false, "pricesApplied": false})
	}

	overrides := make([]commerce.PriceOverride, 0, len(lines))
	for i, line := range lines {
		price, ok := priceBySKU[line.SKUID]
		if !ok {
			s.logg.Warn(ctx, fmt.Sprintf("sku %s not in quote, keeping engine price", line.SKUID))
			continue
		}
		overrides = append(overrides, commerce.PriceOverride{Index: i, Price: price})
	}

	if err := s.engine.OverridePrices(ctx, cartID, overrides); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePartialReconciliation, err, "restore quoted prices").
			WithDetails(map[string]bool{"cartCleared": true, "itemsApplied": true, "pricesApplied": false})
	}

	s.replayCustomData(ctx, cartID, quote)
	return nil
}

// replayCustomData fans the quote's custom apps back onto the cart. Failures
// are collected and logged but never fail the apply.
func (s *service) replayCustomData(ctx context.Context, cartID string, quote *models.Quote) {
	if quote.CustomData == nil || len(quote.CustomData.CustomApps) == 0 {
		return
	}

	var (
		mu       sync.Mutex
		combined error
		wg       sync.WaitGroup
	)

	for _, app := range quote.CustomData.CustomApps {
		if app.ID == "" || len(app.Fields) == 0 {
			continue
		}
		wg.Add(1)
		go func(appID string, fields map[string]string) {
			defer wg.Done()
			if err := s.engine.SetCustomData(ctx, cartID, appID, fields); err != nil {
				mu.Lock()
				combined = multierr.Append(combined, fmt.Errorf("app %s: %w", appID, err))
				mu.Unlock()
			}
		}(app.ID, app.Fields)
	}

	wg.Wait()
	if combined != nil {
		s.logg.Warn(ctx, "custom data replay incomplete: "+combined.Error())
	}
}
