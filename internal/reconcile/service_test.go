package reconcile

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/luisaguirre/cartquotes-backend/pkg/commerce"
	"github.com/luisaguirre/cartquotes-backend/pkg/db/models"
	pkgerrors "github.com/luisaguirre/cartquotes-backend/pkg/errors"
	"github.com/luisaguirre/cartquotes-backend/pkg/logger"
	"github.com/luisaguirre/cartquotes-backend/pkg/types"
)

type stubEngine struct {
	mu sync.Mutex

	clearErr    error
	addErr      error
	overrideErr error
	customErrs  map[string]error

	cleared        []string
	addedItems     []commerce.OrderItem
	addResponse    []commerce.CartLine
	overrides      []commerce.PriceOverride
	customDataApps []string
}

func (e *stubEngine) ClearCart(ctx context.Context, cartID string) error {
	e.cleared = append(e.cleared, cartID)
	return e.clearErr
}

func (e *stubEngine) AddItems(ctx context.Context, cartID string, items []commerce.OrderItem) ([]commerce.CartLine, error) {
	e.addedItems = items
	if e.addErr != nil {
		return nil, e.addErr
	}
	return e.addResponse, nil
}

func (e *stubEngine) OverridePrices(ctx context.Context, cartID string, overrides []commerce.PriceOverride) error {
	e.overrides = overrides
	return e.overrideErr
}

func (e *stubEngine) SetCustomData(ctx context.Context, cartID, appID string, fields map[string]string) error {
	e.mu.Lock()
	e.customDataApps = append(e.customDataApps, appID)
	e.mu.Unlock()
	if e.customErrs != nil {
		return e.customErrs[appID]
	}
	return nil
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func newTestService(t *testing.T, engine CartEngine) Service {
	t.Helper()
	svc, err := NewService(engine, quietLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func quoteWith(items types.QuoteItems) *models.Quote {
	return &models.Quote{ID: uuid.New(), Items: items}
}

func TestApplyRestoresPricesBySKUNotPosition(t *testing.T) {
	// The engine returns lines in its own order; overrides must follow the
	// returned index while prices come from the quote's sku lookup.
	engine := &stubEngine{
		addResponse: []commerce.CartLine{
			{SKUID: "sku-2", Quantity: 1, SellingPrice: 999},
			{SKUID: "sku-1", Quantity: 2, SellingPrice: 999},
		},
	}
	svc := newTestService(t, engine)

	quote := quoteWith(types.QuoteItems{
		{SKUID: "sku-1", Quantity: 2, SellingPrice: 1000},
		{SKUID: "sku-2", Quantity: 1, SellingPrice: 450, SellerID: "7"},
	})

	if err := svc.Apply(context.Background(), "cart-1", quote); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if len(engine.cleared) != 1 || engine.cleared[0] != "cart-1" {
		t.Fatalf("cart not cleared, got %v", engine.cleared)
	}
	if engine.addedItems[0].SellerID != "1" {
		t.Fatalf("missing seller must default to 1, got %q", engine.addedItems[0].SellerID)
	}
	if engine.addedItems[1].SellerID != "7" {
		t.Fatalf("explicit seller must survive, got %q", engine.addedItems[1].SellerID)
	}

	if len(engine.overrides) != 2 {
		t.Fatalf("expected 2 overrides, got %d", len(engine.overrides))
	}
	if engine.overrides[0].Index != 0 || engine.overrides[0].Price != 450 {
		t.Fatalf("index 0 must carry sku-2's price, got %+v", engine.overrides[0])
	}
	if engine.overrides[1].Index != 1 || engine.overrides[1].Price != 1000 {
		t.Fatalf("index 1 must carry sku-1's price, got %+v", engine.overrides[1])
	}
	if engine.overrides[0].Quantity != nil {
		t.Fatal("price override must leave quantity untouched")
	}
}

func TestApplySkipsUnknownSKUs(t *testing.T) {
	engine := &stubEngine{
		addResponse: []commerce.CartLine{
			{SKUID: "sku-1", SellingPrice: 999},
			{SKUID: "sku-substitute", SellingPrice: 1200},
		},
	}
	svc := newTestService(t, engine)

	quote := quoteWith(types.QuoteItems{{SKUID: "sku-1", Quantity: 1, SellingPrice: 1000}})
	if err := svc.Apply(context.Background(), "cart-1", quote); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if len(engine.overrides) != 1 || engine.overrides[0].Index != 0 {
		t.Fatalf("unexpected overrides %+v", engine.overrides)
	}
}

func TestApplyEmptyQuoteClearsAndStops(t *testing.T) {
	engine := &stubEngine{}
	svc := newTestService(t, engine)

	if err := svc.Apply(context.Background(), "cart-1", quoteWith(nil)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(engine.cleared) != 1 {
		t.Fatal("cart must still be cleared")
	}
	if engine.addedItems != nil || engine.overrides != nil {
		t.Fatal("no items or overrides expected for an empty quote")
	}
}

func TestApplyClearFailureIsFatalNotPartial(t *testing.T) {
	engine := &stubEngine{clearErr: errors.New("engine down")}
	svc := newTestService(t, engine)

	err := svc.Apply(context.Background(), "cart-1", quoteWith(types.QuoteItems{{SKUID: "sku-1", Quantity: 1}}))
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error before any mutation, got %v", err)
	}
}

func TestApplyAddFailureIsPartial(t *testing.T) {
	engine := &stubEngine{addErr: errors.New("add rejected")}
	svc := newTestService(t, engine)

	err := svc.Apply(context.Background(), "cart-1", quoteWith(types.QuoteItems{{SKUID: "sku-1", Quantity: 1}}))
	if !pkgerrors.IsCode(err, pkgerrors.CodePartialReconciliation) {
		t.Fatalf("expected partial reconciliation, got %v", err)
	}

	details := pkgerrors.As(err).Details().(map[string]bool)
	if !details["cartCleared"] || details["itemsApplied"] {
		t.Fatalf("unexpected guarantee details %v", details)
	}
}

func TestApplyOverrideFailureIsPartialWithItemsHeld(t *testing.T) {
	engine := &stubEngine{
		addResponse: []commerce.CartLine{{SKUID: "sku-1", SellingPrice: 999}},
		overrideErr: errors.New("manual price disabled"),
	}
	svc := newTestService(t, engine)

	err := svc.Apply(context.Background(), "cart-1", quoteWith(types.QuoteItems{{SKUID: "sku-1", Quantity: 1, SellingPrice: 500}}))
	if !pkgerrors.IsCode(err, pkgerrors.CodePartialReconciliation) {
		t.Fatalf("expected partial reconciliation, got %v", err)
	}

	details := pkgerrors.As(err).Details().(map[string]bool)
	if !details["itemsApplied"] || details["pricesApplied"] {
		t.Fatalf("unexpected guarantee details %v", details)
	}
}

func TestCustomDataReplayIsBestEffort(t *testing.T) {
	engine := &stubEngine{
		addResponse: []commerce.CartLine{{SKUID: "sku-1", SellingPrice: 500}},
		customErrs:  map[string]error{"app-b": errors.New("rejected")},
	}
	svc := newTestService(t, engine)

	quote := quoteWith(types.QuoteItems{{SKUID: "sku-1", Quantity: 1, SellingPrice: 500}})
	quote.CustomData = &types.CustomData{CustomApps: []types.CustomApp{
		{ID: "app-a", Fields: map[string]string{"k": "v"}},
		{ID: "app-b", Fields: map[string]string{"k": "v"}},
		{ID: "", Fields: map[string]string{"skipped": "yes"}},
	}}

	if err := svc.Apply(context.Background(), "cart-1", quote); err != nil {
		t.Fatalf("custom data failure must not fail apply: %v", err)
	}

	sort.Strings(engine.customDataApps)
	if len(engine.customDataApps) != 2 || engine.customDataApps[0] != "app-a" || engine.customDataApps[1] != "app-b" {
		t.Fatalf("unexpected custom data calls %v", engine.customDataApps)
	}
}

func TestApplyValidatesInput(t *testing.T) {
	svc := newTestService(t, &stubEngine{})

	if err := svc.Apply(context.Background(), "", quoteWith(nil)); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty cart id, got %v", err)
	}
	if err := svc.Apply(context.Background(), "cart-1", nil); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for nil quote, got %v", err)
	}
}
