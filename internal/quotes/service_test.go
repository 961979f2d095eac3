package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luisaguirre/cartquotes-backend/pkg/auth"
	"github.com/luisaguirre/cartquotes-backend/pkg/db/models"
	"github.com/luisaguirre/cartquotes-backend/pkg/enums"
	pkgerrors "github.com/luisaguirre/cartquotes-backend/pkg/errors"
	"github.com/luisaguirre/cartquotes-backend/pkg/pagination"
	"github.com/luisaguirre/cartquotes-backend/pkg/types"
)

type stubRepo struct {
	createFn func(ctx context.Context, record *models.Quote) (*models.Quote, error)
	findFn   func(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	saveFn   func(ctx context.Context, record *models.Quote) (*models.Quote, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
	searchFn func(ctx context.Context, filter SearchFilter, page pagination.Params) ([]models.Quote, int64, error)
}

func (s *stubRepo) WithTx(tx *gorm.DB) QuoteRepository { return s }

func (s *stubRepo) Create(ctx context.Context, record *models.Quote) (*models.Quote, error) {
	if s.createFn != nil {
		return s.createFn(ctx, record)
	}
	return record, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	if s.findFn != nil {
		return s.findFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) Save(ctx context.Context, record *models.Quote) (*models.Quote, error) {
	if s.saveFn != nil {
		return s.saveFn(ctx, record)
	}
	return record, nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubRepo) Search(ctx context.Context, filter SearchFilter, page pagination.Params) ([]models.Quote, int64, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, filter, page)
	}
	return nil, 0, nil
}

func customer() auth.Identity {
	return auth.Identity{Email: "buyer@acme.test", Role: enums.ActorRoleCustomer}
}

func salesRep() auth.Identity {
	return auth.Identity{Email: "rep@acme.test", Role: enums.ActorRoleSalesRep}
}

func admin() auth.Identity {
	return auth.Identity{Email: "admin@acme.test", Role: enums.ActorRoleAdmin}
}

func sampleItems() types.QuoteItems {
	return types.QuoteItems{
		{SKUID: "sku-1", Price: 1000, SellingPrice: 1000, Quantity: 2},
		{SKUID: "sku-2", Price: 500, SellingPrice: 450, Quantity: 1},
	}
}

func newTestService(t *testing.T, repo QuoteRepository) *service {
	t.Helper()
	svc, err := NewService(repo, 30, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc.(*service)
}

func frozenClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestCreateStatusDerivation(t *testing.T) {
	cases := []struct {
		name           string
		sendToSalesRep bool
		want           enums.QuoteStatus
	}{
		{"routed to sales rep starts pending", true, enums.QuoteStatusPending},
		{"kept by creator starts ready", false, enums.QuoteStatusReady},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t, &stubRepo{})
			quote, err := svc.Create(context.Background(), customer(), CreateQuoteInput{
				ReferenceName:  "Q3 restock",
				Items:          sampleItems(),
				SendToSalesRep: tc.sendToSalesRep,
			})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if quote.Status != tc.want {
				t.Fatalf("expected status %s, got %s", tc.want, quote.Status)
			}
		})
	}
}

func TestCreateSeedsHistoryAndSubtotal(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, &stubRepo{})
	svc.now = frozenClock(now)

	quote, err := svc.Create(context.Background(), customer(), CreateQuoteInput{
		ReferenceName: "Q3 restock",
		Items:         sampleItems(),
		Note:          "initial",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if quote.SubtotalCents != 1000*2+450 {
		t.Fatalf("expected computed subtotal, got %d", quote.SubtotalCents)
	}
	if len(quote.UpdateHistory) != 1 {
		t.Fatalf("expected exactly one history entry, got %d", len(quote.UpdateHistory))
	}
	entry := quote.UpdateHistory[0]
	if entry.Email != "buyer@acme.test" || entry.Note != "initial" {
		t.Fatalf("unexpected history entry %+v", entry)
	}
	if !quote.ExpirationDate.Equal(now.AddDate(0, 0, 30)) {
		t.Fatalf("expected expiration 30 days out, got %v", quote.ExpirationDate)
	}
	if quote.CreatorEmail != "buyer@acme.test" || quote.CreatorRole != enums.ActorRoleCustomer {
		t.Fatalf("identity not captured: %s %s", quote.CreatorEmail, quote.CreatorRole)
	}
}

func TestCreateRejectsSubtotalMismatch(t *testing.T) {
	svc := newTestService(t, &stubRepo{})
	_, err := svc.Create(context.Background(), customer(), CreateQuoteInput{
		ReferenceName: "Q3 restock",
		Items:         sampleItems(),
		Subtotal:      999,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsEmpty(t *testing.T) {
	svc := newTestService(t, &stubRepo{})
	if _, err := svc.Create(context.Background(), customer(), CreateQuoteInput{Items: sampleItems()}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), customer(), CreateQuoteInput{ReferenceName: "x"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty items, got %v", err)
	}
}

func existingQuote(creator auth.Identity) *models.Quote {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return &models.Quote{
		ID:             uuid.New(),
		ReferenceName:  "Q3 restock",
		CreatorEmail:   creator.Email,
		CreatorRole:    creator.Role,
		Status:         enums.QuoteStatusPending,
		Items:          sampleItems(),
		SubtotalCents:  2450,
		CreationDate:   now,
		ExpirationDate: now.AddDate(0, 0, 30),
		LastUpdate:     now,
		UpdateHistory: types.QuoteUpdates{
			{Date: now.Format(time.RFC3339), Email: creator.Email, Role: creator.Role.String(), Status: "pending"},
		},
	}
}

func repoHolding(record *models.Quote) *stubRepo {
	return &stubRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
			if id == record.ID {
				copied := *record
				return &copied, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
}

func TestUpdateAppendsExactlyOneHistoryEntry(t *testing.T) {
	record := existingQuote(customer())
	repo := repoHolding(record)
	svc := newTestService(t, repo)
	svc.now = frozenClock(record.CreationDate.Add(time.Hour))

	updated, err := svc.Update(context.Background(), salesRep(), record.ID, UpdateQuoteInput{Note: "looked at it"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.UpdateHistory) != 2 {
		t.Fatalf("expected 2 history entries after one update, got %d", len(updated.UpdateHistory))
	}

	// Another revision appends again; history length is always 1 + updates.
	record.UpdateHistory = updated.UpdateHistory
	again, err := svc.Update(context.Background(), salesRep(), record.ID, UpdateQuoteInput{Note: "second pass"})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if len(again.UpdateHistory) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(again.UpdateHistory))
	}
}

func TestUpdateStatusDerivation(t *testing.T) {
	cases := []struct {
		name  string
		input UpdateQuoteInput
		want  enums.QuoteStatus
	}{
		{"decline wins", UpdateQuoteInput{Decline: true, Items: sampleItems()}, enums.QuoteStatusDeclined},
		{"items move to ready", UpdateQuoteInput{Items: sampleItems()}, enums.QuoteStatusReady},
		{"note-only marks revised", UpdateQuoteInput{Note: "just a note"}, enums.QuoteStatusRevised},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := existingQuote(customer())
			svc := newTestService(t, repoHolding(record))
			svc.now = frozenClock(record.CreationDate.Add(time.Hour))

			updated, err := svc.Update(context.Background(), salesRep(), record.ID, tc.input)
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if updated.Status != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, updated.Status)
			}
		})
	}
}

func TestUpdateEmptyItemsKeepsLineItems(t *testing.T) {
	// A body carrying "items": [] decodes to an empty non-nil slice; that
	// means no item change, not an emptied quote.
	record := existingQuote(customer())
	svc := newTestService(t, repoHolding(record))
	svc.now = frozenClock(record.CreationDate.Add(time.Hour))

	updated, err := svc.Update(context.Background(), salesRep(), record.ID, UpdateQuoteInput{
		Items: types.QuoteItems{},
		Note:  "adjusted terms only",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Items) != 2 {
		t.Fatalf("empty items update wiped the line items: %d left, want 2", len(updated.Items))
	}
	if updated.SubtotalCents != 2450 {
		t.Fatalf("subtotal changed on a note-only edit, got %d", updated.SubtotalCents)
	}
	if updated.Status != enums.QuoteStatusRevised {
		t.Fatalf("expected revised, got %s", updated.Status)
	}
}

func TestDeclinedQuoteStaysEditable(t *testing.T) {
	record := existingQuote(customer())
	record.Status = enums.QuoteStatusDeclined
	svc := newTestService(t, repoHolding(record))
	svc.now = frozenClock(record.CreationDate.Add(time.Hour))

	updated, err := svc.Update(context.Background(), salesRep(), record.ID, UpdateQuoteInput{Items: sampleItems()})
	if err != nil {
		t.Fatalf("expected declined quote to accept a revision: %v", err)
	}
	if updated.Status != enums.QuoteStatusReady {
		t.Fatalf("expected ready after revision, got %s", updated.Status)
	}
}

func TestUpdateRecomputesSubtotal(t *testing.T) {
	record := existingQuote(customer())
	svc := newTestService(t, repoHolding(record))
	svc.now = frozenClock(record.CreationDate.Add(time.Hour))

	items := sampleItems()
	items[0].SellingPrice = 800

	updated, err := svc.Update(context.Background(), salesRep(), record.ID, UpdateQuoteInput{Items: items})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.SubtotalCents != 800*2+450 {
		t.Fatalf("subtotal not re-summed, got %d", updated.SubtotalCents)
	}
}

func TestCustomerCannotDecline(t *testing.T) {
	record := existingQuote(customer())
	svc := newTestService(t, repoHolding(record))

	_, err := svc.Update(context.Background(), customer(), record.ID, UpdateQuoteInput{Decline: true})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCustomerScopedToOwnQuotes(t *testing.T) {
	record := existingQuote(salesRep())
	svc := newTestService(t, repoHolding(record))

	if _, err := svc.Get(context.Background(), customer(), record.ID); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden on foreign quote, got %v", err)
	}

	var captured SearchFilter
	repo := &stubRepo{
		searchFn: func(ctx context.Context, filter SearchFilter, page pagination.Params) ([]models.Quote, int64, error) {
			captured = filter
			return nil, 0, nil
		},
	}
	svc = newTestService(t, repo)
	if _, _, err := svc.List(context.Background(), customer(), ListQuotesInput{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if captured.CreatorEmail != "buyer@acme.test" {
		t.Fatalf("customer search not scoped, filter %+v", captured)
	}
}

func TestExpiredStatusDerivedOnRead(t *testing.T) {
	record := existingQuote(customer())
	var saved *models.Quote
	repo := repoHolding(record)
	repo.saveFn = func(ctx context.Context, r *models.Quote) (*models.Quote, error) {
		saved = r
		return r, nil
	}
	svc := newTestService(t, repo)
	svc.now = frozenClock(record.ExpirationDate.Add(time.Hour))

	got, err := svc.Get(context.Background(), customer(), record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != enums.QuoteStatusExpired {
		t.Fatalf("expected derived expired status, got %s", got.Status)
	}
	if saved != nil {
		t.Fatal("expired status must never be written back")
	}
}

func TestPlacedStatusNotMaskedByExpiry(t *testing.T) {
	record := existingQuote(customer())
	record.Status = enums.QuoteStatusPlaced
	svc := newTestService(t, repoHolding(record))
	svc.now = frozenClock(record.ExpirationDate.Add(time.Hour))

	got, err := svc.Get(context.Background(), customer(), record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != enums.QuoteStatusPlaced {
		t.Fatalf("placed must survive expiry, got %s", got.Status)
	}
}

func TestMarkViewedFlagsPerRole(t *testing.T) {
	record := existingQuote(customer())
	repo := repoHolding(record)
	repo.saveFn = func(ctx context.Context, r *models.Quote) (*models.Quote, error) { return r, nil }
	svc := newTestService(t, repo)

	viewed, err := svc.MarkViewed(context.Background(), salesRep(), record.ID)
	if err != nil {
		t.Fatalf("mark viewed: %v", err)
	}
	if !viewed.ViewedBySales || viewed.ViewedByCust {
		t.Fatalf("expected sales flag only, got sales=%v customer=%v", viewed.ViewedBySales, viewed.ViewedByCust)
	}
	if len(viewed.UpdateHistory) != 1 {
		t.Fatalf("mark viewed must not touch history, got %d entries", len(viewed.UpdateHistory))
	}

	viewed, err = svc.MarkViewed(context.Background(), customer(), record.ID)
	if err != nil {
		t.Fatalf("mark viewed: %v", err)
	}
	if !viewed.ViewedByCust {
		t.Fatal("expected customer flag set")
	}
}

func TestDeleteRequiresAdmin(t *testing.T) {
	record := existingQuote(customer())
	svc := newTestService(t, repoHolding(record))

	if err := svc.Delete(context.Background(), salesRep(), record.ID); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden for sales rep, got %v", err)
	}
	if err := svc.Delete(context.Background(), admin(), record.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestGetUnknownQuoteIsNotFound(t *testing.T) {
	svc := newTestService(t, &stubRepo{})
	if _, err := svc.Get(context.Background(), admin(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
