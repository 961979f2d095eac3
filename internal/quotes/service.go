package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luisaguirre/cartquotes-backend/internal/pricing"
	"github.com/luisaguirre/cartquotes-backend/pkg/auth"
	"github.com/luisaguirre/cartquotes-backend/pkg/db/models"
	"github.com/luisaguirre/cartquotes-backend/pkg/enums"
	pkgerrors "github.com/luisaguirre/cartquotes-backend/pkg/errors"
	"github.com/luisaguirre/cartquotes-backend/pkg/metrics"
	"github.com/luisaguirre/cartquotes-backend/pkg/pagination"
	"github.com/luisaguirre/cartquotes-backend/pkg/types"
)

// Service exposes quote lifecycle operations.
type Service interface {
	Create(ctx context.Context, actor auth.Identity, input CreateQuoteInput) (*models.Quote, error)
	Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*models.Quote, error)
	List(ctx context.Context, actor auth.Identity, input ListQuotesInput) ([]models.Quote, pagination.Pagination, error)
	Update(ctx context.Context, actor auth.Identity, id uuid.UUID, input UpdateQuoteInput) (*models.Quote, error)
	MarkViewed(ctx context.Context, actor auth.Identity, id uuid.UUID) (*models.Quote, error)
	Delete(ctx context.Context, actor auth.Identity, id uuid.UUID) error
}

type service struct {
	repo         QuoteRepository
	lifeSpanDays int
	metrics      *metrics.QuoteMetrics
	now          func() time.Time
}

// NewService builds a quote service backed by the provided repository.
// lifeSpanDays controls how far expirationDate sits past creationDate.
func NewService(repo QuoteRepository, lifeSpanDays int, m *metrics.QuoteMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quote repository required")
	}
	if lifeSpanDays <= 0 {
		lifeSpanDays = 30
	}
	return &service{
		repo:         repo,
		lifeSpanDays: lifeSpanDays,
		metrics:      m,
		now:          time.Now,
	}, nil
}

// CreateQuoteInput captures the payload required to save a cart as a quote.
type CreateQuoteInput struct {
	ReferenceName  string
	Items          types.QuoteItems
	Subtotal       int64
	Note           string
	SendToSalesRep bool
	CustomData     *types.CustomData
}

// UpdateQuoteInput carries a revision of an existing quote. Items and
// Subtotal are merged only when Items is non-empty; an empty list is a
// note-only edit that leaves the stored items untouched.
type UpdateQuoteInput struct {
	Items    types.QuoteItems
	Subtotal int64
	Note     string
	Decline  bool
}

// ListQuotesInput narrows and pages a quote search.
type ListQuotesInput struct {
	Filter SearchFilter
	Page   pagination.Params
}

// Create validates and persists a new quote. Status starts pending when the
// creator routed it to a sales rep, ready otherwise.
func (s *service) Create(ctx context.Context, actor auth.Identity, input CreateQuoteInput) (*models.Quote, error) {
	started := s.now()

	if strings.TrimSpace(input.ReferenceName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference name is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote must contain at least one item")
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}
	if actor.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity is required")
	}

	subtotal := pricing.Subtotal(input.Items)
	if input.Subtotal != 0 && input.Subtotal != subtotal {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "declared subtotal does not match item totals").
			WithDetails(map[string]int64{"declared": input.Subtotal, "computed": subtotal})
	}

	status := enums.QuoteStatusReady
	if input.SendToSalesRep {
		status = enums.QuoteStatusPending
	}

	now := s.now()
	record := &models.Quote{
		ID:             uuid.New(),
		ReferenceName:  strings.TrimSpace(input.ReferenceName),
		CreatorEmail:   actor.Email,
		CreatorRole:    actor.Role,
		Organization:   actor.Organization,
		CostCenter:     actor.CostCenter,
		Status:         status,
		Items:          input.Items,
		CustomData:     input.CustomData,
		SubtotalCents:  subtotal,
		CreationDate:   now,
		ExpirationDate: now.AddDate(0, 0, s.lifeSpanDays),
		LastUpdate:     now,
		UpdateHistory: types.QuoteUpdates{
			historyEntry(now, actor, status, input.Note),
		},
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		s.metrics.IncFailure("create")
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create quote")
	}

	s.metrics.IncSuccess("create")
	s.metrics.ObserveDuration("create", s.now().Sub(started))
	return s.withDisplayStatus(created), nil
}

// Get loads one quote. Customers can only read their own quotes.
func (s *service) Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*models.Quote, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanEditQuote() && record.CreatorEmail != actor.Email {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "quote belongs to another user")
	}
	return s.withDisplayStatus(record), nil
}

// List searches quotes. Customers are scoped to their own documents.
func (s *service) List(ctx context.Context, actor auth.Identity, input ListQuotesInput) ([]models.Quote, pagination.Pagination, error) {
	filter := input.Filter
	if !actor.Role.CanEditQuote() {
		filter.CreatorEmail = actor.Email
	}

	rows, total, err := s.repo.Search(ctx, filter, input.Page)
	if err != nil {
		s.metrics.IncFailure("list")
		return nil, pagination.Pagination{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "search quotes")
	}

	for i := range rows {
		s.withDisplayStatus(&rows[i])
	}
	s.metrics.IncSuccess("list")
	return rows, pagination.Window(input.Page, total), nil
}

// Update applies a revision as a whole-document replace and appends exactly
// one history entry. Declined quotes stay editable; a later revision moves
// them back into the flow.
func (s *service) Update(ctx context.Context, actor auth.Identity, id uuid.UUID, input UpdateQuoteInput) (*models.Quote, error) {
	started := s.now()

	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanEditQuote() && record.CreatorEmail != actor.Email {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "quote belongs to another user")
	}
	if input.Decline && !actor.Role.CanEditQuote() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only sales reps may decline quotes")
	}

	if len(input.Items) > 0 {
		if err := validateItems(input.Items); err != nil {
			return nil, err
		}
		subtotal := pricing.Subtotal(input.Items)
		if input.Subtotal != 0 && input.Subtotal != subtotal {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "declared subtotal does not match item totals").
				WithDetails(map[string]int64{"declared": input.Subtotal, "computed": subtotal})
		}
		record.Items = input.Items
		record.SubtotalCents = subtotal
	}

	status := enums.QuoteStatusRevised
	switch {
	case input.Decline:
		status = enums.QuoteStatusDeclined
	case len(input.Items) > 0:
		status = enums.QuoteStatusReady
	}

	now := s.now()
	record.Status = status
	record.LastUpdate = now
	record.UpdateHistory = append(record.UpdateHistory, historyEntry(now, actor, status, input.Note))

	saved, err := s.repo.Save(ctx, record)
	if err != nil {
		s.metrics.IncFailure("update")
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "save quote")
	}

	s.metrics.IncSuccess("update")
	s.metrics.ObserveDuration("update", s.now().Sub(started))
	return s.withDisplayStatus(saved), nil
}

// MarkViewed flips the viewed flag matching the actor's role. The update
// history is not touched.
func (s *service) MarkViewed(ctx context.Context, actor auth.Identity, id uuid.UUID) (*models.Quote, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanEditQuote() && record.CreatorEmail != actor.Email {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "quote belongs to another user")
	}

	if actor.Role.CanEditQuote() {
		record.ViewedBySales = true
	} else {
		record.ViewedByCust = true
	}

	saved, err := s.repo.Save(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "save quote")
	}
	return s.withDisplayStatus(saved), nil
}

// Delete removes a quote document. Admin only; this is an adapter-level
// operation, not part of the review lifecycle.
func (s *service) Delete(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	if actor.Role != enums.ActorRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins may delete quotes")
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.metrics.IncFailure("delete")
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "delete quote")
	}
	s.metrics.IncSuccess("delete")
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id is required")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load quote")
	}
	return record, nil
}

// withDisplayStatus derives the expired display state. Expired is never
// written back; placed orders keep their terminal status.
func (s *service) withDisplayStatus(record *models.Quote) *models.Quote {
	if record == nil {
		return nil
	}
	if record.Status != enums.QuoteStatusPlaced && s.now().After(record.ExpirationDate) {
		record.Status = enums.QuoteStatusExpired
	}
	return record
}

func validateItems(items types.QuoteItems) error {
	for i, item := range items {
		if item.SKUID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d is missing a sku id", i))
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d must have a positive quantity", i))
		}
		if item.SellingPrice < 0 || item.Price < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d has a negative price", i))
		}
	}
	return nil
}

func historyEntry(now time.Time, actor auth.Identity, status enums.QuoteStatus, note string) types.QuoteUpdate {
	return types.QuoteUpdate{
		Date:   now.UTC().Format(time.RFC3339),
		Email:  actor.Email,
		Role:   actor.Role.String(),
		Status: status.String(),
		Note:   note,
	}
}
