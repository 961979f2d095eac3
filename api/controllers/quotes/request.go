package quotes

import (
	"net/http"

	quotedto "github.com/luisaguirre/cartquotes-backend/api/controllers/quotes/dto"
	"github.com/luisaguirre/cartquotes-backend/api/validators"
	quotesvc "github.com/luisaguirre/cartquotes-backend/internal/quotes"
	"github.com/luisaguirre/cartquotes-backend/pkg/enums"
	pkgerrors "github.com/luisaguirre/cartquotes-backend/pkg/errors"
	"github.com/luisaguirre/cartquotes-backend/pkg/pagination"
	"github.com/luisaguirre/cartquotes-backend/pkg/types"
)

func toItems(payloads []quotedto.QuoteItemPayload) types.QuoteItems {
	if payloads == nil {
		return nil
	}
	items := make(types.QuoteItems, 0, len(payloads))
	for _, item := range payloads {
		items = append(items, types.QuoteItem{
			SKUID:        item.SKUID,
			Name:         item.Name,
			SKUName:      item.SKUName,
			RefID:        item.RefID,
			ProductID:    item.ProductID,
			ImageURL:     item.ImageURL,
			ListPrice:    item.ListPrice,
			Price:        item.Price,
			Quantity:     item.Quantity,
			SellingPrice: item.SellingPrice,
			SellerID:     item.SellerID,
		})
	}
	return items
}

func toCustomData(payload *quotedto.CustomDataPayload) *types.CustomData {
	if payload == nil {
		return nil
	}
	apps := make([]types.CustomApp, 0, len(payload.CustomApps))
	for _, app := range payload.CustomApps {
		apps = append(apps, types.CustomApp{ID: app.ID, Fields: app.Fields})
	}
	return &types.CustomData{CustomApps: apps}
}

func toCreateInput(payload quotedto.CreateQuoteRequest) quotesvc.CreateQuoteInput {
	return quotesvc.CreateQuoteInput{
		ReferenceName:  payload.ReferenceName,
		Items:          toItems(payload.Items),
		Subtotal:       payload.Subtotal,
		Note:           payload.Note,
		SendToSalesRep: payload.SendToSalesRep,
		CustomData:     toCustomData(payload.CustomData),
	}
}

func toUpdateInput(payload quotedto.UpdateQuoteRequest) quotesvc.UpdateQuoteInput {
	return quotesvc.UpdateQuoteInput{
		Items:    toItems(payload.Items),
		Subtotal: payload.Subtotal,
		Note:     payload.Note,
		Decline:  payload.Decline,
	}
}

func toListInput(r *http.Request) (quotesvc.ListQuotesInput, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return quotesvc.ListQuotesInput{}, err
	}
	pageSize, err := validators.ParseQueryInt(r, "pageSize", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
	if err != nil {
		return quotesvc.ListQuotesInput{}, err
	}

	statuses := []enums.QuoteStatus{}
	for _, raw := range validators.ParseQueryCSV(r, "status") {
		status, err := enums.ParseQuoteStatus(raw)
		if err != nil {
			return quotesvc.ListQuotesInput{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter").
				WithDetails(map[string]any{"status": raw})
		}
		statuses = append(statuses, status)
	}

	return quotesvc.ListQuotesInput{
		Filter: quotesvc.SearchFilter{
			Organizations: validators.ParseQueryCSV(r, "organization"),
			CostCenters:   validators.ParseQueryCSV(r, "costCenter"),
			Statuses:      statuses,
			Keyword:       r.URL.Query().Get("keyword"),
			SortField:     r.URL.Query().Get("sortBy"),
			SortDesc:      r.URL.Query().Get("sortDir") == "desc",
		},
		Page: pagination.Params{Page: page, PageSize: pageSize},
	}, nil
}
