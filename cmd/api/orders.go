package main

import (
	"errors"
	"net/http"
	"time"

	"eventra/internal/auth"
	"eventra/internal/domain/inventory"
	"eventra/internal/domain/orders"
	"eventra/internal/params"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CreateOrderPayload struct {
	VendorCode string     `json:"vendor_code" validate:"required"`
	ItemID     string     `json:"item_id" validate:"required,uuid"`
	Quantity   int        `json:"quantity" validate:"required,min=1,max=1000"`
	EventDate  *time.Time `json:"event_date,omitempty"`
	Note       *string    `json:"note,omitempty" validate:"omitempty,max=2000"`
}

// createOrderHandler godoc
//
//	@Summary		Places an order against a vendor's inventory item
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateOrderPayload	true	"Order"
//	@Success		201		{object}	orders.Order
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Router			/orders [post]
func (app *application) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateOrderPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	seq, err := app.cardCodec.Decode(payload.VendorCode)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	vendor, err := app.store.Vendors.GetByCardSeq(r.Context(), seq)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	itemID, _ := uuid.Parse(payload.ItemID)
	item, err := app.store.Inventory.GetByID(r.Context(), itemID)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	if item.VendorID != vendor.ID || !item.IsActive {
		app.notFoundResponse(w, r, inventory.ErrNotFound)
		return
	}

	claims := getSessionFromContext(r)

	order := &orders.Order{
		OrderNumber: app.orderNumbers.Generate(claims.UserID),
		CustomerID:  claims.UserID,
		VendorID:    vendor.ID,
		ItemID:      item.ID,
		Quantity:    payload.Quantity,
		TotalCents:  item.PriceCents * int64(payload.Quantity),
		EventDate:   payload.EventDate,
		Note:        payload.Note,
		Status:      orders.StatusPending,
	}
	if err := app.store.Orders.Create(r.Context(), order); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, order); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listMyOrdersHandler godoc
//
//	@Summary		Lists the session user's orders
//	@Tags			orders
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Router			/orders [get]
func (app *application) listMyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	claims := getSessionFromContext(r)
	p := params.ParsePagination(r.URL.Query())

	filter := orders.Filter{Limit: p.Limit, Offset: p.Offset}
	if s := r.URL.Query().Get("status"); s != "" {
		status := orders.Status(s)
		if !status.Valid() {
			app.badRequestResponse(w, r, orders.ErrInvalidStatus)
			return
		}
		filter.Status = &status
	}

	var (
		list  []orders.Order
		total int
		err   error
	)
	// Vendors browsing this shared endpoint see their incoming orders.
	if claims.Role == auth.RoleVendor && claims.VendorID != nil {
		list, total, err = app.store.Orders.ListByVendor(r.Context(), *claims.VendorID, filter)
	} else {
		list, total, err = app.store.Orders.ListByCustomer(r.Context(), claims.UserID, filter)
	}
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	resp := map[string]any{"orders": list, "pagination": p}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listVendorOrdersHandler godoc
//
//	@Summary		Lists orders placed with the session vendor
//	@Tags			orders
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Router			/vendor/orders [get]
func (app *application) listVendorOrdersHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := app.resolveVendorID(w, r, "")
	if !ok {
		return
	}
	p := params.ParsePagination(r.URL.Query())

	filter := orders.Filter{Limit: p.Limit, Offset: p.Offset}
	if s := r.URL.Query().Get("status"); s != "" {
		status := orders.Status(s)
		if !status.Valid() {
			app.badRequestResponse(w, r, orders.ErrInvalidStatus)
			return
		}
		filter.Status = &status
	}

	list, total, err := app.store.Orders.ListByVendor(r.Context(), vendorID, filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	resp := map[string]any{"orders": list, "pagination": p}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateOrderStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=confirmed fulfilled cancelled"`
}

// updateOrderStatusHandler godoc
//
//	@Summary		Updates the status of one of the vendor's orders
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			orderID	path		string						true	"Order ID"
//	@Param			payload	body		UpdateOrderStatusPayload	true	"New status"
//	@Success		200		{object}	orders.Order
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Router			/vendor/orders/{orderID}/status [patch]
func (app *application) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := app.resolveVendorID(w, r, "")
	if !ok {
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("orderID must be a valid uuid"))
		return
	}

	var payload UpdateOrderStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	order, err := app.store.Orders.UpdateStatus(r.Context(), orderID, vendorID, orders.Status(payload.Status))
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, order); err != nil {
		app.internalServerError(w, r, err)
	}
}
