package main

import (
	"errors"
	"net/http"

	"eventra/internal/domain/inventory"
	"eventra/internal/params"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CreateInventoryItemPayload struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	PriceCents  int64    `json:"price_cents" validate:"required,min=0"`
	Quantity    int      `json:"quantity" validate:"min=0"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
}

// createInventoryItemHandler godoc
//
//	@Summary		Adds an offering to the vendor's inventory
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateInventoryItemPayload	true	"Item"
//	@Success		201		{object}	inventory.Item
//	@Failure		400		{object}	error
//	@Router			/vendor/inventory [post]
func (app *application) createInventoryItemHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := app.resolveVendorID(w, r, "")
	if !ok {
		return
	}

	var payload CreateInventoryItemPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	item := &inventory.Item{
		VendorID:    vendorID,
		Name:        payload.Name,
		Description: payload.Description,
		PriceCents:  payload.PriceCents,
		Quantity:    payload.Quantity,
		Tags:        payload.Tags,
		IsActive:    true,
	}
	if err := app.store.Inventory.Create(r.Context(), item); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, item); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listInventoryHandler godoc
//
//	@Summary		Lists the vendor's inventory items
//	@Tags			inventory
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Router			/vendor/inventory [get]
func (app *application) listInventoryHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := app.resolveVendorID(w, r, "")
	if !ok {
		return
	}
	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.store.Inventory.ListByVendor(r.Context(), vendorID, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	resp := map[string]any{"items": list, "pagination": p}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// importInventoryHandler godoc
//
//	@Summary		Bulk-imports inventory items from an .xlsx upload
//	@Tags			inventory
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"Workbook with name, description, price, quantity, tags columns"
//	@Success		201		{object}	map[string]any
//	@Failure		400		{object}	error
//	@Router			/vendor/inventory/import [post]
func (app *application) importInventoryHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := app.resolveVendorID(w, r, "")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		app.badRequestResponse(w, r, errors.New("could not parse multipart form"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("file is required"))
		return
	}
	defer file.Close()

	result, err := inventory.ParseWorkbook(file, vendorID)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	imported, err := app.store.Inventory.BulkCreate(r.Context(), result.Parsed)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{
		"imported": imported,
		"parsed":   len(result.Parsed),
		"skipped":  result.Skipped,
	}
	if err := app.jsonResponse(w, http.StatusCreated, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateInventoryItemPayload struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	PriceCents  *int64   `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	Quantity    *int     `json:"quantity,omitempty" validate:"omitempty,min=0"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// updateInventoryItemHandler godoc
//
//	@Summary		Patches one of the vendor's inventory items
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			itemID	path		string						true	"Item ID"
//	@Param			payload	body		UpdateInventoryItemPayload	true	"Fields to change"
//	@Success		200		{object}	inventory.Item
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Router			/vendor/inventory/{itemID} [patch]
func (app *application) updateInventoryItemHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := app.resolveVendorID(w, r, "")
	if !ok {
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("itemID must be a valid uuid"))
		return
	}

	var payload UpdateInventoryItemPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	fields := map[string]any{}
	if payload.Name != nil {
		fields["name"] = *payload.Name
	}
	if payload.Description != nil {
		fields["description"] = *payload.Description
	}
	if payload.PriceCents != nil {
		fields["price_cents"] = *payload.PriceCents
	}
	if payload.Quantity != nil {
		fields["quantity"] = *payload.Quantity
	}
	if payload.Tags != nil {
		fields["tags"] = payload.Tags
	}
	if payload.IsActive != nil {
		fields["is_active"] = *payload.IsActive
	}
	if len(fields) == 0 {
		app.badRequestResponse(w, r, errors.New("no fields to update"))
		return
	}

	item, err := app.store.Inventory.Update(r.Context(), vendorID, itemID, fields)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, item); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteInventoryItemHandler godoc
//
//	@Summary		Deletes one of the vendor's inventory items
//	@Tags			inventory
//	@Param			itemID	path	string	true	"Item ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Router			/vendor/inventory/{itemID} [delete]
func (app *application) deleteInventoryItemHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := app.resolveVendorID(w, r, "")
	if !ok {
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("itemID must be a valid uuid"))
		return
	}

	if err := app.store.Inventory.Delete(r.Context(), vendorID, itemID); err != nil {
		switch {
		case errors.Is(err, inventory.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
