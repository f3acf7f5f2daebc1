package main

import (
	"errors"
	"net/http"

	"eventra/internal/domain/reviews"
	"eventra/internal/domain/vendors"
	"eventra/internal/params"
)

// listVendorReviewsHandler godoc
//
//	@Summary		Lists reviews for a vendor card
//	@Tags			reviews
//	@Produce		json
//	@Param			cardCode	path		string	true	"Card code"
//	@Success		200			{object}	map[string]any
//	@Failure		404			{object}	error
//	@Router			/vendors/{cardCode}/reviews [get]
func (app *application) listVendorReviewsHandler(w http.ResponseWriter, r *http.Request) {
	vendor, ok := app.vendorFromCardCode(w, r)
	if !ok {
		return
	}

	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.store.Reviews.ListByVendor(r.Context(), vendor.ID, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	resp := map[string]any{"reviews": list, "pagination": p}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateReviewPayload struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// createVendorReviewHandler godoc
//
//	@Summary		Posts a review on a verified vendor
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			cardCode	path		string				true	"Card code"
//	@Param			payload		body		CreateReviewPayload	true	"Review"
//	@Success		201			{object}	reviews.Review
//	@Failure		400			{object}	error
//	@Failure		401			{object}	error
//	@Router			/vendors/{cardCode}/reviews [post]
func (app *application) createVendorReviewHandler(w http.ResponseWriter, r *http.Request) {
	vendor, ok := app.vendorFromCardCode(w, r)
	if !ok {
		return
	}
	if vendor.VerificationStatus != vendors.StatusVerified {
		app.notFoundResponse(w, r, vendors.ErrNotFound)
		return
	}

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	claims := getSessionFromContext(r)

	review := &reviews.Review{
		VendorID:   vendor.ID,
		CustomerID: claims.UserID,
		Rating:     payload.Rating,
		Comment:    payload.Comment,
	}
	if err := app.store.Reviews.Create(r.Context(), review); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}
