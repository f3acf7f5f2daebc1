package main

import (
	"errors"
	"net/http"

	"eventra/internal/domain/reviews"
	"eventra/internal/domain/vendors"
	"eventra/internal/params"

	"github.com/go-chi/chi/v5"
)

// VendorCard is the public shape of a verified vendor.
type VendorCard struct {
	Code         string         `json:"code"`
	BusinessName string         `json:"business_name"`
	Reviews      *reviews.Stats `json:"reviews,omitempty"`
}

// listVendorCardsHandler godoc
//
//	@Summary		Lists verified vendor cards
//	@Tags			vendors
//	@Produce		json
//	@Param			limit	query		int	false	"Page size"
//	@Param			page	query		int	false	"Page number"
//	@Success		200		{object}	map[string]any
//	@Router			/vendors [get]
func (app *application) listVendorCardsHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	status := vendors.StatusVerified
	list, total, err := app.store.Vendors.List(r.Context(), vendors.Filter{
		Status: &status,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	cards := make([]VendorCard, 0, len(list))
	for _, v := range list {
		code, err := app.cardCodec.Encode(v.CardSeq)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		cards = append(cards, VendorCard{Code: code, BusinessName: v.BusinessName})
	}

	resp := map[string]any{"vendors": cards, "pagination": p}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// vendorFromCardCode resolves the {cardCode} URL segment to a vendor row.
func (app *application) vendorFromCardCode(w http.ResponseWriter, r *http.Request) (*vendors.Vendor, bool) {
	seq, err := app.cardCodec.Decode(chi.URLParam(r, "cardCode"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}

	vendor, err := app.store.Vendors.GetByCardSeq(r.Context(), seq)
	if err != nil {
		switch {
		case errors.Is(err, vendors.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return nil, false
	}

	return vendor, true
}

// getVendorCardHandler godoc
//
//	@Summary		Returns one vendor card with review stats
//	@Tags			vendors
//	@Produce		json
//	@Param			cardCode	path		string	true	"Card code"
//	@Success		200			{object}	VendorCard
//	@Failure		404			{object}	error
//	@Router			/vendors/{cardCode} [get]
func (app *application) getVendorCardHandler(w http.ResponseWriter, r *http.Request) {
	vendor, ok := app.vendorFromCardCode(w, r)
	if !ok {
		return
	}

	// Only verified vendors have public cards.
	if vendor.VerificationStatus != vendors.StatusVerified {
		app.notFoundResponse(w, r, vendors.ErrNotFound)
		return
	}

	stats, err := app.store.Reviews.GetStats(r.Context(), vendor.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	code, err := app.cardCodec.Encode(vendor.CardSeq)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	card := VendorCard{Code: code, BusinessName: vendor.BusinessName, Reviews: stats}
	if err := app.jsonResponse(w, http.StatusOK, card); err != nil {
		app.internalServerError(w, r, err)
	}
}
