package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"eventra/internal/domain/vendors"
	"eventra/internal/mailer"
	"eventra/internal/notifications"
	"eventra/internal/params"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// listVendorsHandler godoc
//
//	@Summary		Lists vendors for review, filterable by status
//	@Tags			admin
//	@Produce		json
//	@Param			status	query		string	false	"pending | verified | rejected | suspended"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	error
//	@Router			/admin/vendors [get]
func (app *application) listVendorsHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	filter := vendors.Filter{Limit: p.Limit, Offset: p.Offset}
	if s := r.URL.Query().Get("status"); s != "" {
		status := vendors.VerificationStatus(s)
		switch status {
		case vendors.StatusPending, vendors.StatusVerified, vendors.StatusRejected, vendors.StatusSuspended:
			filter.Status = &status
		default:
			app.badRequestResponse(w, r, errors.New("unknown verification status"))
			return
		}
	}

	list, total, err := app.store.Vendors.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	resp := map[string]any{"vendors": list, "pagination": p}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type ReviewVendorPayload struct {
	Note *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}

// approveVendorHandler godoc
//
//	@Summary		Approves a pending vendor
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			vendorID	path		string				true	"Vendor ID"
//	@Param			payload		body		ReviewVendorPayload	false	"Optional review note"
//	@Success		200			{object}	vendors.Vendor
//	@Failure		404			{object}	error
//	@Failure		409			{object}	error
//	@Router			/admin/vendors/{vendorID}/approve [post]
func (app *application) approveVendorHandler(w http.ResponseWriter, r *http.Request) {
	app.reviewVendorHandler(w, r, vendors.StatusVerified, notifications.DecisionApproved, mailer.VendorApprovedTemplate)
}

// rejectVendorHandler godoc
//
//	@Summary		Rejects a pending vendor
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			vendorID	path		string				true	"Vendor ID"
//	@Param			payload		body		ReviewVendorPayload	false	"Optional review note"
//	@Success		200			{object}	vendors.Vendor
//	@Failure		404			{object}	error
//	@Failure		409			{object}	error
//	@Router			/admin/vendors/{vendorID}/reject [post]
func (app *application) rejectVendorHandler(w http.ResponseWriter, r *http.Request) {
	app.reviewVendorHandler(w, r, vendors.StatusRejected, notifications.DecisionRejected, mailer.VendorRejectedTemplate)
}

// suspendVendorHandler godoc
//
//	@Summary		Suspends a verified vendor
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			vendorID	path		string				true	"Vendor ID"
//	@Param			payload		body		ReviewVendorPayload	false	"Optional review note"
//	@Success		200			{object}	vendors.Vendor
//	@Failure		404			{object}	error
//	@Failure		409			{object}	error
//	@Router			/admin/vendors/{vendorID}/suspend [post]
func (app *application) suspendVendorHandler(w http.ResponseWriter, r *http.Request) {
	app.reviewVendorHandler(w, r, vendors.StatusSuspended, notifications.DecisionSuspended, "")
}

func (app *application) reviewVendorHandler(w http.ResponseWriter, r *http.Request, target vendors.VerificationStatus, decision notifications.ReviewDecision, emailTemplate string) {
	vendorID, err := uuid.Parse(chi.URLParam(r, "vendorID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("vendorID must be a valid uuid"))
		return
	}

	var payload ReviewVendorPayload
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &payload); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		if err := Validate.Struct(payload); err != nil {
			app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
			return
		}
	}

	claims := getSessionFromContext(r)

	vendor, err := app.store.Vendors.SetVerificationStatus(r.Context(), vendorID, target, claims.UserID, payload.Note)
	if err != nil {
		switch {
		case errors.Is(err, vendors.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, vendors.ErrInvalidTransition):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.notifyVendorReview(vendor, decision, emailTemplate)

	if err := app.jsonResponse(w, http.StatusOK, vendor); err != nil {
		app.internalServerError(w, r, err)
	}
}

// notifyVendorReview fans the decision out to email and push off the request
// path; a delivery failure never fails the review itself.
func (app *application) notifyVendorReview(vendor *vendors.Vendor, decision notifications.ReviewDecision, emailTemplate string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		owner, err := app.store.Users.GetByID(ctx, vendor.UserID)
		if err != nil {
			app.logger.Errorw("review notification: load owner", "vendor_id", vendor.ID, "error", err)
			return
		}

		if emailTemplate != "" {
			data := map[string]any{
				"Username":     owner.FirstName,
				"BusinessName": vendor.BusinessName,
				"ReviewNote":   vendor.ReviewNote,
			}
			if _, err := app.mailer.Send(emailTemplate, owner.FirstName, owner.Email, data); err != nil {
				app.logger.Errorw("review notification: email", "email", owner.Email, "error", err)
			}
		}

		if err := notifications.SendReviewDecision(ctx, app.push, app.store.PushTokens, owner.ID, decision, vendor.BusinessName); err != nil {
			app.logger.Warnw("review notification: push", "user_id", owner.ID, "error", err)
		}
	}()
}
