package main

import (
	"errors"
	"net/http"

	"eventra/internal/domain/onboarding"

	"github.com/google/uuid"
)

// resolveVendorID returns the session's vendor binding, cross-checking any
// vendor id the client sent. A mismatch is an authorization failure, not a
// validation one: the caller holds a valid token for a different vendor.
func (app *application) resolveVendorID(w http.ResponseWriter, r *http.Request, claimed string) (uuid.UUID, bool) {
	claims := getSessionFromContext(r)
	if claims == nil || claims.VendorID == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("no vendor binding in session"))
		return uuid.Nil, false
	}

	if claimed != "" {
		claimedID, err := uuid.Parse(claimed)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("vendor_id must be a valid uuid"))
			return uuid.Nil, false
		}
		if claimedID != *claims.VendorID {
			app.unauthorizedErrorResponse(w, r, errors.New("vendor_id does not match session"))
			return uuid.Nil, false
		}
	}

	return *claims.VendorID, true
}

type BusinessDetailsPayload struct {
	VendorID        string  `json:"vendor_id" validate:"omitempty,uuid"`
	Category        string  `json:"category" validate:"required,max=80"`
	Description     string  `json:"description" validate:"required,max=2000"`
	YearsInBusiness int     `json:"years_in_business" validate:"omitempty,min=0,max=200"`
	Website         *string `json:"website,omitempty" validate:"omitempty,url"`
}

// submitBusinessDetailsHandler godoc
//
//	@Summary		Submits onboarding stage 2: business details
//	@Tags			onboarding
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		BusinessDetailsPayload	true	"Business details"
//	@Success		200		{object}	onboarding.Progress
//	@Failure		400		{object}	error
//	@Failure		401		{object}	error
//	@Router			/vendor/onboarding/business-details [post]
func (app *application) submitBusinessDetailsHandler(w http.ResponseWriter, r *http.Request) {
	var payload BusinessDetailsPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	vendorID, ok := app.resolveVendorID(w, r, payload.VendorID)
	if !ok {
		return
	}

	data := map[string]any{
		"category":          payload.Category,
		"description":       payload.Description,
		"years_in_business": payload.YearsInBusiness,
	}
	if payload.Website != nil {
		data["website"] = *payload.Website
	}

	progress, err := app.onboarding.SubmitStage(r.Context(), vendorID, onboarding.StageBusinessDetails, data)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, progress); err != nil {
		app.internalServerError(w, r, err)
	}
}

type LocationServicesPayload struct {
	VendorID    string   `json:"vendor_id" validate:"omitempty,uuid"`
	Address     string   `json:"address" validate:"required,max=255"`
	City        string   `json:"city" validate:"required,max=120"`
	Country     string   `json:"country" validate:"required,max=120"`
	ServiceArea *string  `json:"service_area,omitempty" validate:"omitempty,max=255"`
	Services    []string `json:"services" validate:"required,min=1,dive,required,max=80"`
}

// submitLocationServicesHandler godoc
//
//	@Summary		Submits onboarding stage 3: location and services
//	@Tags			onboarding
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		LocationServicesPayload	true	"Location and services"
//	@Success		200		{object}	onboarding.Progress
//	@Failure		400		{object}	error
//	@Failure		401		{object}	error
//	@Router			/vendor/onboarding/location-services [post]
func (app *application) submitLocationServicesHandler(w http.ResponseWriter, r *http.Request) {
	var payload LocationServicesPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	vendorID, ok := app.resolveVendorID(w, r, payload.VendorID)
	if !ok {
		return
	}

	data := map[string]any{
		"address":  payload.Address,
		"city":     payload.City,
		"country":  payload.Country,
		"services": payload.Services,
	}
	if payload.ServiceArea != nil {
		data["service_area"] = *payload.ServiceArea
	}

	progress, err := app.onboarding.SubmitStage(r.Context(), vendorID, onboarding.StageLocationServices, data)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, progress); err != nil {
		app.internalServerError(w, r, err)
	}
}

type DocumentsPayload struct {
	VendorID     string   `json:"vendor_id" validate:"omitempty,uuid"`
	DocumentURLs []string `json:"document_urls" validate:"required,min=1,dive,required,url"`
	IDNumber     *string  `json:"id_number,omitempty" validate:"omitempty,max=60"`
}

// submitDocumentsHandler godoc
//
//	@Summary		Submits onboarding stage 4: verification documents
//	@Tags			onboarding
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		DocumentsPayload	true	"Document URLs"
//	@Success		200		{object}	onboarding.Progress
//	@Failure		400		{object}	error
//	@Failure		401		{object}	error
//	@Router			/vendor/onboarding/documents [post]
func (app *application) submitDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	var payload DocumentsPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	vendorID, ok := app.resolveVendorID(w, r, payload.VendorID)
	if !ok {
		return
	}

	data := map[string]any{
		"document_urls": payload.DocumentURLs,
	}
	if payload.IDNumber != nil {
		data["id_number"] = *payload.IDNumber
	}

	progress, err := app.onboarding.SubmitStage(r.Context(), vendorID, onboarding.StageDocuments, data)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, progress); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CompleteOnboardingPayload struct {
	VendorID    string         `json:"vendor_id" validate:"omitempty,uuid"`
	Preferences map[string]any `json:"preferences,omitempty"`
	Goals       []string       `json:"goals,omitempty" validate:"omitempty,dive,max=120"`
}

// completeOnboardingHandler runs the two-phase completion: the progress row
// is stamped completed, then the vendor row is finalized to step 6. A failure
// between the phases is repaired on the next progress read.
//
//	@Summary		Completes onboarding (stage 5)
//	@Tags			onboarding
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CompleteOnboardingPayload	true	"Preferences and goals"
//	@Success		200		{object}	onboarding.Progress
//	@Failure		400		{object}	error
//	@Failure		401		{object}	error
//	@Failure		500		{object}	error
//	@Router			/vendor/onboarding/complete [post]
func (app *application) completeOnboardingHandler(w http.ResponseWriter, r *http.Request) {
	var payload CompleteOnboardingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	vendorID, ok := app.resolveVendorID(w, r, payload.VendorID)
	if !ok {
		return
	}

	data := map[string]any{}
	if payload.Preferences != nil {
		data["preferences"] = payload.Preferences
	}
	if payload.Goals != nil {
		data["goals"] = payload.Goals
	}

	progress, err := app.onboarding.Complete(r.Context(), vendorID, data)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, progress); err != nil {
		app.internalServerError(w, r, err)
	}
}

// onboardingProgressHandler godoc
//
//	@Summary		Returns the vendor's onboarding progress
//	@Description	404 means the vendor never started onboarding; that is distinct from being at stage 1.
//	@Tags			onboarding
//	@Produce		json
//	@Param			vendorId	query		string	false	"Vendor ID (must match session)"
//	@Success		200			{object}	onboarding.Progress
//	@Failure		401			{object}	error
//	@Failure		404			{object}	error
//	@Router			/vendor/onboarding/progress [get]
func (app *application) onboardingProgressHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := app.resolveVendorID(w, r, r.URL.Query().Get("vendorId"))
	if !ok {
		return
	}

	progress, err := app.onboarding.Progress(r.Context(), vendorID)
	if err != nil {
		switch {
		case errors.Is(err, onboarding.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, progress); err != nil {
		app.internalServerError(w, r, err)
	}
}
