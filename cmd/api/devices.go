package main

import (
	"errors"
	"net/http"
)

type RegisterDevicePayload struct {
	Token    string `json:"token" validate:"required,max=200"`
	Platform string `json:"platform" validate:"required,oneof=ios android"`
}

// registerDeviceTokenHandler godoc
//
//	@Summary		Registers an Expo push token for the session user
//	@Tags			devices
//	@Accept			json
//	@Success		204
//	@Failure		400	{object}	error
//	@Router			/vendor/devices [post]
func (app *application) registerDeviceTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterDevicePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	claims := getSessionFromContext(r)
	if err := app.store.PushTokens.Save(r.Context(), claims.UserID, payload.Token, payload.Platform); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type RemoveDevicePayload struct {
	Token string `json:"token" validate:"required,max=200"`
}

// removeDeviceTokenHandler godoc
//
//	@Summary		Removes an Expo push token for the session user
//	@Tags			devices
//	@Accept			json
//	@Success		204
//	@Failure		400	{object}	error
//	@Router			/vendor/devices [delete]
func (app *application) removeDeviceTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload RemoveDevicePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	claims := getSessionFromContext(r)
	if err := app.store.PushTokens.Remove(r.Context(), claims.UserID, payload.Token); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
