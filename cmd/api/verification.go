package main

import (
	"errors"
	"net/http"

	"eventra/internal/mailer"
	"eventra/internal/verification"
)

type SendVerificationPayload struct {
	Channel string `json:"channel" validate:"required,oneof=email phone"`
}

// sendVerificationCodeHandler issues a short-lived code for the session's
// user. Email codes go out through the mailer; SMS delivery is handled by an
// external provider, so the phone path only records the issue.
//
//	@Summary		Sends a verification code
//	@Tags			verification
//	@Accept			json
//	@Success		202
//	@Failure		400	{object}	error
//	@Router			/vendor/verification/send [post]
func (app *application) sendVerificationCodeHandler(w http.ResponseWriter, r *http.Request) {
	var payload SendVerificationPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	claims := getSessionFromContext(r)

	code, err := app.verifyCodes.Issue(r.Context(), payload.Channel, claims.UserID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	switch payload.Channel {
	case verification.ChannelEmail:
		user, err := app.store.Users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		go func() {
			data := map[string]any{"Username": user.FirstName, "Code": code}
			if _, err := app.mailer.Send(mailer.VerificationCodeTemplate, user.FirstName, user.Email, data); err != nil {
				app.logger.Warnw("failed to send verification email", "email", user.Email, "error", err)
			}
		}()
	case verification.ChannelPhone:
		// SMS dispatch goes through an external provider hook; until that is
		// wired the code only lands in the logs.
		app.logger.Infow("phone verification code issued", "user_id", claims.UserID)
	}

	w.WriteHeader(http.StatusAccepted)
}

type ConfirmVerificationPayload struct {
	Channel string `json:"channel" validate:"required,oneof=email phone"`
	Code    string `json:"code" validate:"required,len=6,numeric"`
}

// confirmVerificationCodeHandler godoc
//
//	@Summary		Confirms a verification code
//	@Tags			verification
//	@Accept			json
//	@Success		200
//	@Failure		400	{object}	error
//	@Router			/vendor/verification/confirm [post]
func (app *application) confirmVerificationCodeHandler(w http.ResponseWriter, r *http.Request) {
	var payload ConfirmVerificationPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New(firstValidationError(err)))
		return
	}

	claims := getSessionFromContext(r)

	if err := app.verifyCodes.Confirm(r.Context(), payload.Channel, claims.UserID, payload.Code); err != nil {
		switch {
		case errors.Is(err, verification.ErrCodeMismatch):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.store.Users.MarkVerified(r.Context(), claims.UserID, payload.Channel); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, nil); err != nil {
		app.internalServerError(w, r, err)
	}
}
